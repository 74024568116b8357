package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"caseminer/internal/analysis"
)

// LoadRules returns the analysis rule set: the built-in defaults, with any
// sections present in the YAML file at path overriding them wholesale.
func LoadRules(path string) (analysis.Config, error) {
	cfg := analysis.DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read rules: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse rules yaml: %w", err)
	}
	return cfg, nil
}
