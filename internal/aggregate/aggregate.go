// Package aggregate rolls ticket records up into ordered buckets. One
// GroupBy covers every report dimension (integration, month, customer,
// pattern); the key function decides the dimension, the options decide
// what counts as open.
package aggregate

import (
	"strings"

	"caseminer/internal/ticket"
)

// DefaultSampleSize is the number of case keys kept per bucket.
const DefaultSampleSize = 5

// KeyFunc maps a record to its bucket key parts. Returning nil or an
// empty slice skips the record.
type KeyFunc func(ticket.Record) []string

// Options tunes a grouping pass.
type Options struct {
	// OpenStatuses decides the open/closed split. Empty means the
	// built-in default list.
	OpenStatuses []string
	// SampleSize caps SampleKeys per bucket; zero means
	// DefaultSampleSize.
	SampleSize int
}

// Bucket is one group in first-seen key order.
type Bucket struct {
	// Key joins the parts with "|"; Parts keeps them separate for
	// multi-dimension tables.
	Key   string
	Parts []string

	Count  int
	Open   int
	Closed int

	// P1..P4 histogram. Priorities outside that range count toward
	// Count only.
	P1, P2, P3, P4 int

	// SampleKeys holds the first N case keys seen in this bucket.
	SampleKeys []string

	// Records are the bucket's members in input order.
	Records []ticket.Record
}

// GroupBy partitions records into buckets keyed by keyFn. Bucket order is
// the order in which keys first appear in the input, so the same input
// always produces the same table.
func GroupBy(records []ticket.Record, keyFn KeyFunc, opts Options) []Bucket {
	statuses := ticket.NewStatusSet(opts.OpenStatuses)
	if len(opts.OpenStatuses) == 0 {
		statuses = ticket.NewStatusSet(ticket.DefaultOpenStatuses())
	}
	sampleSize := opts.SampleSize
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}

	index := make(map[string]int)
	var buckets []Bucket

	for _, r := range records {
		parts := keyFn(r)
		if len(parts) == 0 {
			continue
		}
		key := strings.Join(parts, "|")
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, Bucket{Key: key, Parts: parts})
		}
		b := &buckets[i]
		b.Count++
		if statuses.IsOpen(r.Status) {
			b.Open++
		} else {
			b.Closed++
		}
		switch strings.ToUpper(strings.TrimSpace(r.Priority)) {
		case "P1":
			b.P1++
		case "P2":
			b.P2++
		case "P3":
			b.P3++
		case "P4":
			b.P4++
		}
		if len(b.SampleKeys) < sampleSize {
			b.SampleKeys = append(b.SampleKeys, r.CaseKey)
		}
		b.Records = append(b.Records, r)
	}
	return buckets
}

// CountBy tallies a field across records, keyed by valueFn, in first-seen
// order.
func CountBy(records []ticket.Record, valueFn func(ticket.Record) string) ([]string, map[string]int) {
	counts := make(map[string]int)
	var order []string
	for _, r := range records {
		v := valueFn(r)
		if v == "" {
			continue
		}
		if _, ok := counts[v]; !ok {
			order = append(order, v)
		}
		counts[v]++
	}
	return order, counts
}

// Top returns the most frequent value and its count, first-seen winning
// ties. Empty input returns ("", 0).
func Top(order []string, counts map[string]int) (string, int) {
	best, bestCount := "", 0
	for _, v := range order {
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best, bestCount
}
