package analysis

import "strings"

// flowDirection derives the data direction from a flow name. Names with a
// "to" read around the netsuite position; otherwise the verb decides.
func flowDirection(flowName string) string {
	lower := strings.ToLower(flowName)
	toIdx := strings.Index(lower, "to")
	nsIdx := strings.Index(lower, "netsuite")
	switch {
	case toIdx >= 0 && nsIdx > toIdx:
		return "Import to NetSuite"
	case toIdx >= 0 && nsIdx >= 0 && nsIdx < toIdx:
		return "Export from NetSuite"
	case toIdx >= 0:
		return "Sync"
	case strings.Contains(lower, "import"):
		return "Import"
	case strings.Contains(lower, "export"):
		return "Export"
	case strings.Contains(lower, "sync"):
		return "Sync"
	default:
		return "Unspecified"
	}
}

// flowRecordType derives the record type touched by a flow from its name.
func flowRecordType(flowName string) string {
	lower := strings.ToLower(flowName)
	switch {
	case strings.Contains(lower, "sales order"), strings.Contains(lower, "order"):
		return "Sales Order"
	case strings.Contains(lower, "cash sale"):
		return "Cash Sale"
	case strings.Contains(lower, "fulfillment"):
		return "Item Fulfillment"
	case strings.Contains(lower, "refund"), strings.Contains(lower, "credit memo"):
		return "Refund/Credit"
	case strings.Contains(lower, "settlement"):
		return "Settlement"
	case strings.Contains(lower, "shipment"):
		return "Shipment"
	case strings.Contains(lower, "customer"):
		return "Customer"
	case strings.Contains(lower, "product"), strings.Contains(lower, "item"), strings.Contains(lower, "inventory"):
		return "Product/Item"
	case strings.Contains(lower, "payment"):
		return "Payment"
	case strings.Contains(lower, "invoice"):
		return "Invoice"
	default:
		return "N/A"
	}
}
