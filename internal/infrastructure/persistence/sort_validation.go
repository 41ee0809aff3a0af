package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"unit_price": true,
	"category":   true,
}

// ClientProfileSortFields contains allowed sort fields for client profiles
var ClientProfileSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"client_id":    true,
	"last_name":    true,
	"shop_name":    true,
	"shop_city":    true,
	"last_updated": true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"id":                  true,
	"created_at":          true,
	"updated_at":          true,
	"order_number":        true,
	"client_id":           true,
	"status":              true,
	"order_date":          true,
	"last_processed_date": true,
}

// PendingDeliverySortFields contains allowed sort fields for the delivery backlog
var PendingDeliverySortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"client_id":    true,
	"product_name": true,
	"quantity":     true,
	"category":     true,
}

// DocumentSortFields contains allowed sort fields for documents
var DocumentSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"document_type": true,
	"order_number":  true,
	"client_id":     true,
	"status":        true,
	"generated_at":  true,
}
