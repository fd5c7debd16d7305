package persistence

import (
	"strings"

	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/shared"
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
	"slug":       true,
	"name":       true,
	"status":     true,
}

// VariantSortFields contains allowed sort fields for variants
var VariantSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"sku":            true,
	"name":           true,
	"price":          true,
	"stock_quantity": true,
	"active":         true,
}

// LedgerSortFields contains allowed sort fields for the inventory ledger
var LedgerSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"occurred_at": true,
	"kind":        true,
	"delta":       true,
	"reference":   true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"total":      true,
	"status":     true,
	"email":      true,
}

// applyListFilter applies pagination and whitelisted ordering from the
// filter to a list query. The sort column is validated against the
// whitelist so filter input can never reach the ORDER BY clause raw.
func applyListFilter(query *gorm.DB, filter shared.Filter, allowedFields map[string]bool, defaultField string) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	field := ValidateSortField(filter.OrderBy, allowedFields, defaultField)
	if field != "" {
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	}
	return query
}
