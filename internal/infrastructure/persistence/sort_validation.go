package persistence

import (
	"fmt"
	"strings"

	"github.com/fieldsales/erp/internal/domain/shared"
	"gorm.io/gorm"
)

// StockLoadSortFields contains allowed sort fields for stock loads
var StockLoadSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"requested_at": true,
	"approved_at":  true,
	"released_at":  true,
	"status":       true,
}

// ReconciliationSortFields contains allowed sort fields for reconciliations
var ReconciliationSortFields = map[string]bool{
	"created_at":    true,
	"business_date": true,
	"submitted_at":  true,
	"status":        true,
	"variance":      true,
}

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// paginate applies whitelisted ordering and paging to a listing query
func paginate(query *gorm.DB, filter shared.Filter, allowed map[string]bool) *gorm.DB {
	orderBy := ValidateSortField(filter.OrderBy, allowed, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.
		Order(fmt.Sprintf("%s %s", orderBy, orderDir)).
		Offset(filter.Offset()).
		Limit(filter.Limit())
}
