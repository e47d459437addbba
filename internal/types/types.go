// =============================================================================
// Ticket Counter - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - csvparser / xlsxparser (record sources)
//   - catalog (index and lookup)
//   - session (purchase state machine)
//   - store (purchase persistence)
//
// =============================================================================

package types

import "strings"

// =============================================================================
// FIELD NAMES
// =============================================================================

// Canonical field names. Source headers are trimmed before they are matched
// against these, so "Category " and "Category" address the same field.
const (
	FieldCategory = "Category"
	FieldTopUp    = "TopUp"
	FieldPrice    = "Price"
)

// PurchaseHeader is the fixed column layout of the purchase file.
var PurchaseHeader = []string{FieldCategory, FieldTopUp, FieldPrice}

// =============================================================================
// CATALOG RECORD
// =============================================================================

// CatalogRecord represents one row of the ticket catalog.
type CatalogRecord struct {
	// Fields maps the canonical (trimmed) header name to the raw cell value.
	// Values are kept as read; use Value to get the trimmed form.
	Fields map[string]string

	// RowNumber is the 1-based row number in the source file, counting the
	// header row. Used for consistency reports.
	RowNumber int
}

// NewCatalogRecord builds a record from a header row and a data row.
//
// Header names are trimmed once here. When two headers collapse onto the same
// canonical name (e.g. "Category" and "Category "), the exact spelling wins
// unless its value is blank, in which case the other spelling fills in.
func NewCatalogRecord(headers, row []string, rowNumber int) CatalogRecord {
	fields := make(map[string]string, len(headers))
	ranks := make(map[string]int, len(headers))

	for i, header := range headers {
		name := strings.TrimSpace(header)
		if name == "" {
			continue
		}

		value := ""
		if i < len(row) {
			value = row[i]
		}

		rank := headerRank(header, name, value)
		if current, seen := ranks[name]; seen && current >= rank {
			continue
		}

		fields[name] = value
		ranks[name] = rank
	}

	return CatalogRecord{Fields: fields, RowNumber: rowNumber}
}

// headerRank orders candidate cells for the same canonical field:
// exact non-blank > variant non-blank > exact blank > variant blank.
func headerRank(header, name, value string) int {
	rank := 0
	if strings.TrimSpace(value) != "" {
		rank += 2
	}
	if header == name {
		rank++
	}
	return rank
}

// Value returns the trimmed value of a canonical field, or "" when the field
// is absent. Whitespace-only values are reported as "".
func (r CatalogRecord) Value(field string) string {
	return strings.TrimSpace(r.Fields[field])
}

// Category returns the trimmed category of the record.
func (r CatalogRecord) Category() string { return r.Value(FieldCategory) }

// TopUp returns the trimmed top-up of the record.
func (r CatalogRecord) TopUp() string { return r.Value(FieldTopUp) }

// Price returns the trimmed price of the record, "" when missing.
func (r CatalogRecord) Price() string { return r.Value(FieldPrice) }

// =============================================================================
// PURCHASE RECORD
// =============================================================================

// PurchaseRecord represents one confirmed purchase.
// Values are stored exactly as they were displayed when the purchase was
// confirmed and are written to the store verbatim.
type PurchaseRecord struct {
	Category string
	TopUp    string
	Price    string
}

// Row returns the record in the fixed purchase column layout.
func (p PurchaseRecord) Row() []string {
	return []string{p.Category, p.TopUp, p.Price}
}
