// =============================================================================
// Ticket Counter - Catalog Consistency Checks
// =============================================================================
//
// This module inspects a loaded ticket catalog and reports rows that the
// purchase flow will silently skip or shadow:
//   - Rows without a category (never listed)
//   - Rows with a category but no top-up (never selectable)
//   - Rows without a price (purchasable with an empty price)
//   - Repeated (category, top-up) pairs (only the first row is ever used)
//
// VALIDATION STRATEGY:
//   Validation is performed at two levels:
//   1. Catalog-level: the logical columns exist at all
//   2. Row-level: each row is checked in source order
//
// ERROR HANDLING:
//   - Findings are collected, never returned as Go errors
//   - Each finding carries the source row number, field and value
//   - Row findings are warnings; a missing column is an error
//
// =============================================================================

package validation

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/ginjaninja78/ticket-counter/internal/types"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Rule names.
const (
	RuleMissingColumn   = "missing_column"
	RuleMissingCategory = "missing_category"
	RuleMissingTopUp    = "missing_topup"
	RuleMissingPrice    = "missing_price"
	RuleDuplicate       = "duplicate"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single finding.
type ValidationError struct {
	// Severity indicates the severity of the finding.
	// "error" = the catalog cannot serve purchases as expected
	// "warning" = some rows are skipped or shadowed
	Severity string

	// Field is the canonical name of the field concerned.
	Field string

	// Value is the raw value that triggered the finding.
	Value string

	// Rule is the check that was violated.
	Rule string

	// Message is a human-readable description.
	Message string

	// RowNumber is the source row number, 0 for catalog-level findings.
	RowNumber int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	location := "Catalog"
	if e.RowNumber > 0 {
		location = fmt.Sprintf("Row %d", e.RowNumber)
	}
	return fmt.Sprintf("[%s] %s, Field '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity),
		location,
		e.Field,
		e.Message,
		e.Value,
	)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of validation.
type ValidationResult struct {
	// IsValid is true if there are no errors. Warnings do not affect it.
	IsValid bool

	// Errors contains all findings (including warnings), catalog-level
	// findings first, then rows in source order.
	Errors []*ValidationError

	// ErrorCount is the number of errors.
	ErrorCount int

	// WarningCount is the number of warnings.
	WarningCount int

	// RowsValidated is the number of catalog rows inspected.
	RowsValidated int
}

func (r *ValidationResult) add(err *ValidationError) {
	r.Errors = append(r.Errors, err)
	if err.Severity == SeverityError {
		r.ErrorCount++
		r.IsValid = false
		return
	}
	r.WarningCount++
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// ValidateCatalog checks records and returns every finding.
func ValidateCatalog(records []types.CatalogRecord) *ValidationResult {
	result := &ValidationResult{
		IsValid:       true,
		Errors:        make([]*ValidationError, 0),
		RowsValidated: len(records),
	}

	if len(records) == 0 {
		return result
	}

	validateColumns(records, result)

	type pair struct{ category, topup string }
	first := make(map[pair]types.CatalogRecord)

	for _, record := range records {
		category := record.Category()
		topup := record.TopUp()

		if category == "" {
			result.add(&ValidationError{
				Severity:  SeverityWarning,
				Field:     types.FieldCategory,
				Value:     record.Fields[types.FieldCategory],
				Rule:      RuleMissingCategory,
				Message:   "Row has no category and will never be listed",
				RowNumber: record.RowNumber,
			})
			continue
		}

		if topup == "" {
			result.add(&ValidationError{
				Severity:  SeverityWarning,
				Field:     types.FieldTopUp,
				Value:     record.Fields[types.FieldTopUp],
				Rule:      RuleMissingTopUp,
				Message:   fmt.Sprintf("Row for category '%s' has no top-up and cannot be selected", category),
				RowNumber: record.RowNumber,
			})
			continue
		}

		key := pair{category, topup}
		if earlier, seen := first[key]; seen {
			message := fmt.Sprintf("'%s -> %s' is shadowed by row %d", category, topup, earlier.RowNumber)
			if earlier.Price() != record.Price() {
				message += fmt.Sprintf(" (price '%s' is used instead of '%s')", earlier.Price(), record.Price())
			}
			result.add(&ValidationError{
				Severity:  SeverityWarning,
				Field:     types.FieldTopUp,
				Value:     topup,
				Rule:      RuleDuplicate,
				Message:   message,
				RowNumber: record.RowNumber,
			})
			continue
		}
		first[key] = record

		if record.Price() == "" {
			result.add(&ValidationError{
				Severity:  SeverityWarning,
				Field:     types.FieldPrice,
				Value:     record.Fields[types.FieldPrice],
				Rule:      RuleMissingPrice,
				Message:   fmt.Sprintf("'%s -> %s' has no price", category, topup),
				RowNumber: record.RowNumber,
			})
		}
	}

	return result
}

// validateColumns reports logical columns that no record carries.
func validateColumns(records []types.CatalogRecord, result *ValidationResult) {
	for _, field := range types.PurchaseHeader {
		present := false
		for _, record := range records {
			if _, ok := record.Fields[field]; ok {
				present = true
				break
			}
		}
		if !present {
			result.add(&ValidationError{
				Severity: SeverityError,
				Field:    field,
				Rule:     RuleMissingColumn,
				Message:  fmt.Sprintf("Catalog has no '%s' column", field),
			})
		}
	}
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatErrors formats findings for display or logging.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d finding(s):\n\n", len(errors)))

	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}

	return builder.String()
}

// WriteErrorLog writes the formatted findings to filePath, replacing any
// previous content.
func WriteErrorLog(errors []*ValidationError, filePath string) (err error) {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close report file: %w", cerr)
		}
	}()

	writer := bufio.NewWriter(file)
	if _, err := writer.WriteString(FormatErrors(errors)); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return writer.Flush()
}
