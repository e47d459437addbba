// =============================================================================
// Ticket Counter - XLSX Catalog Parser and Purchase Exporter
// =============================================================================
//
// This module reads the ticket catalog from an XLSX workbook and writes
// purchase exports back to XLSX.
//
// CATALOG SHEET STRUCTURE:
//   The first row holds the headers; every following non-empty row is one
//   catalog entry. Column order does not matter, only the header names.
//
//   | Category | TopUp  | Price |
//   |----------|--------|-------|
//   | Adult    | Day    | 5.00  |
//   | Adult    | Week   | 20.00 |
//   | Child    | Day    | 2.50  |
//
//   Header names may carry stray whitespace ("Category "); they are trimmed
//   exactly like CSV headers.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/ticket-counter/internal/types"
)

// PurchasesSheet is the sheet name used for purchase exports.
const PurchasesSheet = "Purchases"

// =============================================================================
// SHEET DATA STRUCTURE
// =============================================================================

// SheetData represents one parsed worksheet.
type SheetData struct {
	// Headers contains the header row exactly as stored in the sheet.
	Headers []string

	// Records contains the data rows in sheet order.
	Records []types.CatalogRecord

	// SourceFile is the path to the workbook.
	SourceFile string

	// SheetName is the worksheet that was read.
	SheetName string

	// RowCount is the number of data rows (excluding the header).
	RowCount int
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a catalog worksheet from an XLSX workbook.
//
// PARAMETERS:
//   - workbookPath: The path to the XLSX file.
//   - sheetName: The worksheet to read. Empty means the first sheet.
//
// RETURNS:
//   - A pointer to the SheetData struct.
//   - An error if the workbook cannot be opened or the sheet is missing.
//     A missing file yields an error matching fs.ErrNotExist.
func Parse(workbookPath, sheetName string) (*SheetData, error) {
	// Open the XLSX file.
	f, err := excelize.OpenFile(workbookPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheetName == "" {
		sheetName = f.GetSheetName(0)
		if sheetName == "" {
			return nil, fmt.Errorf("workbook has no sheets")
		}
	}

	// Get all rows from the sheet.
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %q: %w", sheetName, err)
	}

	data := &SheetData{
		Records:    []types.CatalogRecord{},
		SourceFile: workbookPath,
		SheetName:  sheetName,
	}

	if len(rows) == 0 {
		return data, nil
	}

	data.Headers = rows[0]

	// Parse each data row.
	for i := 1; i < len(rows); i++ {
		row := rows[i]

		// Skip empty rows.
		if len(row) == 0 || isRowEmpty(row) {
			continue
		}

		data.Records = append(data.Records, types.NewCatalogRecord(data.Headers, row, i+1))
	}

	data.RowCount = len(data.Records)
	return data, nil
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// =============================================================================
// EXPORT
// =============================================================================

// WritePurchases writes purchases to a new workbook at outputPath.
//
// The workbook has a single sheet named "Purchases" with the header
// Category, TopUp, Price followed by one row per purchase, in order.
// Values are written as text so prices keep their display form.
func WritePurchases(outputPath string, purchases []types.PurchaseRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	// Rename the default sheet.
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, PurchasesSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(PurchasesSheet, "A1", &types.PurchaseHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, p := range purchases {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		row := p.Row()
		if err := f.SetSheetRow(PurchasesSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	return nil
}
