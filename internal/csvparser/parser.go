// =============================================================================
// Ticket Counter - CSV Parser Module
// =============================================================================
//
// This module reads tabular CSV files (the ticket catalog and the purchase
// file) into canonical records. It handles:
//   - Different delimiters (comma, pipe, tab, semicolon)
//   - A single header row whose names may carry stray whitespace
//   - Quoted fields and ragged rows
//
// Header names are canonicalized once, here, by types.NewCatalogRecord.
// Downstream code only ever addresses the trimmed field name.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/ticket-counter/internal/config"
	"github.com/ginjaninja78/ticket-counter/internal/types"
)

// utf8BOM is stripped from the first header cell when present.
const utf8BOM = "\ufeff"

// =============================================================================
// CSV DATA STRUCTURE
// =============================================================================

// CSVData represents the parsed CSV file.
type CSVData struct {
	// Headers contains the column headers exactly as they appear in the file.
	Headers []string

	// Records contains the data rows in file order.
	Records []types.CatalogRecord

	// SourceFile is the path to the source CSV file.
	SourceFile string

	// RowCount is the total number of data rows (excluding the header).
	RowCount int
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file and returns the parsed data.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The CSV parsing settings.
//
// RETURNS:
//   - A pointer to the CSVData struct containing the parsed data.
//   - An error if the file cannot be opened or parsed. A missing file
//     yields an error matching fs.ErrNotExist.
//
// An empty file parses to zero records, not an error. Rows whose cells are
// all blank are skipped.
func Parse(filePath string, settings config.CSVSettings) (*CSVData, error) {
	return parseFile(filePath, settings, false)
}

// ParseAll is Parse without skipping rows of blank cells: every row the CSV
// reader returns becomes a record. Lines with no content at all are still
// dropped by the reader itself.
func ParseAll(filePath string, settings config.CSVSettings) (*CSVData, error) {
	return parseFile(filePath, settings, true)
}

// ParseReader parses CSV content from any reader, skipping rows of blank
// cells.
func ParseReader(r io.Reader, settings config.CSVSettings) (*CSVData, error) {
	return parseReader(r, settings, false)
}

func parseFile(filePath string, settings config.CSVSettings, keepBlank bool) (*CSVData, error) {
	// Open the file.
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	data, err := parseReader(bufio.NewReader(file), settings, keepBlank)
	if err != nil {
		return nil, err
	}

	data.SourceFile = filePath
	return data, nil
}

func parseReader(r io.Reader, settings config.CSVSettings, keepBlank bool) (*CSVData, error) {
	// Create the CSV reader.
	csvReader := csv.NewReader(r)

	// Configure the CSV reader based on settings.
	configureReader(csvReader, settings)

	// Read all rows.
	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(allRows) == 0 {
		return &CSVData{Records: []types.CatalogRecord{}}, nil
	}

	headers := allRows[0]
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], utf8BOM)
	}

	records := extractRecords(allRows, headers, keepBlank)

	return &CSVData{
		Headers:  headers,
		Records:  records,
		RowCount: len(records),
	}, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	// Set the delimiter.
	// Handle special cases for common delimiters.
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ',' // Default to comma
		}
	}

	// Allow variable number of fields per row.
	// Missing trailing cells become empty fields.
	reader.FieldsPerRecord = -1

	// Allow lazy quotes (quotes that don't follow strict CSV rules).
	reader.LazyQuotes = true

	// Values are kept raw; trimming happens when a field is read.
	reader.TrimLeadingSpace = false
}

// extractRecords converts data rows into canonical records.
// Row numbers are 1-based and count the header row, so the first data row
// is row 2.
func extractRecords(allRows [][]string, headers []string, keepBlank bool) []types.CatalogRecord {
	records := make([]types.CatalogRecord, 0, len(allRows)-1)

	for rowIndex := 1; rowIndex < len(allRows); rowIndex++ {
		row := allRows[rowIndex]

		// Skip empty rows.
		if !keepBlank && isRowEmpty(row) {
			continue
		}

		records = append(records, types.NewCatalogRecord(headers, row, rowIndex+1))
	}

	return records
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// =============================================================================
// WRITER
// =============================================================================

// Write writes a header and rows to w as comma-separated CSV.
func Write(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	return nil
}
