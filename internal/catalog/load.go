package catalog

import (
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/ticket-counter/internal/config"
	"github.com/ginjaninja78/ticket-counter/internal/csvparser"
	"github.com/ginjaninja78/ticket-counter/internal/types"
	"github.com/ginjaninja78/ticket-counter/internal/xlsxparser"
)

// LoadFile reads catalog records from path. Workbooks (.xlsx) are read from
// sheet, or the first sheet when sheet is empty; anything else is parsed as
// CSV. A missing file returns an error matching fs.ErrNotExist so the caller
// can decide to continue with an empty catalog.
func LoadFile(path, sheet string, settings config.CSVSettings) ([]types.CatalogRecord, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		data, err := xlsxparser.Parse(path, sheet)
		if err != nil {
			return nil, err
		}
		return data.Records, nil
	}

	data, err := csvparser.Parse(path, settings)
	if err != nil {
		return nil, err
	}
	return data.Records, nil
}
