package catalog

import (
	"strings"

	"github.com/ginjaninja78/ticket-counter/internal/types"
)

// Details scans records in source order and returns the first one whose
// trimmed category and top-up equal the trimmed inputs. The boolean is false
// when nothing matches.
//
// When the catalog repeats a (category, top-up) pair, the earliest row wins.
func Details(records []types.CatalogRecord, category, topup string) (types.CatalogRecord, bool) {
	category = strings.TrimSpace(category)
	topup = strings.TrimSpace(topup)
	if category == "" || topup == "" {
		return types.CatalogRecord{}, false
	}

	for _, r := range records {
		if r.Category() == category && r.TopUp() == topup {
			return r, true
		}
	}
	return types.CatalogRecord{}, false
}

// Price returns the trimmed price of a record, "" when it has none.
func Price(record types.CatalogRecord) string {
	return record.Price()
}
