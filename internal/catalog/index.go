// =============================================================================
// Ticket Counter - Catalog Index
// =============================================================================
//
// Derives the two views the purchase flow navigates:
//   - the sorted set of categories
//   - per category, the sorted set of top-ups
//
// Records are canonicalized at ingestion, so every lookup here addresses a
// single field name. Values are compared after trimming, case-sensitively.
//
// =============================================================================

package catalog

import (
	"sort"
	"strings"

	"github.com/ginjaninja78/ticket-counter/internal/types"
)

// Index wraps a loaded catalog. It is read-only after construction.
type Index struct {
	records []types.CatalogRecord
}

// NewIndex creates an index over records. The slice is not copied and must
// not be modified afterwards.
func NewIndex(records []types.CatalogRecord) *Index {
	return &Index{records: records}
}

// Records returns the underlying records in source order.
func (ix *Index) Records() []types.CatalogRecord { return ix.records }

// Len returns the number of catalog rows.
func (ix *Index) Len() int { return len(ix.records) }

// Categories returns the sorted distinct categories of the catalog.
func (ix *Index) Categories() []string { return Categories(ix.records) }

// TopUps returns the sorted distinct top-ups listed under category.
func (ix *Index) TopUps(category string) []string { return TopUpsForCategory(ix.records, category) }

// Details returns the first record for (category, topup).
func (ix *Index) Details(category, topup string) (types.CatalogRecord, bool) {
	return Details(ix.records, category, topup)
}

// =============================================================================
// DERIVED VIEWS
// =============================================================================

// Categories returns the distinct, non-empty, trimmed category values found
// in records, sorted ascending. Rows without a category contribute nothing.
func Categories(records []types.CatalogRecord) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		if c := r.Category(); c != "" {
			seen[c] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// TopUpsForCategory returns the distinct, non-empty, trimmed top-ups of rows
// whose category equals category after trimming, sorted ascending. An unknown
// category, or one whose rows carry no top-up, yields an empty slice.
func TopUpsForCategory(records []types.CatalogRecord, category string) []string {
	category = strings.TrimSpace(category)

	if category == "" {
		return []string{}
	}

	seen := make(map[string]struct{})
	for _, r := range records {
		if r.Category() != category {
			continue
		}
		if t := r.TopUp(); t != "" {
			seen[t] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
