// =============================================================================
// Ticket Counter - Purchase Store
// =============================================================================
//
// A Store persists the purchase history between runs. Two backends exist:
//   - csv:    a CSV file with the header Category,TopUp,Price
//   - sqlite: a single-table SQLite database
//
// Both share the same contract:
//   - Load on a missing source returns an empty history and no error
//   - Save writes the full history, replacing what was stored before
//   - Save with an empty history writes nothing
//
// =============================================================================

package store

import (
	"context"
	"fmt"

	"github.com/ginjaninja78/ticket-counter/internal/config"
	"github.com/ginjaninja78/ticket-counter/internal/types"
)

// Store loads and saves the purchase history.
type Store interface {
	// Load returns the stored purchases in their stored order.
	Load(ctx context.Context) ([]types.PurchaseRecord, error)

	// Save replaces the stored purchases with purchases.
	Save(ctx context.Context, purchases []types.PurchaseRecord) error

	// Location describes where purchases are stored, for user messages.
	Location() string
}

// New returns the store selected by cfg.StoreBackend.
func New(cfg *config.MainConfig) (Store, error) {
	switch cfg.StoreBackend {
	case config.BackendCSV, "":
		return NewCSVStore(cfg.PurchasesFile), nil
	case config.BackendSQLite:
		return NewSQLiteStore(cfg.SQLitePath), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
