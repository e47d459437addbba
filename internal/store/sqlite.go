package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/ginjaninja78/ticket-counter/internal/types"
	"github.com/ginjaninja78/ticket-counter/pkg/utils"
)

const schema = `
CREATE TABLE IF NOT EXISTS purchases (
    seq      INTEGER PRIMARY KEY,
    category TEXT NOT NULL,
    topup    TEXT NOT NULL,
    price    TEXT NOT NULL
);
`

// SQLiteStore keeps purchases in a SQLite database. The database is opened
// for each operation and closed before it returns.
type SQLiteStore struct {
	path string
}

// NewSQLiteStore creates a store backed by the database file at path.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Location implements Store.
func (s *SQLiteStore) Location() string { return s.path }

func (s *SQLiteStore) open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	return db, nil
}

// Load implements Store.
func (s *SQLiteStore) Load(ctx context.Context) ([]types.PurchaseRecord, error) {
	// Opening would create the file.
	if !utils.FileExists(s.path) {
		log.Info().Str("database", s.path).Msg("No previous purchases found")
		return []types.PurchaseRecord{}, nil
	}

	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "SELECT category, topup, price FROM purchases ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("store: query purchases: %w", err)
	}
	defer rows.Close()

	purchases := make([]types.PurchaseRecord, 0)
	for rows.Next() {
		var p types.PurchaseRecord
		if err := rows.Scan(&p.Category, &p.TopUp, &p.Price); err != nil {
			return nil, fmt.Errorf("store: scan purchase: %w", err)
		}
		purchases = append(purchases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate purchases: %w", err)
	}

	log.Info().
		Str("database", s.path).
		Int("count", len(purchases)).
		Msg("Loaded previous purchases")

	return purchases, nil
}

// Save implements Store. The previous rows are replaced in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, purchases []types.PurchaseRecord) error {
	if len(purchases) == 0 {
		return nil
	}

	if err := utils.EnsureParentDir(s.path); err != nil {
		return err
	}

	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM purchases"); err != nil {
		return fmt.Errorf("store: clear purchases: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO purchases (seq, category, topup, price) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("store: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range purchases {
		if _, err := stmt.ExecContext(ctx, i+1, p.Category, p.TopUp, p.Price); err != nil {
			return fmt.Errorf("store: insert purchase %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}
