package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/ginjaninja78/ticket-counter/internal/config"
	"github.com/ginjaninja78/ticket-counter/internal/csvparser"
	"github.com/ginjaninja78/ticket-counter/internal/types"
	"github.com/ginjaninja78/ticket-counter/pkg/utils"
)

// CSVStore keeps purchases in a CSV file.
type CSVStore struct {
	path string
}

// NewCSVStore creates a store backed by the CSV file at path.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Location implements Store.
func (s *CSVStore) Location() string { return s.path }

// Load implements Store. Values are returned as stored, without trimming.
// Missing columns read as "", and a row of empty cells loads as an empty
// purchase.
func (s *CSVStore) Load(ctx context.Context) ([]types.PurchaseRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := csvparser.ParseAll(s.path, config.DefaultCSVSettings())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Info().Str("file", s.path).Msg("No previous purchases found")
			return []types.PurchaseRecord{}, nil
		}
		return nil, fmt.Errorf("failed to load purchases: %w", err)
	}

	purchases := make([]types.PurchaseRecord, 0, len(data.Records))
	for _, r := range data.Records {
		purchases = append(purchases, types.PurchaseRecord{
			Category: r.Fields[types.FieldCategory],
			TopUp:    r.Fields[types.FieldTopUp],
			Price:    r.Fields[types.FieldPrice],
		})
	}

	log.Info().
		Str("file", s.path).
		Int("count", len(purchases)).
		Msg("Loaded previous purchases")

	return purchases, nil
}

// Save implements Store.
func (s *CSVStore) Save(ctx context.Context, purchases []types.PurchaseRecord) (err error) {
	if len(purchases) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := utils.EnsureParentDir(s.path); err != nil {
		return err
	}

	file, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create purchases file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close purchases file: %w", cerr)
		}
	}()

	rows := make([][]string, 0, len(purchases))
	for _, p := range purchases {
		rows = append(rows, p.Row())
	}

	if err := csvparser.Write(file, types.PurchaseHeader, rows); err != nil {
		return fmt.Errorf("failed to write purchases: %w", err)
	}

	return nil
}
