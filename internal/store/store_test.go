package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/ticket-counter/internal/config"
	"github.com/ginjaninja78/ticket-counter/internal/types"
)

func backends(t *testing.T) map[string]Store {
	dir := t.TempDir()
	return map[string]Store{
		"csv":    NewCSVStore(filepath.Join(dir, "purchases.csv")),
		"sqlite": NewSQLiteStore(filepath.Join(dir, "purchases.db")),
	}
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	want := []types.PurchaseRecord{{Category: "Adult", TopUp: "Week", Price: "20"}}

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save(ctx, want))

			got, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestStore_OrderPreservedAndOverwritten(t *testing.T) {
	ctx := context.Background()
	first := []types.PurchaseRecord{
		{Category: "Adult", TopUp: "Day", Price: "5"},
		{Category: "Child", TopUp: "Week", Price: "8"},
		{Category: "Adult", TopUp: "Day", Price: "5"},
	}
	second := []types.PurchaseRecord{
		{Category: "Student", TopUp: "Month", Price: ""},
	}

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save(ctx, first))
			got, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, first, got)

			require.NoError(t, s.Save(ctx, second))
			got, err = s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, second, got)
		})
	}
}

func TestStore_MissingSourceIsEmpty(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			got, err := s.Load(context.Background())
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestStore_EmptySaveIsNoOp(t *testing.T) {
	ctx := context.Background()
	prior := []types.PurchaseRecord{{Category: "Adult", TopUp: "Week", Price: "20"}}

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save(ctx, prior))
			require.NoError(t, s.Save(ctx, nil))

			got, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, prior, got)
		})
	}
}

func TestSQLiteStore_LoadDoesNotCreateDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "purchases.db")

	_, err := NewSQLiteStore(path).Load(context.Background())
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestCSVStore_EmptySaveLeavesNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "purchases.csv")

	require.NoError(t, NewCSVStore(path).Save(context.Background(), nil))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestCSVStore_FileLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "purchases.csv")
	s := NewCSVStore(path)

	require.NoError(t, s.Save(context.Background(), []types.PurchaseRecord{
		{Category: "Adult", TopUp: "Week", Price: "20"},
		{Category: "Family, Large", TopUp: "Day", Price: ""},
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Category,TopUp,Price\nAdult,Week,20\n\"Family, Large\",Day,\n", string(data))
}

func TestCSVStore_LoadKeepsValuesVerbatim(t *testing.T) {
	path := filepath.Join(t.TempDir(), "purchases.csv")
	require.NoError(t, os.WriteFile(path, []byte("Category,Price,TopUp,Extra\n Adult ,20,Week,x\nChild,1\n"), 0644))

	got, err := NewCSVStore(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []types.PurchaseRecord{
		{Category: " Adult ", TopUp: "Week", Price: "20"},
		{Category: "Child", TopUp: "", Price: "1"},
	}, got)
}

func TestCSVStore_BlankRowsSurviveReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "purchases.csv")
	s := NewCSVStore(path)
	want := []types.PurchaseRecord{
		{Category: "Adult", TopUp: "Week", Price: "20"},
		{},
		{Category: "Child", TopUp: "Day", Price: "1"},
	}

	require.NoError(t, s.Save(context.Background(), want))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n,,\n")

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestNew_SelectsBackend(t *testing.T) {
	cfg := config.Default()

	s, err := New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &CSVStore{}, s)
	assert.Equal(t, cfg.PurchasesFile, s.Location())

	cfg.StoreBackend = config.BackendSQLite
	s, err = New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	assert.Equal(t, cfg.SQLitePath, s.Location())

	cfg.StoreBackend = "mongo"
	_, err = New(cfg)
	assert.Error(t, err)
}
