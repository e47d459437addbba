package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/ticket-counter/internal/config"
	"github.com/ginjaninja78/ticket-counter/internal/xlsxparser"
)

const testCatalog = "Category ,TopUp,Price\nAdult,Day,5\nAdult,Week,20\nChild,Day,1\nAdult,Day,9\n"

// testConfig returns a configuration rooted in a temp dir with the test
// catalog written to it.
func testConfig(t *testing.T) *config.MainConfig {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.CatalogFile = filepath.Join(dir, "tickets.csv")
	cfg.PurchasesFile = filepath.Join(dir, "purchases.csv")
	cfg.SQLitePath = filepath.Join(dir, "purchases.db")
	cfg.ExportDir = filepath.Join(dir, "exports")

	require.NoError(t, os.WriteFile(cfg.CatalogFile, []byte(testCatalog), 0644))
	return cfg
}

func TestRunBuy_PurchaseSaved(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	err := runBuy(context.Background(), cfg, strings.NewReader("1\n2\ny\nn\n"), &out)
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "Loaded 4 rows from")
	assert.Contains(t, output, "Available Ticket Categories:\n- Adult\n- Child\nTotal categories: 2\n")
	assert.Contains(t, output, "No previous purchases found.")
	assert.Contains(t, output, "Price: 20")
	assert.Contains(t, output, "1. Adult -> Week, Price: 20")
	assert.Contains(t, output, "Saved 1 purchase(s) to "+cfg.PurchasesFile)

	data, err := os.ReadFile(cfg.PurchasesFile)
	require.NoError(t, err)
	assert.Equal(t, "Category,TopUp,Price\nAdult,Week,20\n", string(data))
}

func TestRunBuy_DeclineKeepsHistory(t *testing.T) {
	cfg := testConfig(t)
	prior := "Category,TopUp,Price\nChild,Day,1\n"
	require.NoError(t, os.WriteFile(cfg.PurchasesFile, []byte(prior), 0644))
	var out bytes.Buffer

	err := runBuy(context.Background(), cfg, strings.NewReader("1\n1\nn\nn\n"), &out)
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "Loaded 1 previous purchase(s)")
	assert.Contains(t, output, "Purchase cancelled.")
	assert.Contains(t, output, "Previous purchases: 1")
	assert.Contains(t, output, "New purchases:      0")

	data, err := os.ReadFile(cfg.PurchasesFile)
	require.NoError(t, err)
	assert.Equal(t, prior, string(data))
}

func TestRunBuy_AppendsToHistory(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.PurchasesFile, []byte("Category,TopUp,Price\nChild,Day,1\n"), 0644))
	var out bytes.Buffer

	err := runBuy(context.Background(), cfg, strings.NewReader("1\n1\ny\ny\n2\n1\ny\n"), &out)
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.PurchasesFile)
	require.NoError(t, err)
	assert.Equal(t, "Category,TopUp,Price\nChild,Day,1\nAdult,Day,5\nChild,Day,1\n", string(data))
	assert.Contains(t, out.String(), "Total purchases:    3")
}

func TestRunBuy_MissingCatalog(t *testing.T) {
	cfg := testConfig(t)
	cfg.CatalogFile = filepath.Join(t.TempDir(), "missing.csv")
	var out bytes.Buffer

	err := runBuy(context.Background(), cfg, strings.NewReader("n\n"), &out)
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "not found")
	assert.Contains(t, output, "Total categories: 0")
	assert.Contains(t, output, "No categories available.")
	assert.Contains(t, output, "No purchases to save.")

	_, err = os.Stat(cfg.PurchasesFile)
	assert.True(t, os.IsNotExist(err))
}

// failingReader returns err on every read.
type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestRunBuy_InputFailureStillSaves(t *testing.T) {
	cfg := testConfig(t)
	in := io.MultiReader(strings.NewReader("1\n2\ny\n"), failingReader{errors.New("device gone")})
	var out bytes.Buffer

	require.NoError(t, runBuy(context.Background(), cfg, in, &out))

	output := out.String()
	assert.Contains(t, output, "Ticket purchase successful.")
	assert.Contains(t, output, "device gone")
	assert.Contains(t, output, "Total purchases:    1")
	assert.Contains(t, output, "Saved 1 purchase(s) to "+cfg.PurchasesFile)

	data, err := os.ReadFile(cfg.PurchasesFile)
	require.NoError(t, err)
	assert.Equal(t, "Category,TopUp,Price\nAdult,Week,20\n", string(data))
}

func TestRunBuy_SQLiteBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.StoreBackend = config.BackendSQLite

	var out bytes.Buffer
	require.NoError(t, runBuy(context.Background(), cfg, strings.NewReader("2\n1\nyes\nno\n"), &out))
	assert.Contains(t, out.String(), "Saved 1 purchase(s) to "+cfg.SQLitePath)

	out.Reset()
	require.NoError(t, runPurchases(context.Background(), cfg, &out))
	assert.Contains(t, out.String(), "1. Child -> Day, Price: 1")
	assert.Contains(t, out.String(), "Total purchases: 1")
}

func TestRunPurchases_Empty(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	require.NoError(t, runPurchases(context.Background(), cfg, &out))
	assert.Contains(t, out.String(), "No purchases recorded")
}

func TestRunPurchasesExport(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.PurchasesFile, []byte("Category,TopUp,Price\nAdult,Week,20\nChild,Day,1\n"), 0644))
	var out bytes.Buffer

	path, err := runPurchasesExport(context.Background(), cfg, &out)
	require.NoError(t, err)
	require.NotEmpty(t, path)
	assert.Equal(t, cfg.ExportDir, filepath.Dir(path))
	assert.Equal(t, ".xlsx", filepath.Ext(path))
	assert.Contains(t, out.String(), "Exported 2 purchase(s)")

	sheet, err := xlsxparser.Parse(path, xlsxparser.PurchasesSheet)
	require.NoError(t, err)
	require.Len(t, sheet.Records, 2)
	assert.Equal(t, "Week", sheet.Records[0].TopUp())
	assert.Equal(t, "1", sheet.Records[1].Price())
}

func TestRunPurchasesExport_NothingToExport(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	path, err := runPurchasesExport(context.Background(), cfg, &out)
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Contains(t, out.String(), "No purchases to export.")
}

func TestRunCatalog(t *testing.T) {
	cfg := testConfig(t)

	tests := []struct {
		name     string
		category string
		topup    string
		want     string
	}{
		{"categories", "", "", "- Adult\n- Child\nTotal categories: 2\n"},
		{"top-ups", "Adult", "", "Available TopUps for Adult:\n- Day\n- Week\n"},
		{"no top-ups", "Senior", "", "No top-ups found for that category."},
		{"details first match", "Adult", "Day", "TopUp details for Day (Adult):\nPrice: 5\n"},
		{"details missing", "Adult", "Month", "No details found for that selection."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, runCatalog(cfg, &out, tt.category, tt.topup))
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestRunCatalog_TopUpNeedsCategory(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, runCatalog(testConfig(t), &out, "", "Day"))
}

func TestRunCatalogValidate(t *testing.T) {
	cfg := testConfig(t)
	report := filepath.Join(t.TempDir(), "report.txt")
	var out bytes.Buffer

	require.NoError(t, runCatalogValidate(cfg, &out, report))
	assert.Contains(t, out.String(), "Checked 4 row(s): 0 error(s), 1 warning(s)")
	assert.Contains(t, out.String(), "shadowed by row 2")

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), "price '5' is used instead of '9'")
}

func TestRunCatalogValidate_MissingColumnFails(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.CatalogFile, []byte("Category,TopUp\nAdult,Day\n"), 0644))
	var out bytes.Buffer

	err := runCatalogValidate(cfg, &out, "")
	assert.Error(t, err)
	assert.Contains(t, out.String(), "Catalog has no 'Price' column")
}
