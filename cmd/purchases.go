// =============================================================================
// Ticket Counter - Purchases Command
// =============================================================================
//
// COMMAND USAGE:
//   tickets purchases                  # list stored purchases
//   tickets purchases export [--out]   # write them to an XLSX workbook
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/ticket-counter/internal/config"
	"github.com/ginjaninja78/ticket-counter/internal/store"
	"github.com/ginjaninja78/ticket-counter/internal/xlsxparser"
	"github.com/ginjaninja78/ticket-counter/pkg/utils"
)

// exportDir overrides the configured export directory.
var exportDir string

var purchasesCmd = &cobra.Command{
	Use:   "purchases",
	Short: "List recorded purchases",

	RunE: func(cmd *cobra.Command, args []string) error {
		mainConfig, cleanup, err := setup()
		if err != nil {
			return err
		}
		defer cleanup()

		applyPathFlags(mainConfig)
		return runPurchases(cmd.Context(), mainConfig, os.Stdout)
	},
}

var purchasesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded purchases to an XLSX workbook",
	Long: `Write all recorded purchases to a new workbook with a "Purchases" sheet.
The file name follows export_name_format from the configuration.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		mainConfig, cleanup, err := setup()
		if err != nil {
			return err
		}
		defer cleanup()

		applyPathFlags(mainConfig)
		if exportDir != "" {
			mainConfig.ExportDir = exportDir
		}
		_, err = runPurchasesExport(cmd.Context(), mainConfig, os.Stdout)
		return err
	},
}

func init() {
	rootCmd.AddCommand(purchasesCmd)
	purchasesCmd.AddCommand(purchasesExportCmd)

	purchasesCmd.PersistentFlags().StringVar(
		&purchasesPath,
		"purchases",
		"",
		"Purchase file or database to use",
	)

	purchasesExportCmd.Flags().StringVar(&exportDir, "out", "", "Directory to write the workbook to")
}

func runPurchases(ctx context.Context, mainConfig *config.MainConfig, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.New(mainConfig)
	if err != nil {
		return err
	}

	purchases, err := st.Load(ctx)
	if err != nil {
		return err
	}

	if len(purchases) == 0 {
		fmt.Fprintf(out, "No purchases recorded in %s.\n", st.Location())
		return nil
	}

	fmt.Fprintf(out, "Purchases in %s:\n", st.Location())
	for i, p := range purchases {
		fmt.Fprintf(out, "%d. %s -> %s, Price: %s\n", i+1, p.Category, p.TopUp, p.Price)
	}
	fmt.Fprintln(out, "Total purchases:", len(purchases))
	return nil
}

// runPurchasesExport writes the stored purchases to a workbook and returns its
// path, or "" when there was nothing to export.
func runPurchasesExport(ctx context.Context, mainConfig *config.MainConfig, out io.Writer) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.New(mainConfig)
	if err != nil {
		return "", err
	}

	purchases, err := st.Load(ctx)
	if err != nil {
		return "", err
	}
	if len(purchases) == 0 {
		fmt.Fprintln(out, "No purchases to export.")
		return "", nil
	}

	if err := utils.EnsureDir(mainConfig.ExportDir); err != nil {
		return "", err
	}

	name := utils.GenerateOutputFileName(mainConfig.ExportNameFormat, ".xlsx", nil)
	path := filepath.Join(mainConfig.ExportDir, name)

	if err := xlsxparser.WritePurchases(path, purchases); err != nil {
		return "", fmt.Errorf("failed to export purchases: %w", err)
	}

	log.Info().Str("file", path).Int("count", len(purchases)).Msg("Purchases exported")
	fmt.Fprintf(out, "Exported %d purchase(s) to %s\n", len(purchases), path)
	return path, nil
}
