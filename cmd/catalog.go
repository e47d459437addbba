// =============================================================================
// Ticket Counter - Catalog Command
// =============================================================================
//
// COMMAND USAGE:
//   tickets catalog                              # list categories
//   tickets catalog --category Adult             # list top-ups of Adult
//   tickets catalog --category Adult --topup Day # show the price
//   tickets catalog validate [--report FILE]     # consistency report
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/ticket-counter/internal/catalog"
	"github.com/ginjaninja78/ticket-counter/internal/config"
	"github.com/ginjaninja78/ticket-counter/internal/types"
	"github.com/ginjaninja78/ticket-counter/internal/validation"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	listCategory string
	listTopUp    string
	reportFile   string
)

// =============================================================================
// COMMAND DEFINITIONS
// =============================================================================

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse the ticket catalog",
	Long: `List the ticket categories. With --category, list the top-ups of that
category; with --category and --topup, show the price of that ticket.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		mainConfig, cleanup, err := setup()
		if err != nil {
			return err
		}
		defer cleanup()

		applyPathFlags(mainConfig)
		return runCatalog(mainConfig, os.Stdout, listCategory, listTopUp)
	},
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the catalog for rows the purchase flow skips or shadows",
	Long: `Report catalog rows without a category, top-up or price, and repeated
category/top-up pairs of which only the first row is used. Warnings never fail
the command; a missing Category, TopUp or Price column does.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		mainConfig, cleanup, err := setup()
		if err != nil {
			return err
		}
		defer cleanup()

		applyPathFlags(mainConfig)
		return runCatalogValidate(mainConfig, os.Stdout, reportFile)
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogValidateCmd)

	catalogCmd.PersistentFlags().StringVar(
		&catalogPath,
		"catalog",
		"",
		"Catalog file to read (CSV or XLSX)",
	)

	catalogCmd.Flags().StringVar(&listCategory, "category", "", "Category whose top-ups to list")
	catalogCmd.Flags().StringVar(&listTopUp, "topup", "", "Top-up whose price to show (requires --category)")

	catalogValidateCmd.Flags().StringVar(&reportFile, "report", "", "Also write the report to this file")
}

// =============================================================================
// COMMAND FUNCTIONS
// =============================================================================

func runCatalog(mainConfig *config.MainConfig, out io.Writer, category, topup string) error {
	if topup != "" && category == "" {
		return errors.New("--topup requires --category")
	}

	index := catalog.NewIndex(loadCatalog(mainConfig, out))

	if category == "" {
		printCatalogOverview(out, index)
		return nil
	}

	topups := index.TopUps(category)
	if topup == "" {
		fmt.Fprintf(out, "Available TopUps for %s:\n", category)
		for _, t := range topups {
			fmt.Fprintln(out, "-", t)
		}
		if len(topups) == 0 {
			fmt.Fprintln(out, "No top-ups found for that category.")
		}
		return nil
	}

	fmt.Fprintf(out, "TopUp details for %s (%s):\n", topup, category)
	record, ok := index.Details(category, topup)
	if !ok {
		fmt.Fprintln(out, "No details found for that selection.")
		return nil
	}
	fmt.Fprintln(out, "Price:", record.Price())
	return nil
}

func runCatalogValidate(mainConfig *config.MainConfig, out io.Writer, report string) error {
	index := catalog.NewIndex(loadCatalog(mainConfig, out))
	result := validation.ValidateCatalog(index.Records())

	fmt.Fprintf(out, "Checked %d row(s): %d error(s), %d warning(s)\n",
		result.RowsValidated, result.ErrorCount, result.WarningCount)
	fmt.Fprint(out, validation.FormatErrors(result.Errors))
	if len(result.Errors) == 0 {
		fmt.Fprintln(out)
	}

	if report != "" {
		if err := validation.WriteErrorLog(result.Errors, report); err != nil {
			return err
		}
		fmt.Fprintf(out, "Report written to %s\n", report)
	}

	if !result.IsValid {
		return fmt.Errorf("catalog %s has %d error(s)", mainConfig.CatalogFile, result.ErrorCount)
	}
	return nil
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// loadCatalog reads the configured catalog. A missing or unreadable file is
// reported and yields an empty catalog.
func loadCatalog(mainConfig *config.MainConfig, out io.Writer) []types.CatalogRecord {
	path := mainConfig.CatalogFile

	records, err := catalog.LoadFile(path, mainConfig.CatalogSheet, mainConfig.CSVSettings)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Info().Str("file", path).Msg("Catalog file not found, using an empty catalog")
			fmt.Fprintf(out, "Catalog file %s not found.\n", path)
		} else {
			log.Error().Err(err).Str("file", path).Msg("Failed to read catalog, using an empty catalog")
			fmt.Fprintf(out, "Could not read catalog %s: %v\n", path, err)
		}
		return []types.CatalogRecord{}
	}

	log.Info().Str("file", path).Int("rows", len(records)).Msg("Catalog loaded")
	fmt.Fprintf(out, "Loaded %d rows from %s\n", len(records), path)
	return records
}

// printCatalogOverview lists the categories of index.
func printCatalogOverview(out io.Writer, index *catalog.Index) {
	categories := index.Categories()

	fmt.Fprintln(out, "Available Ticket Categories:")
	for _, c := range categories {
		fmt.Fprintln(out, "-", c)
	}
	fmt.Fprintln(out, "Total categories:", len(categories))
}
