// =============================================================================
// Ticket Counter - Buy Command
// =============================================================================
//
// This file defines the 'buy' command, the interactive purchase flow.
//
// COMMAND USAGE:
//   tickets buy [flags]
//
// FLAGS:
//   --catalog    : Catalog file to read (overrides catalog_file)
//   --purchases  : Purchase store to use (overrides purchases_file, or
//                  sqlite_path with the sqlite backend)
//
// PROCESSING PIPELINE:
//   1. Load the catalog (a missing file means an empty catalog)
//   2. Print the catalog overview and log consistency warnings
//   3. Load previous purchases (a missing store means none)
//   4. Run purchase sessions until the user stops or input ends or fails
//   5. Print the summary and save all purchases
//
// A failed save is reported but does not fail the command.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/lithammer/dedent"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/ticket-counter/internal/catalog"
	"github.com/ginjaninja78/ticket-counter/internal/config"
	"github.com/ginjaninja78/ticket-counter/internal/prompt"
	"github.com/ginjaninja78/ticket-counter/internal/session"
	"github.com/ginjaninja78/ticket-counter/internal/store"
	"github.com/ginjaninja78/ticket-counter/internal/types"
	"github.com/ginjaninja78/ticket-counter/internal/validation"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// catalogPath overrides the configured catalog file. Shared by buy and
// catalog.
var catalogPath string

// purchasesPath overrides the configured purchase store location.
var purchasesPath string

// =============================================================================
// BUY COMMAND DEFINITION
// =============================================================================

var buyCmd = &cobra.Command{
	Use:   "buy",
	Short: "Choose tickets from the catalog and record purchases",
	Long: `The buy command lists the ticket categories, lets you choose a category and
a top-up, shows the price and asks for confirmation. Confirmed purchases are
added to the purchase history, which is saved when you stop buying.

Input is read line by line from stdin, so answers can be piped in.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		mainConfig, cleanup, err := setup()
		if err != nil {
			return err
		}
		defer cleanup()

		applyPathFlags(mainConfig)
		return runBuy(cmd.Context(), mainConfig, os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(buyCmd)

	buyCmd.Flags().StringVar(
		&catalogPath,
		"catalog",
		"",
		"Catalog file to read (CSV or XLSX)",
	)

	buyCmd.Flags().StringVar(
		&purchasesPath,
		"purchases",
		"",
		"Purchase file or database to use",
	)
}

// applyPathFlags copies the path flags over the loaded configuration.
func applyPathFlags(mainConfig *config.MainConfig) {
	if catalogPath != "" {
		mainConfig.CatalogFile = catalogPath
	}
	if purchasesPath != "" {
		if mainConfig.StoreBackend == config.BackendSQLite {
			mainConfig.SQLitePath = purchasesPath
		} else {
			mainConfig.PurchasesFile = purchasesPath
		}
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runBuy runs the purchase flow reading answers from in and writing menus
// and messages to out.
func runBuy(ctx context.Context, mainConfig *config.MainConfig, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	runID := uuid.New().String()
	logger := log.With().Str("run_id", runID).Logger()
	logger.Info().Str("catalog", mainConfig.CatalogFile).Msg("Starting purchase run")

	// =========================================================================
	// STEP 1: LOAD CATALOG
	// =========================================================================

	index := catalog.NewIndex(loadCatalog(mainConfig, out))

	printCatalogOverview(out, index)

	result := validation.ValidateCatalog(index.Records())
	for _, finding := range result.Errors {
		logger.Warn().
			Int("row", finding.RowNumber).
			Str("rule", finding.Rule).
			Str("field", finding.Field).
			Msg(finding.Message)
	}

	// =========================================================================
	// STEP 2: LOAD PREVIOUS PURCHASES
	// =========================================================================
	// A store that exists but cannot be read stops the run: saving later
	// would overwrite the history.

	st, err := store.New(mainConfig)
	if err != nil {
		return err
	}

	prior, err := st.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load previous purchases from %s: %w", st.Location(), err)
	}
	if len(prior) > 0 {
		fmt.Fprintf(out, "Loaded %d previous purchase(s) from %s\n", len(prior), st.Location())
	} else {
		fmt.Fprintln(out, "No previous purchases found.")
	}

	// =========================================================================
	// STEP 3: RUN SESSIONS
	// =========================================================================
	// An input error ends shopping; what was bought is still summarized and
	// saved.

	sess := session.New(index, prompt.NewConsole(in, out), out)
	purchases := sess.Repeat(prior)

	// =========================================================================
	// STEP 4: SUMMARY AND SAVE
	// =========================================================================

	printSummary(out, purchases, len(prior))

	if len(purchases) == 0 {
		fmt.Fprintln(out, "No purchases to save.")
		logger.Info().Msg("Nothing to save")
		return nil
	}

	if err := st.Save(ctx, purchases); err != nil {
		fmt.Fprintf(out, "Error saving purchases: %v\n", err)
		logger.Error().Err(err).Str("store", st.Location()).Msg("Failed to save purchases")
		return nil
	}

	fmt.Fprintf(out, "Saved %d purchase(s) to %s\n", len(purchases), st.Location())
	logger.Info().
		Int("total", len(purchases)).
		Int("new", len(purchases)-len(prior)).
		Str("store", st.Location()).
		Msg("Purchases saved")

	return nil
}

// =============================================================================
// OUTPUT HELPERS
// =============================================================================

const summaryText = `
	Purchases on record:
	%s
	Previous purchases: %d
	New purchases:      %d
	Total purchases:    %d
`

func formatText(text string, a ...any) string {
	return fmt.Sprintf(strings.TrimSpace(dedent.Dedent(text)), a...)
}

// printSummary prints every purchase, prior ones included, followed by the
// counts.
func printSummary(out io.Writer, purchases []types.PurchaseRecord, priorCount int) {
	var list strings.Builder
	if len(purchases) == 0 {
		list.WriteString("(none)\n")
	}
	for i, p := range purchases {
		fmt.Fprintf(&list, "%d. %s -> %s, Price: %s\n", i+1, p.Category, p.TopUp, p.Price)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, formatText(summaryText,
		strings.TrimSuffix(list.String(), "\n"),
		priorCount,
		len(purchases)-priorCount,
		len(purchases),
	))
}
