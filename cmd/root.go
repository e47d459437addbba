// =============================================================================
// Ticket Counter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (tickets)
//   ├── buyCmd (tickets buy)
//   ├── catalogCmd (tickets catalog)
//   │   └── catalogValidateCmd (tickets catalog validate)
//   ├── purchasesCmd (tickets purchases)
//   │   └── purchasesExportCmd (tickets purchases export)
//   └── versionCmd (tickets version)
//
// CONFIGURATION:
//   Commands that touch data call setup(), which:
//   1. Loads the main configuration (--config, .env, TICKETS_* variables)
//   2. Sets up logging to the configured log file
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/ticket-counter/internal/config"
	"github.com/ginjaninja78/ticket-counter/pkg/utils"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose mirrors logs to stderr and forces debug level.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "tickets",
	Short: "Ticket Counter - browse the ticket catalog and record purchases",
	Long: `Ticket Counter loads a ticket catalog (CSV or XLSX), lets you pick a
category and a top-up, shows the price, and records confirmed purchases.
Purchases are kept between runs in a CSV file or a SQLite database.

Example Usage:
  tickets buy                          # Start buying tickets
  tickets catalog --category Adult     # List the top-ups of a category
  tickets catalog validate             # Check the catalog for skipped rows
  tickets purchases export             # Export purchases to a workbook`,

	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Print logs to stderr and enable debug logging",
	)
}

// setup loads the configuration and configures logging. The returned func
// releases the log file and must be called when the command finishes.
func setup() (*config.MainConfig, func(), error) {
	mainConfig, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load main config: %w", err)
	}

	cleanup := initLogging(mainConfig, verbose)

	log.Debug().
		Str("config", cfgFile).
		Str("catalog", mainConfig.CatalogFile).
		Str("backend", mainConfig.StoreBackend).
		Msg("Configuration loaded")

	return mainConfig, cleanup, nil
}

// initLogging points the global logger at the configured log file, and also
// at stderr when verbose is set. If the log file cannot be opened, logs go
// to stderr only.
func initLogging(mainConfig *config.MainConfig, verbose bool) func() {
	level, err := zerolog.ParseLevel(mainConfig.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr}

	logFile, err := openLogFile(mainConfig.LogFile)
	if err != nil {
		log.Logger = log.Output(consoleWriter)
		log.Warn().Err(err).Str("logFile", mainConfig.LogFile).Msg("Logging to stderr only")
		return func() {}
	}

	var out io.Writer = zerolog.ConsoleWriter{Out: logFile, NoColor: true}
	if verbose {
		out = io.MultiWriter(consoleWriter, out)
	}
	log.Logger = log.Output(out)

	return func() {
		logFile.Close()
	}
}

func openLogFile(path string) (*os.File, error) {
	if err := utils.EnsureParentDir(path); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}
