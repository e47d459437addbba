// =============================================================================
// Ticket Counter - Configuration Module
// =============================================================================
//
// This module is responsible for loading and validating the application
// configuration.
//
// CONFIGURATION SOURCES (later sources win):
//   1. Built-in defaults
//   2. The YAML config file (config.yaml by default). A missing file is fine.
//   3. Environment variables (TICKETS_*), optionally loaded from a .env file
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// STORE BACKENDS
// =============================================================================

const (
	// BackendCSV keeps purchases in a CSV file (Category,TopUp,Price).
	BackendCSV = "csv"

	// BackendSQLite keeps purchases in a SQLite database.
	BackendSQLite = "sqlite"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "TICKETS_"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
// This is loaded from the main config.yaml file.
type MainConfig struct {
	// =========================================================================
	// CATALOG SETTINGS
	// =========================================================================

	// CatalogFile is the ticket catalog. Files ending in .xlsx are read with
	// the spreadsheet parser, everything else as CSV.
	// Default: "tickets.csv"
	CatalogFile string `yaml:"catalog_file" validate:"required"`

	// CatalogSheet is the worksheet to read from an XLSX catalog.
	// Empty means the first sheet.
	CatalogSheet string `yaml:"catalog_sheet"`

	// CSVSettings contains settings for parsing CSV files.
	CSVSettings CSVSettings `yaml:"csv_settings"`

	// =========================================================================
	// PURCHASE STORE SETTINGS
	// =========================================================================

	// PurchasesFile is the CSV purchase file used by the csv backend.
	// Default: "purchases.csv"
	PurchasesFile string `yaml:"purchases_file" validate:"required"`

	// StoreBackend selects where purchases are persisted.
	// Valid values: "csv", "sqlite"
	// Default: "csv"
	StoreBackend string `yaml:"store_backend" validate:"oneof=csv sqlite"`

	// SQLitePath is the database file used by the sqlite backend.
	// Default: "purchases.db"
	SQLitePath string `yaml:"sqlite_path" validate:"required_if=StoreBackend sqlite"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogFile is the path to the application log file.
	// Default: "./logs/tickets.log"
	LogFile string `yaml:"log_file"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// =========================================================================
	// EXPORT SETTINGS
	// =========================================================================

	// ExportDir is where `purchases export` writes workbooks.
	// Default: "./exports"
	ExportDir string `yaml:"export_dir" validate:"required"`

	// ExportNameFormat defines the exported workbook file name.
	// Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - Current date (YYYYMMDD)
	// Default: "purchases_{timestamp}_{uuid}.xlsx"
	ExportNameFormat string `yaml:"export_name_format" validate:"required"`
}

// =============================================================================
// CSV SETTINGS STRUCTURE
// =============================================================================

// CSVSettings contains settings for parsing CSV files.
type CSVSettings struct {
	// Delimiter is the character used to separate fields in the CSV.
	// Common values: "," (comma), "|" (pipe), "\t" (tab), ";" (semicolon)
	// Default: ","
	Delimiter string `yaml:"delimiter"`
}

// DefaultCSVSettings returns comma-separated settings.
func DefaultCSVSettings() CSVSettings {
	return CSVSettings{Delimiter: ","}
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every option set to its default.
func Default() *MainConfig {
	var config MainConfig
	applyMainConfigDefaults(&config)
	return &config
}

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file exists but cannot be read or parsed, or if the
//     resulting configuration is invalid.
//
// A missing file is not an error: defaults and environment overrides apply.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	var config MainConfig

	// Read the configuration file.
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		// Parse the YAML.
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// Fall through to defaults.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Environment overrides, including values from an optional .env file.
	// godotenv never overwrites variables already set in the process.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	applyEnvOverrides(&config)

	// Apply default values.
	applyMainConfigDefaults(&config)

	// Validate the configuration.
	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyEnvOverrides copies TICKETS_* environment variables over file values.
func applyEnvOverrides(config *MainConfig) {
	overrides := map[string]*string{
		"CATALOG_FILE":   &config.CatalogFile,
		"CATALOG_SHEET":  &config.CatalogSheet,
		"PURCHASES_FILE": &config.PurchasesFile,
		"STORE_BACKEND":  &config.StoreBackend,
		"SQLITE_PATH":    &config.SQLitePath,
		"LOG_FILE":       &config.LogFile,
		"LOG_LEVEL":      &config.LogLevel,
		"EXPORT_DIR":     &config.ExportDir,
	}

	for key, target := range overrides {
		if value, ok := os.LookupEnv(EnvPrefix + key); ok && value != "" {
			*target = value
		}
	}
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.CatalogFile == "" {
		config.CatalogFile = "tickets.csv"
	}
	if config.PurchasesFile == "" {
		config.PurchasesFile = "purchases.csv"
	}
	if config.StoreBackend == "" {
		config.StoreBackend = BackendCSV
	}
	if config.SQLitePath == "" {
		config.SQLitePath = "purchases.db"
	}
	if config.LogFile == "" {
		config.LogFile = "./logs/tickets.log"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.ExportDir == "" {
		config.ExportDir = "./exports"
	}
	if config.ExportNameFormat == "" {
		config.ExportNameFormat = "purchases_{timestamp}_{uuid}.xlsx"
	}
	if config.CSVSettings.Delimiter == "" {
		config.CSVSettings.Delimiter = ","
	}

	config.StoreBackend = strings.ToLower(strings.TrimSpace(config.StoreBackend))
	config.LogLevel = strings.ToLower(strings.TrimSpace(config.LogLevel))
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("field %s failed %q check (value %q)", fe.Field(), fe.Tag(), fmt.Sprint(fe.Value()))
		}
		return err
	}

	return nil
}
