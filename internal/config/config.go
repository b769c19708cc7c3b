//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for pgedge-salesdash.
// Configuration is loaded from config files and CLI flags. The dataset path
// may also be supplied through the SALESDASH_DATASET environment variable;
// no other environment variables are read.
// CLI flags take precedence over config file values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// DatasetEnvVar names the environment variable that overrides dataset.path.
const DatasetEnvVar = "SALESDASH_DATASET"

// DefaultDateLayouts are tried in order when parsing order dates. ISO dates
// come first; the second layout is US month-first. Day-first dates are never
// accepted.
var DefaultDateLayouts = []string{"2006-01-02", "1/2/2006"}

// Config holds all configuration for pgedge-salesdash.
type Config struct {
	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`

	// Dataset describes where transactions are loaded from.
	Dataset DatasetConfig `mapstructure:"dataset"`

	// Server holds configuration for the serve subcommand.
	Server ServerConfig `mapstructure:"server"`

	// Display controls how values are formatted for people.
	Display DisplayConfig `mapstructure:"display"`

	// Generate holds configuration for the generate subcommand.
	Generate GenerateConfig `mapstructure:"generate"`

	// Import holds configuration for the import subcommand.
	Import ImportConfig `mapstructure:"import"`
}

// DatasetConfig holds dataset source configuration.
type DatasetConfig struct {
	// Source is the registered source name: csv, xlsx, postgres or mysql.
	Source string `mapstructure:"source" validate:"oneof=csv xlsx postgres mysql"`

	// Path is the file path for file-backed sources.
	Path string `mapstructure:"path"`

	// Connection is the database URL for database-backed sources.
	Connection string `mapstructure:"connection"`

	// Table is the table name for database-backed sources.
	Table string `mapstructure:"table" validate:"omitempty,max=63"`

	// Encoding is the text encoding of CSV files (utf-8 or latin1).
	Encoding string `mapstructure:"encoding" validate:"omitempty,oneof=utf-8 latin1"`

	// DateLayouts are Go time layouts tried in order for the order date.
	DateLayouts []string `mapstructure:"date_layouts"`

	// BadRows is the policy for rows that fail to parse: abort or drop.
	BadRows string `mapstructure:"bad_rows" validate:"oneof=abort drop"`
}

// ServerConfig holds configuration for the HTTP dashboard API.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `mapstructure:"addr"`

	// ReadTimeout is the request read timeout in seconds.
	ReadTimeout int `mapstructure:"read_timeout" validate:"gte=0"`

	// WriteTimeout is the response write timeout in seconds.
	WriteTimeout int `mapstructure:"write_timeout" validate:"gte=0"`

	// ShutdownTimeout bounds graceful shutdown in seconds.
	ShutdownTimeout int `mapstructure:"shutdown_timeout" validate:"gte=0"`
}

// DisplayConfig holds presentation settings.
type DisplayConfig struct {
	// Currency is the symbol prefixed to monetary values.
	Currency string `mapstructure:"currency"`
}

// GenerateConfig holds configuration for synthetic dataset generation.
type GenerateConfig struct {
	// Rows is the number of transactions to generate.
	Rows int `mapstructure:"rows" validate:"gte=0"`

	// Customers is the size of the customer pool.
	Customers int `mapstructure:"customers" validate:"gte=0"`

	// Seed makes generation reproducible; 0 picks a random seed.
	Seed uint64 `mapstructure:"seed"`

	// Profile is the seasonal demand profile (retail, b2b, flat).
	Profile string `mapstructure:"profile"`

	// StartDate is the first possible order date (YYYY-MM-DD).
	StartDate string `mapstructure:"start_date"`

	// Years is the length of the generated history.
	Years int `mapstructure:"years" validate:"gte=0"`

	// Output is the file written; the extension selects CSV or XLSX.
	Output string `mapstructure:"output"`
}

// ImportConfig holds configuration for copying a dataset into PostgreSQL.
type ImportConfig struct {
	// Connection is the PostgreSQL connection string.
	Connection string `mapstructure:"connection"`

	// Table is the destination table.
	Table string `mapstructure:"table" validate:"omitempty,max=63"`

	// DropExisting drops the destination table before importing.
	DropExisting bool `mapstructure:"drop_existing"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Dataset: DatasetConfig{
			Source:   "csv",
			Path:     "data/superstore.csv",
			Table:    "sales_transactions",
			Encoding: "utf-8",
			BadRows:  "abort",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15,
			WriteTimeout:    60,
			ShutdownTimeout: 10,
		},
		Display: DisplayConfig{
			Currency: "₹",
		},
		Generate: GenerateConfig{
			Rows:      10000,
			Customers: 800,
			Profile:   "retail",
			StartDate: "2014-01-01",
			Years:     4,
			Output:    "data/superstore.csv",
		},
		Import: ImportConfig{
			Table: "sales_transactions",
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./pgedge-salesdash.yaml
// 3. ~/.config/pgedge-salesdash/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("pgedge-salesdash")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "pgedge-salesdash"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	if err := v.BindEnv("dataset.path", DatasetEnvVar); err != nil {
		return nil, fmt.Errorf("error binding %s: %w", DatasetEnvVar, err)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Layouts returns the configured date layouts or the defaults.
func (d DatasetConfig) Layouts() []string {
	if len(d.DateLayouts) == 0 {
		return DefaultDateLayouts
	}
	return d.DateLayouts
}

// IsDatabase reports whether the dataset lives in a database.
func (d DatasetConfig) IsDatabase() bool {
	return d.Source == "postgres" || d.Source == "mysql"
}

// Timeouts returns the server timeouts as durations.
func (s ServerConfig) Timeouts() (read, write, shutdown time.Duration) {
	return time.Duration(s.ReadTimeout) * time.Second,
		time.Duration(s.WriteTimeout) * time.Second,
		time.Duration(s.ShutdownTimeout) * time.Second
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return describeValidation(err)
	}
	if c.Dataset.IsDatabase() {
		if c.Dataset.Connection == "" {
			return fmt.Errorf("dataset.connection is required for source %s", c.Dataset.Source)
		}
		if c.Dataset.Table == "" {
			return fmt.Errorf("dataset.table is required for source %s", c.Dataset.Source)
		}
	} else if c.Dataset.Path == "" {
		return fmt.Errorf("dataset path is required (set dataset.path, --dataset or %s)", DatasetEnvVar)
	}
	for _, layout := range c.Dataset.DateLayouts {
		if strings.TrimSpace(layout) == "" {
			return fmt.Errorf("dataset.date_layouts must not contain empty layouts")
		}
	}
	return nil
}

// ValidateServe checks configuration required for the serve command.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	return nil
}

// ValidateGenerate checks configuration required for the generate command.
func (c *Config) ValidateGenerate() error {
	if err := validate.Struct(c.Generate); err != nil {
		return describeValidation(err)
	}
	if c.Generate.Rows < 1 {
		return fmt.Errorf("generate.rows must be at least 1")
	}
	if c.Generate.Customers < 3 {
		return fmt.Errorf("generate.customers must be at least 3")
	}
	if c.Generate.Years < 1 {
		return fmt.Errorf("generate.years must be at least 1")
	}
	if _, err := time.Parse("2006-01-02", c.Generate.StartDate); err != nil {
		return fmt.Errorf("generate.start_date must be YYYY-MM-DD: %w", err)
	}
	if c.Generate.Output == "" {
		return fmt.Errorf("generate.output is required")
	}
	return nil
}

// ValidateImport checks configuration required for the import command.
func (c *Config) ValidateImport() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Dataset.IsDatabase() {
		return fmt.Errorf("import reads a file dataset; source %s is a database", c.Dataset.Source)
	}
	if c.Import.Connection == "" {
		return fmt.Errorf("import.connection is required")
	}
	if c.Import.Table == "" {
		return fmt.Errorf("import.table is required")
	}
	return nil
}

// describeValidation turns validator errors into a single readable error.
func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got %q",
				fe.Namespace(), fe.Param(), fmt.Sprint(fe.Value())))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		}
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}
