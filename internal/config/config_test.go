package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected LogLevel 'info', got '%s'", cfg.LogLevel)
	}

	// Dataset defaults
	if cfg.Dataset.Source != "csv" {
		t.Errorf("Expected Dataset.Source 'csv', got '%s'", cfg.Dataset.Source)
	}
	if cfg.Dataset.Path != "data/superstore.csv" {
		t.Errorf("Expected Dataset.Path 'data/superstore.csv', got '%s'", cfg.Dataset.Path)
	}
	if cfg.Dataset.BadRows != "abort" {
		t.Errorf("Expected Dataset.BadRows 'abort', got '%s'", cfg.Dataset.BadRows)
	}
	if cfg.Dataset.Encoding != "utf-8" {
		t.Errorf("Expected Dataset.Encoding 'utf-8', got '%s'", cfg.Dataset.Encoding)
	}

	// Server defaults
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Expected Server.Addr ':8080', got '%s'", cfg.Server.Addr)
	}
	read, write, shutdown := cfg.Server.Timeouts()
	if read != 15*time.Second || write != 60*time.Second || shutdown != 10*time.Second {
		t.Errorf("Unexpected server timeouts: %v %v %v", read, write, shutdown)
	}

	if cfg.Display.Currency != "₹" {
		t.Errorf("Expected Display.Currency '₹', got '%s'", cfg.Display.Currency)
	}

	// Generate defaults
	if cfg.Generate.Rows != 10000 {
		t.Errorf("Expected Generate.Rows 10000, got %d", cfg.Generate.Rows)
	}
	if cfg.Generate.Profile != "retail" {
		t.Errorf("Expected Generate.Profile 'retail', got '%s'", cfg.Generate.Profile)
	}
}

func TestLayouts(t *testing.T) {
	d := DatasetConfig{}
	if got := d.Layouts(); len(got) != len(DefaultDateLayouts) || got[0] != "2006-01-02" {
		t.Errorf("Expected default layouts, got %v", got)
	}

	d.DateLayouts = []string{"02.01.2006"}
	if got := d.Layouts(); len(got) != 1 || got[0] != "02.01.2006" {
		t.Errorf("Expected configured layouts, got %v", got)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantError string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:      "unknown source",
			mutate:    func(c *Config) { c.Dataset.Source = "parquet" },
			wantError: "Source must be one of",
		},
		{
			name:      "unknown bad row policy",
			mutate:    func(c *Config) { c.Dataset.BadRows = "ignore" },
			wantError: "BadRows must be one of",
		},
		{
			name:      "unknown log level",
			mutate:    func(c *Config) { c.LogLevel = "trace" },
			wantError: "LogLevel",
		},
		{
			name:      "missing path",
			mutate:    func(c *Config) { c.Dataset.Path = "" },
			wantError: "dataset path is required",
		},
		{
			name: "database source without connection",
			mutate: func(c *Config) {
				c.Dataset.Source = "postgres"
			},
			wantError: "dataset.connection is required",
		},
		{
			name: "database source with connection",
			mutate: func(c *Config) {
				c.Dataset.Source = "mysql"
				c.Dataset.Path = ""
				c.Dataset.Connection = "mysql://u:p@localhost:3306/sales"
			},
		},
		{
			name:      "empty date layout",
			mutate:    func(c *Config) { c.Dataset.DateLayouts = []string{"2006-01-02", " "} },
			wantError: "empty layouts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantError == "" {
				if err != nil {
					t.Errorf("Expected no error, got: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error containing %q, got nil", tt.wantError)
			}
			if !strings.Contains(err.Error(), tt.wantError) {
				t.Errorf("Expected error containing %q, got: %v", tt.wantError, err)
			}
		})
	}
}

func TestConfigValidateGenerate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantError bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "zero rows", mutate: func(c *Config) { c.Generate.Rows = 0 }, wantError: true},
		{name: "two customers", mutate: func(c *Config) { c.Generate.Customers = 2 }, wantError: true},
		{name: "zero years", mutate: func(c *Config) { c.Generate.Years = 0 }, wantError: true},
		{name: "bad start date", mutate: func(c *Config) { c.Generate.StartDate = "01/01/2020" }, wantError: true},
		{name: "no output", mutate: func(c *Config) { c.Generate.Output = "" }, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.ValidateGenerate()
			if tt.wantError && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Expected no error, got: %v", err)
			}
		})
	}
}

func TestConfigValidateImport(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.ValidateImport(); err == nil {
		t.Error("Expected error without import.connection")
	}

	cfg.Import.Connection = "postgres://postgres@localhost:5432/postgres"
	if err := cfg.ValidateImport(); err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}

	cfg.Dataset.Source = "postgres"
	cfg.Dataset.Connection = cfg.Import.Connection
	if err := cfg.ValidateImport(); err == nil {
		t.Error("Expected error when importing from a database source")
	}
}

func TestConfigValidateServe(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Addr = ""
	if err := cfg.ValidateServe(); err == nil {
		t.Error("Expected error for empty server.addr")
	}
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "salesdash.yaml")

	configContent := `
log_level: debug

dataset:
  source: xlsx
  path: /data/superstore.xlsx
  date_layouts:
    - "02/01/2006"
  bad_rows: drop

server:
  addr: "127.0.0.1:9000"
  read_timeout: 5

display:
  currency: "$"

generate:
  rows: 500
  seed: 7
  profile: b2b
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel mismatch: %s", cfg.LogLevel)
	}
	if cfg.Dataset.Source != "xlsx" {
		t.Errorf("Dataset.Source mismatch: %s", cfg.Dataset.Source)
	}
	if cfg.Dataset.Path != "/data/superstore.xlsx" {
		t.Errorf("Dataset.Path mismatch: %s", cfg.Dataset.Path)
	}
	if got := cfg.Dataset.Layouts(); len(got) != 1 || got[0] != "02/01/2006" {
		t.Errorf("Dataset.DateLayouts mismatch: %v", got)
	}
	if cfg.Dataset.BadRows != "drop" {
		t.Errorf("Dataset.BadRows mismatch: %s", cfg.Dataset.BadRows)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr mismatch: %s", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout != 5 {
		t.Errorf("Server.ReadTimeout mismatch: %d", cfg.Server.ReadTimeout)
	}
	// Unset values keep their defaults
	if cfg.Server.WriteTimeout != 60 {
		t.Errorf("Server.WriteTimeout should keep default, got %d", cfg.Server.WriteTimeout)
	}
	if cfg.Display.Currency != "$" {
		t.Errorf("Display.Currency mismatch: %s", cfg.Display.Currency)
	}
	if cfg.Generate.Rows != 500 || cfg.Generate.Seed != 7 || cfg.Generate.Profile != "b2b" {
		t.Errorf("Generate mismatch: %+v", cfg.Generate)
	}
}

func TestLoadDatasetFromEnv(t *testing.T) {
	t.Setenv(DatasetEnvVar, "/srv/sales.csv")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Dataset.Path != "/srv/sales.csv" {
		t.Errorf("Expected dataset path from env, got %s", cfg.Dataset.Path)
	}
}

func TestLoadConfigFileNotFound(t *testing.T) {
	// When a specific config file is provided but doesn't exist, Load returns an error
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load should error when specified config file doesn't exist")
	}
}

func TestLoadConfigDefaultPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load should not error with empty path, got: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load should return default config")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected default LogLevel 'info', got '%s'", cfg.LogLevel)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidContent := `
dataset: [invalid yaml
  that: won't parse
`
	err := os.WriteFile(configPath, []byte(invalidContent), 0644)
	if err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	_, err = Load(configPath)
	if err == nil {
		t.Error("Expected error for invalid YAML, got nil")
	}
}
