// Package config loads the optional YAML configuration file. Everything has
// a working default; a missing file is not an error.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AhmadFikry/subscription-recovery/internal/ingest"
	"github.com/AhmadFikry/subscription-recovery/internal/negotiator"
)

// ColumnNames overrides the input column names for exports that label the
// required fields differently.
type ColumnNames struct {
	Date     string `yaml:"date"`
	Merchant string `yaml:"merchant"`
	Amount   string `yaml:"amount"`
}

// Config holds the application configuration.
type Config struct {
	// Model is the Gemini model used for negotiation scripts.
	Model string `yaml:"model"`

	// LogLevel controls logging verbosity: "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level"`

	// Columns overrides the input column names.
	Columns ColumnNames `yaml:"columns"`
}

// Default returns the configuration used when no file is provided.
func Default() Config {
	cols := ingest.DefaultColumns()
	return Config{
		Model:    negotiator.DefaultModelName,
		LogLevel: "info",
		Columns: ColumnNames{
			Date:     cols.Date,
			Merchant: cols.Merchant,
			Amount:   cols.Amount,
		},
	}
}

// Load reads the configuration from path, applying defaults for anything
// the file leaves out. An empty path or a missing file yields Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("Load: read config %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("Load: parse config %q: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("Load: config %q: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Columns.Date == "" || c.Columns.Merchant == "" || c.Columns.Amount == "" {
		return fmt.Errorf("column names must not be empty")
	}
	return nil
}

// IngestColumns converts the configured names into the ingest package's
// column mapping.
func (c Config) IngestColumns() ingest.Columns {
	return ingest.Columns{
		Date:     c.Columns.Date,
		Merchant: c.Columns.Merchant,
		Amount:   c.Columns.Amount,
	}
}
