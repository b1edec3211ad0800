// Package config handles QuickSizer configuration loading.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	qserrors "github.com/sizerlab/quicksizer/pkg/errors"
)

// Config is the root configuration structure.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Report ReportConfig `yaml:"report"`
	Data   DataConfig   `yaml:"data"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host          string   `yaml:"host"`
	Port          int      `yaml:"port"`
	CORSOrigins   []string `yaml:"cors_origins"`
	EnableLogging bool     `yaml:"enable_logging"`
}

// ReportConfig holds export settings.
type ReportConfig struct {
	// OutputDir is where one-shot exports are written.
	OutputDir string `yaml:"output_dir"`

	// DefaultFormat selects the export used when none is requested:
	// pdf, csv, or summary.
	DefaultFormat string `yaml:"default_format"`

	// CSVDialect selects the CSV variant: standard, excel, or tsv.
	CSVDialect string `yaml:"csv_dialect"`
}

// DataConfig holds catalog source settings.
type DataConfig struct {
	// WorkbookPath is the sizing workbook the catalog is imported from.
	WorkbookPath string `yaml:"workbook_path"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:          "localhost",
			Port:          8080,
			CORSOrigins:   []string{"http://localhost:5173"},
			EnableLogging: true,
		},
		Report: ReportConfig{
			OutputDir:     "./exports",
			DefaultFormat: "pdf",
			CSVDialect:    "standard",
		},
		Data: DataConfig{
			WorkbookPath: "./data/sizer.xlsx",
		},
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, qserrors.ConfigWrap(err, qserrors.ErrConfigNotFound,
				"config file not found").
				WithContext("path", path).
				WithSuggestion("run with -init to create a default config")
		}
		return nil, qserrors.ConfigWrap(err, qserrors.ErrConfigParseFailed,
			"failed to read config").WithContext("path", path)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, qserrors.ConfigWrap(err, qserrors.ErrConfigParseFailed,
			"failed to parse config").WithContext("path", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads config from path, or returns defaults if not found.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	return Load(path)
}

// Validate checks configuration values for consistency.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return qserrors.Configf(qserrors.ErrConfigInvalid,
			"server port %d is out of range", c.Server.Port)
	}

	switch c.Report.DefaultFormat {
	case "", "pdf", "csv", "summary":
	default:
		return qserrors.Configf(qserrors.ErrConfigInvalid,
			"unknown default format %q, must be pdf, csv, or summary", c.Report.DefaultFormat)
	}

	switch c.Report.CSVDialect {
	case "", "standard", "excel", "tsv":
	default:
		return qserrors.Configf(qserrors.ErrConfigInvalid,
			"unknown CSV dialect %q, must be standard, excel, or tsv", c.Report.CSVDialect)
	}

	return nil
}

// Save saves configuration to a file.
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return qserrors.ConfigWrap(err, qserrors.ErrConfigInitFailed,
			"failed to create config directory").WithContext("dir", dir)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return qserrors.ConfigWrap(err, qserrors.ErrConfigInitFailed,
			"failed to marshal config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return qserrors.ConfigWrap(err, qserrors.ErrConfigInitFailed,
			"failed to write config file").WithContext("path", path)
	}
	return nil
}

// DefaultConfigPath returns the default config file path.
// Config is application-level, stored with the application.
func DefaultConfigPath() string {
	// First check for config in current working directory
	if _, err := os.Stat("config.yaml"); err == nil {
		return "config.yaml"
	}
	// Then check for config/ subdirectory
	if _, err := os.Stat("config/config.yaml"); err == nil {
		return "config/config.yaml"
	}
	// Default to config.yaml in current directory
	return "config.yaml"
}

// InitConfig creates a default config file if it doesn't exist.
func InitConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // Already exists
	}

	cfg := Default()
	return cfg.Save(path)
}
