package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"github.com/jgoulah/usageledger/internal/ingest"
	"github.com/jgoulah/usageledger/internal/logger"
)

// Config holds the application configuration
type Config struct {
	DBPath           string         `yaml:"db_path,omitempty" toml:"db_path"`
	Columns          ingest.Columns `yaml:"columns,omitempty" toml:"columns"`
	TimestampLayouts []string       `yaml:"timestamp_layouts,omitempty" toml:"timestamp_layouts"` // Go time layouts, tried in order
	Log              logger.Config  `yaml:"log,omitempty" toml:"log"`
	MetricsTextfile  string         `yaml:"metrics_textfile,omitempty" toml:"metrics_textfile"` // node_exporter textfile output, empty disables
}

// Load reads the config file. A missing file yields the defaults.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err == nil {
		switch strings.ToLower(filepath.Ext(configPath)) {
		case ".toml":
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing TOML config file: %w", err)
			}
		case ".yaml", ".yml", "":
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing YAML config file: %w", err)
			}
		default:
			return nil, fmt.Errorf("unsupported config file format: %s", filepath.Ext(configPath))
		}
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// DefaultDBPath returns the default database file path (local directory)
func DefaultDBPath() string {
	return "data.db"
}

func applyDefaults(cfg *Config) {
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}

	defaults := ingest.DefaultColumns()
	if cfg.Columns.Timepoint == "" {
		cfg.Columns.Timepoint = defaults.Timepoint
	}
	if cfg.Columns.Cost == "" {
		cfg.Columns.Cost = defaults.Cost
	}
	if cfg.Columns.KWh == "" {
		cfg.Columns.KWh = defaults.KWh
	}
	if cfg.Columns.Temp == "" {
		cfg.Columns.Temp = defaults.Temp
	}

	if len(cfg.TimestampLayouts) == 0 {
		cfg.TimestampLayouts = ingest.DefaultLayouts()
	}

	logDefaults := logger.DefaultConfig()
	if cfg.Log.Level == "" {
		cfg.Log.Level = logDefaults.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = logDefaults.Format
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = logDefaults.Output
	}
}

// Validate checks that the column mapping and log settings are usable
func (c *Config) Validate() error {
	if err := c.Columns.Validate(); err != nil {
		return fmt.Errorf("columns: %w", err)
	}

	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}

	return nil
}
