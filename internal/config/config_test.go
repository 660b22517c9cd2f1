package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DBPath != "data.db" {
		t.Errorf("db_path = %q, want %q", cfg.DBPath, "data.db")
	}
	if cfg.Columns.Timepoint != "Hour" || cfg.Columns.Cost != "Cost" || cfg.Columns.KWh != "kWh" || cfg.Columns.Temp != "Temp" {
		t.Errorf("columns = %+v, want default export headers", cfg.Columns)
	}
	if len(cfg.TimestampLayouts) == 0 {
		t.Error("timestamp_layouts empty, want defaults")
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "console" || cfg.Log.Output != "stderr" {
		t.Errorf("log = %+v, want info/console/stderr", cfg.Log)
	}
	if cfg.MetricsTextfile != "" {
		t.Errorf("metrics_textfile = %q, want empty", cfg.MetricsTextfile)
	}
}

func TestLoadYAML(t *testing.T) {
	yaml := `
db_path: /var/lib/usage/ledger.db
columns:
  timepoint: Start Time
  kwh: Usage (kWh)
timestamp_layouts:
  - "01/02/2006 15:04"
log:
  level: debug
  format: json
metrics_textfile: /var/lib/node_exporter/usageledger.prom
`
	cfg, err := Load(writeTemp(t, "config.yaml", yaml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DBPath != "/var/lib/usage/ledger.db" {
		t.Errorf("db_path = %q", cfg.DBPath)
	}
	if cfg.Columns.Timepoint != "Start Time" {
		t.Errorf("columns.timepoint = %q, want %q", cfg.Columns.Timepoint, "Start Time")
	}
	if cfg.Columns.KWh != "Usage (kWh)" {
		t.Errorf("columns.kwh = %q, want %q", cfg.Columns.KWh, "Usage (kWh)")
	}
	// unset columns keep their defaults
	if cfg.Columns.Cost != "Cost" {
		t.Errorf("columns.cost = %q, want default %q", cfg.Columns.Cost, "Cost")
	}
	if len(cfg.TimestampLayouts) != 1 || cfg.TimestampLayouts[0] != "01/02/2006 15:04" {
		t.Errorf("timestamp_layouts = %v", cfg.TimestampLayouts)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("log = %+v", cfg.Log)
	}
	if cfg.Log.Output != "stderr" {
		t.Errorf("log.output = %q, want default stderr", cfg.Log.Output)
	}
	if cfg.MetricsTextfile != "/var/lib/node_exporter/usageledger.prom" {
		t.Errorf("metrics_textfile = %q", cfg.MetricsTextfile)
	}
}

func TestLoadTOML(t *testing.T) {
	toml := `
db_path = "ledger.db"
timestamp_layouts = ["2006-01-02 15:04"]

[columns]
temp = "Temperature"

[log]
output = "stdout"
`
	cfg, err := Load(writeTemp(t, "config.toml", toml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DBPath != "ledger.db" {
		t.Errorf("db_path = %q, want %q", cfg.DBPath, "ledger.db")
	}
	if cfg.Columns.Temp != "Temperature" {
		t.Errorf("columns.temp = %q, want %q", cfg.Columns.Temp, "Temperature")
	}
	if cfg.Columns.Timepoint != "Hour" {
		t.Errorf("columns.timepoint = %q, want default", cfg.Columns.Timepoint)
	}
	if len(cfg.TimestampLayouts) != 1 {
		t.Errorf("timestamp_layouts = %v", cfg.TimestampLayouts)
	}
	if cfg.Log.Output != "stdout" {
		t.Errorf("log.output = %q, want stdout", cfg.Log.Output)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		contains string
	}{
		{"unsupported extension", "config.json", `{}`, "unsupported config file format"},
		{"malformed yaml", "config.yaml", "columns: [", "parsing YAML"},
		{"malformed toml", "config.toml", "db_path = ", "parsing TOML"},
		{"duplicate columns", "config.yaml", "columns:\n  cost: Value\n  kwh: Value\n", "columns"},
		{"blank column", "config.yaml", "columns:\n  temp: \"  \"\n", "columns"},
		{"bad log format", "config.yaml", "log:\n  format: xml\n", "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeTemp(t, tt.file, tt.content))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error = %q, want it to contain %q", err, tt.contains)
			}
		})
	}
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}
