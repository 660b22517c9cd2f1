package ingest

import (
	"fmt"
	"strings"
	"time"
)

// Columns maps the CSV export's header names to usage fields. The names are
// fixed per export format and never guessed from the file.
type Columns struct {
	Timepoint string `yaml:"timepoint" toml:"timepoint"`
	Cost      string `yaml:"cost" toml:"cost"`
	KWh       string `yaml:"kwh" toml:"kwh"`
	Temp      string `yaml:"temp" toml:"temp"`
}

// DefaultColumns are the headers of the utility's hourly usage download
func DefaultColumns() Columns {
	return Columns{
		Timepoint: "Hour",
		Cost:      "Cost",
		KWh:       "kWh",
		Temp:      "Temp",
	}
}

// Required returns the header names in a stable order
func (c Columns) Required() []string {
	return []string{c.Timepoint, c.Cost, c.KWh, c.Temp}
}

// Validate checks that every field has a header and no two share one
func (c Columns) Validate() error {
	fields := []string{"timepoint", "cost", "kwh", "temp"}
	seen := make(map[string]string, len(fields))

	for i, header := range c.Required() {
		if strings.TrimSpace(header) == "" {
			return fmt.Errorf("%s header must not be blank", fields[i])
		}
		if other, ok := seen[header]; ok {
			return fmt.Errorf("%s and %s both map to header %q", other, fields[i], header)
		}
		seen[header] = fields[i]
	}
	return nil
}

// DefaultLayouts are the timestamp layouts tried, in order, when none are
// configured. Fractional seconds are accepted after any layout with seconds.
func DefaultLayouts() []string {
	return []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		time.RFC3339,
		"2006-01-02 15:04",
		"1/2/2006 15:04:05",
		"1/2/2006 15:04",
		"1/2/2006 3:04 PM",
		"2006-01-02",
	}
}
