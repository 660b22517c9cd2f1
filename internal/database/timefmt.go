package database

import (
	"fmt"
	"time"
)

// Stored text layouts. Timepoints keep microseconds at a fixed width so
// they sort lexically; billing period bounds are whole seconds.
const (
	timepointLayout = "2006-01-02 15:04:05.000000"
	datetimeLayout  = "2006-01-02 15:04:05"
	dateLayout      = "2006-01-02"
)

var storedLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	dateLayout,
}

// timeValue scans a DATE/DATETIME column. The sqlite driver hands back
// either a time.Time or the raw text depending on the declared column type,
// so both are accepted.
type timeValue struct {
	Time  time.Time
	Valid bool
}

func (t *timeValue) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time, t.Valid = time.Time{}, false
		return nil
	case time.Time:
		t.Time, t.Valid = v, true
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("unsupported time value %T", src)
	}
}

func (t *timeValue) parse(s string) error {
	if s == "" {
		t.Time, t.Valid = time.Time{}, false
		return nil
	}
	for _, layout := range storedLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time, t.Valid = parsed, true
			return nil
		}
	}
	return fmt.Errorf("parsing stored time %q", s)
}
