package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UsageRecord represents one sampled interval from a utility usage export
type UsageRecord struct {
	ID        int64           `json:"id"`
	Timepoint time.Time       `json:"timepoint"`
	Cost      decimal.Decimal `json:"cost"` // DECIMAL(4,2)
	KWh       decimal.Decimal `json:"kwh"`  // DECIMAL(4,2)
	Temp      int             `json:"temp"`
}

// UsageSpan summarizes the usage table
type UsageSpan struct {
	Rows  int64     `json:"rows"`
	First time.Time `json:"first"`
	Last  time.Time `json:"last"`
}
