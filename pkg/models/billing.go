package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// BillingPeriod is one billing cycle. Only StartDate and EndDate are written by
// this tool; the remaining fields are filled in by hand from the paper bill.
type BillingPeriod struct {
	ID        int64     `json:"id"`
	StartDate time.Time `json:"startdate"`
	EndDate   time.Time `json:"enddate"`

	DueDate  sql.NullTime `json:"duedate"`
	PaidDate sql.NullTime `json:"paiddate"`

	BillAmount        decimal.NullDecimal `json:"billamount"`
	ServiceCost       decimal.NullDecimal `json:"servicecost"`
	EnvironmentalCost decimal.NullDecimal `json:"environmentalcost"`
	NukeConstructCost decimal.NullDecimal `json:"nukeconstructcost"`
	MunicipalFee      decimal.NullDecimal `json:"municipalfee"`
	SalesTax          decimal.NullDecimal `json:"salestax"`

	MeterCurrent  sql.NullInt64 `json:"metercurrent"`
	MeterPrevious sql.NullInt64 `json:"meterprevious"`
	KWh           sql.NullInt64 `json:"kwh"`
}
