package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jgoulah/usageledger/pkg/models"
)

// HasBillingPeriods reports whether the billing period table holds any row
func (db *DB) HasBillingPeriods(ctx context.Context) (bool, error) {
	return exists(ctx, db.conn, db.logger, BillingTable)
}

// CountBillingPeriods returns the number of billing period rows
func (db *DB) CountBillingPeriods(ctx context.Context) (int64, error) {
	return count(ctx, db.conn, db.logger, BillingTable)
}

// HasBillingPeriods reports whether the billing period table holds any row
func (tx *Tx) HasBillingPeriods(ctx context.Context) (bool, error) {
	return exists(ctx, tx.tx, tx.logger, BillingTable)
}

// InsertBillingPeriod inserts a row with only the date range set and
// returns its id. Bounds are stored to the second.
func (tx *Tx) InsertBillingPeriod(ctx context.Context, start, end time.Time) (int64, error) {
	query := `INSERT INTO billperiods (startdate, enddate) VALUES (?, ?)`
	startStr := start.Format(datetimeLayout)
	endStr := end.Format(datetimeLayout)
	trace(tx.logger, query, startStr, endStr)

	res, err := tx.tx.ExecContext(ctx, query, startStr, endStr)
	if err != nil {
		return 0, fmt.Errorf("inserting billing period: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading billing period id: %w", err)
	}
	return id, nil
}

// ListBillingPeriods retrieves every billing period ordered by start date.
// Rows whose dates cannot be parsed are logged and left out.
func (db *DB) ListBillingPeriods(ctx context.Context) ([]models.BillingPeriod, error) {
	query := `
	SELECT id, startdate, enddate, duedate, paiddate,
	       billamount, servicecost, environmentalcost, nukeconstructcost, municipalfee, salestax,
	       metercurrent, meterprevious, kwh
	FROM billperiods
	ORDER BY startdate, id
	`
	trace(db.logger, query)

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying billing periods: %w", err)
	}
	defer rows.Close()

	var results []models.BillingPeriod
	for rows.Next() {
		var p models.BillingPeriod
		var rawStart, rawEnd, rawDue, rawPaid any

		err := rows.Scan(&p.ID, &rawStart, &rawEnd, &rawDue, &rawPaid,
			&p.BillAmount, &p.ServiceCost, &p.EnvironmentalCost, &p.NukeConstructCost, &p.MunicipalFee, &p.SalesTax,
			&p.MeterCurrent, &p.MeterPrevious, &p.KWh,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		// dates on hand-entered rows may be in any format
		var start, end, due, paid timeValue
		if err := errors.Join(start.Scan(rawStart), end.Scan(rawEnd), due.Scan(rawDue), paid.Scan(rawPaid)); err != nil {
			db.logger.Warn("skipping billing period with unreadable dates", zap.Int64("id", p.ID), zap.Error(err))
			continue
		}

		p.StartDate, p.EndDate = start.Time, end.Time
		p.DueDate.Time, p.DueDate.Valid = due.Time, due.Valid
		p.PaidDate.Time, p.PaidDate.Valid = paid.Time, paid.Valid

		results = append(results, p)
	}

	return results, rows.Err()
}
