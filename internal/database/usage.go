package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jgoulah/usageledger/pkg/models"
)

// InsertUsageBatch inserts all records in a single transaction. Either every
// record is stored or none are. Duplicates are not checked.
func (db *DB) InsertUsageBatch(ctx context.Context, records []models.UsageRecord) (int64, error) {
	query := `INSERT INTO electricity (timepoint, cost, kwh, temp) VALUES (?, ?, ?, ?)`

	var inserted int64
	err := db.InTx(ctx, func(tx *Tx) error {
		trace(db.logger, query)

		stmt, err := tx.tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("preparing usage insert: %w", err)
		}
		defer stmt.Close()

		for i, r := range records {
			_, err := stmt.ExecContext(ctx,
				r.Timepoint.Format(timepointLayout),
				r.Cost.StringFixed(2),
				r.KWh.StringFixed(2),
				r.Temp,
			)
			if err != nil {
				return fmt.Errorf("inserting usage record %d: %w", i+1, err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return inserted, nil
}

// HasUsage reports whether the usage table holds at least one row
func (db *DB) HasUsage(ctx context.Context) (bool, error) {
	return exists(ctx, db.conn, db.logger, UsageTable)
}

// CountUsage returns the number of usage rows
func (db *DB) CountUsage(ctx context.Context) (int64, error) {
	return count(ctx, db.conn, db.logger, UsageTable)
}

// UsageSpan returns the row count and the earliest and latest timepoints
func (db *DB) UsageSpan(ctx context.Context) (models.UsageSpan, error) {
	query := `SELECT COUNT(*), MIN(timepoint), MAX(timepoint) FROM electricity`
	trace(db.logger, query)

	var span models.UsageSpan
	var first, last timeValue
	if err := db.conn.QueryRowContext(ctx, query).Scan(&span.Rows, &first, &last); err != nil {
		return span, fmt.Errorf("querying usage span: %w", err)
	}
	span.First, span.Last = first.Time, last.Time

	return span, nil
}

// ListUsage retrieves all usage records ordered by timepoint
func (db *DB) ListUsage(ctx context.Context) ([]models.UsageRecord, error) {
	query := `SELECT id, timepoint, cost, kwh, temp FROM electricity ORDER BY timepoint, id`
	trace(db.logger, query)

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying usage data: %w", err)
	}
	defer rows.Close()

	var results []models.UsageRecord
	for rows.Next() {
		var r models.UsageRecord
		var tp timeValue
		var temp sql.NullInt64
		if err := rows.Scan(&r.ID, &tp, &r.Cost, &r.KWh, &temp); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r.Timepoint = tp.Time
		r.Temp = int(temp.Int64)
		results = append(results, r)
	}

	return results, rows.Err()
}

// TimepointRange scans every usage timepoint and returns the earliest and
// latest. It returns sql.ErrNoRows when the table is empty.
func (tx *Tx) TimepointRange(ctx context.Context) (time.Time, time.Time, error) {
	query := `SELECT timepoint FROM electricity`
	trace(tx.logger, query)

	rows, err := tx.tx.QueryContext(ctx, query)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("querying timepoints: %w", err)
	}
	defer rows.Close()

	var minTime, maxTime time.Time
	seen := false
	for rows.Next() {
		var tp timeValue
		if err := rows.Scan(&tp); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("scanning timepoint: %w", err)
		}
		if !tp.Valid {
			continue
		}
		if !seen || tp.Time.Before(minTime) {
			minTime = tp.Time
		}
		if !seen || tp.Time.After(maxTime) {
			maxTime = tp.Time
		}
		seen = true
	}
	if err := rows.Err(); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("reading timepoints: %w", err)
	}
	if !seen {
		return time.Time{}, time.Time{}, sql.ErrNoRows
	}

	return minTime, maxTime, nil
}
