package database

import (
	"context"
	"fmt"
)

// Table names
const (
	UsageTable   = "electricity"
	BillingTable = "billperiods"
)

// schema creates both tables if they are absent. Existing tables are left
// alone, even if their columns have drifted from what is declared here.
const schema = `
CREATE TABLE IF NOT EXISTS billperiods (
	id INTEGER NOT NULL PRIMARY KEY,
	startdate DATETIME,
	enddate DATETIME,
	duedate DATE,
	paiddate DATE,
	billamount DECIMAL(6, 2),
	servicecost DECIMAL(6, 2),
	environmentalcost DECIMAL(6, 2),
	nukeconstructcost DECIMAL(6, 2),
	municipalfee DECIMAL(6, 2),
	salestax DECIMAL(6, 2),
	metercurrent INTEGER,
	meterprevious INTEGER,
	kwh INTEGER
);

CREATE TABLE IF NOT EXISTS electricity (
	id INTEGER NOT NULL PRIMARY KEY,
	timepoint DATETIME,
	cost DECIMAL(4, 2),
	kwh DECIMAL(4, 2),
	temp INTEGER
);
`

// InitSchema creates the usage and billing period tables. It is safe to call
// on every startup.
func (db *DB) InitSchema(ctx context.Context) error {
	trace(db.logger, schema)
	if _, err := db.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

// Tables returns the names of the tables in the database, sorted
func (db *DB) Tables(ctx context.Context) ([]string, error) {
	query := `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`
	trace(db.logger, query)

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}
		names = append(names, name)
	}

	return names, rows.Err()
}
