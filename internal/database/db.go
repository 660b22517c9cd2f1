package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// DB wraps the database connection
type DB struct {
	conn   *sql.DB
	logger *zap.Logger
}

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New opens the SQLite file at dbPath and makes sure both tables exist
func New(dbPath string, logger *zap.Logger) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := FromConn(conn, logger)
	if err := db.InitSchema(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

// FromConn wraps an already opened connection without touching the schema
func FromConn(conn *sql.DB, logger *zap.Logger) *DB {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DB{conn: conn, logger: logger.Named("db")}
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Tx is a single storage transaction
type Tx struct {
	tx     *sql.Tx
	logger *zap.Logger
}

// InTx runs fn inside one transaction, committing only if fn returns nil
func (db *DB) InTx(ctx context.Context, fn func(tx *Tx) error) error {
	sqlTx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&Tx{tx: sqlTx, logger: db.logger}); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// trace logs a statement at debug level
func trace(logger *zap.Logger, query string, args ...any) {
	if ce := logger.Check(zap.DebugLevel, "sql"); ce != nil {
		ce.Write(zap.String("query", strings.Join(strings.Fields(query), " ")), zap.Any("args", args))
	}
}

func exists(ctx context.Context, q querier, logger *zap.Logger, table string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s)`, table)
	trace(logger, query)

	var found bool
	if err := q.QueryRowContext(ctx, query).Scan(&found); err != nil {
		return false, fmt.Errorf("checking %s for rows: %w", table, err)
	}
	return found, nil
}

func count(ctx context.Context, q querier, logger *zap.Logger, table string) (int64, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)
	trace(logger, query)

	var n int64
	if err := q.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s rows: %w", table, err)
	}
	return n, nil
}
