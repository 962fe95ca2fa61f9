// Package database manages the shared connection pool, transactions and
// schema migrations.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/go-sql-driver/mysql" // mysql driver
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // sqlite driver

	"sayabantu/internal/config"
)

// Database is the process-wide connection pool.
type Database struct {
	*sqlx.DB
	logger *log.Logger
}

// Tx is a database transaction.
type Tx struct {
	*sqlx.Tx
	logger *log.Logger
}

var (
	_ Handler = (*Database)(nil)
	_ Handler = (*Tx)(nil)
)

// NewDatabase connects using cfg, retrying while the server comes up.
func NewDatabase(ctx context.Context, cfg config.DBConfig) (*Database, error) {
	logger := log.FromContext(ctx).WithPrefix("db")

	maxRetries := cfg.ConnectRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}
	retryDelay := 2 * time.Second

	var db *Database
	var err error
	for i := 0; i < maxRetries; i++ {
		db, err = Open(ctx, cfg.Driver, cfg.DataSourceName())
		if err == nil {
			break
		}

		logger.Warn("failed to connect to database", "attempt", i+1, "max", maxRetries, "err", err)
		if i == maxRetries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxOpenConns)
	db.SetConnMaxLifetime(5 * time.Minute)
	if cfg.Driver == config.DriverSQLite {
		// SQLite serialises writers; one connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}

	logger.Info("connected to database", "driver", cfg.Driver)
	return db, nil
}

// Open opens and pings a database connection.
func Open(ctx context.Context, driverName string, dsn string) (*Database, error) {
	switch driverName {
	case config.DriverMySQL, config.DriverPostgres, config.DriverSQLite:
	default:
		return nil, fmt.Errorf("unknown driver %q", driverName)
	}

	db, err := sqlx.ConnectContext(ctx, driverName, dsn)
	if err != nil {
		return nil, err
	}

	d := &Database{DB: db}
	if logger := log.FromContext(ctx); logger.GetLevel() == log.DebugLevel {
		d.logger = logger.WithPrefix("db")
	}

	return d, nil
}

// Close closes the pool.
func (d *Database) Close() error {
	return d.DB.Close()
}

// TransactionContext runs fn in a transaction on a single pooled connection.
// The transaction is rolled back when fn returns an error.
func (d *Database) TransactionContext(ctx context.Context, fn func(tx *Tx) error) error {
	txx, err := d.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	tx := &Tx{txx, d.logger}
	if err := fn(tx); err != nil {
		return rollback(tx, err)
	}

	if err := tx.Commit(); err != nil {
		if errors.Is(err, sql.ErrTxDone) {
			return nil
		}
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func rollback(tx *Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		if errors.Is(rerr, sql.ErrTxDone) {
			return err
		}
		return fmt.Errorf("failed to rollback: %s: %w", err.Error(), rerr)
	}

	return err
}

// Probe runs the liveness query used by the health endpoint.
func (d *Database) Probe(ctx context.Context) error {
	var one int
	return d.GetContext(ctx, &one, "SELECT 1")
}
