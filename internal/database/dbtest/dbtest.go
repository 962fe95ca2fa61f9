// Package dbtest provides temp SQLite databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"sayabantu/internal/config"
	"sayabantu/internal/database"
)

// Open opens a migrated SQLite database in tb's temp dir. It is closed with
// tb.Cleanup.
func Open(tb testing.TB) *database.Database {
	tb.Helper()

	ctx := context.TODO()
	dsn := filepath.Join(tb.TempDir(), "test.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := database.Open(ctx, config.DriverSQLite, dsn)
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	tb.Cleanup(func() {
		if err := db.Close(); err != nil {
			tb.Error(err)
		}
	})

	if err := db.Migrate(ctx); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}
