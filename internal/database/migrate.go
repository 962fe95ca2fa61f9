package database

import (
	"context"
	"embed"
	"fmt"

	"github.com/charmbracelet/log"
	migrate "github.com/rubenv/sql-migrate"

	"sayabantu/internal/config"
)

//go:embed migrations
var migrationsFS embed.FS

func migrationSource(driverName string) (migrate.MigrationSource, string, error) {
	var dialect string
	switch driverName {
	case config.DriverMySQL:
		dialect = "mysql"
	case config.DriverPostgres:
		dialect = "postgres"
	case config.DriverSQLite:
		dialect = "sqlite3"
	default:
		return nil, "", fmt.Errorf("unknown driver %q", driverName)
	}

	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationsFS,
		Root:       "migrations/" + driverName,
	}, dialect, nil
}

// Migrate applies all pending migrations.
func (d *Database) Migrate(ctx context.Context) error {
	return d.migrate(ctx, migrate.Up, 0)
}

// Rollback reverts the most recent migration.
func (d *Database) Rollback(ctx context.Context) error {
	return d.migrate(ctx, migrate.Down, 1)
}

func (d *Database) migrate(ctx context.Context, dir migrate.MigrationDirection, max int) error {
	logger := log.FromContext(ctx).WithPrefix("migrate")

	src, dialect, err := migrationSource(d.DriverName())
	if err != nil {
		return err
	}

	n, err := migrate.ExecMax(d.DB.DB, dialect, src, dir, max)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if n > 0 {
		logger.Info("applied database migrations", "count", n, "direction", directionName(dir))
	} else {
		logger.Info("no database migrations to apply")
	}

	return nil
}

func directionName(dir migrate.MigrationDirection) string {
	if dir == migrate.Down {
		return "down"
	}
	return "up"
}
