package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"path"

	"github.com/charmbracelet/log"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var embedMigrations embed.FS

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Migrate applies all pending migrations of the connected dialect.
// Already applied migrations are skipped, so calling Migrate repeatedly is safe.
func (c *Client) Migrate(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(log.Default().WithPrefix("goose"))

	var dialect string
	switch c.dsn.Dialect {
	case DialectSQLite:
		dialect = "sqlite3"
	case DialectPostgres:
		dialect = "postgres"
	default:
		return fmt.Errorf("unsupported dialect %q", c.dsn.Dialect)
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := gooseUpContext(ctx, sqlDB, path.Join("migrations", string(c.dsn.Dialect))); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations completed successfully")
	return nil
}
