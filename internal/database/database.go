package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ccoveille/go-safecast"
	"github.com/charmbracelet/log"
	"github.com/glebarez/sqlite"
	"github.com/sethvargo/go-retry"
	"github.com/stackmatch/stackmatch/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ DB = (*Client)(nil) // Ensure Client implements DB

// Client wraps the gorm.DB instance.
type Client struct {
	db  *gorm.DB
	dsn *DSN
}

// New connects to the store selected by cfg.URL.
// Connecting is retried cfg.ConnectAttempts times with a fixed delay of cfg.ConnectDelay.
// New does not run migrations, call Migrate before serving requests.
func New(ctx context.Context, cfg *config.DatabaseConfig) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}

	dsn, err := ParseDSN(cfg.URL)
	if err != nil {
		return nil, err
	}

	dialector, err := newDialector(dsn)
	if err != nil {
		return nil, err
	}

	retries, err := safecast.Convert[uint64](cfg.ConnectAttempts - 1)
	if err != nil {
		return nil, fmt.Errorf("invalid connect attempts: %w", err)
	}
	delay := cfg.ConnectDelay
	if delay <= 0 {
		delay = time.Millisecond
	}
	backoff := retry.WithMaxRetries(retries, retry.NewConstant(delay))

	var (
		db      *gorm.DB
		attempt int
	)
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		db, err = open(ctx, dialector)
		if err != nil {
			log.Warn("failed to connect to database", "attempt", attempt, "max_attempts", cfg.ConnectAttempts, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after %d attempts: %w", attempt, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	if dsn.Dialect == DialectSQLite {
		// sqlite allows a single writer, and an in-memory database lives in one connection
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	log.Info("connected to database", "dialect", dsn.Dialect)
	return &Client{db: db, dsn: dsn}, nil
}

func newDialector(dsn *DSN) (gorm.Dialector, error) {
	switch dsn.Dialect {
	case DialectSQLite:
		conn := dsn.Conn
		if dsn.IsFile() {
			if dir := filepath.Dir(dsn.Path()); dir != "." {
				if err := os.MkdirAll(dir, 0o750); err != nil {
					return nil, fmt.Errorf("failed to create database directory: %w", err)
				}
			}
			if !strings.Contains(conn, "?") {
				conn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
			}
		}
		return sqlite.Open(conn), nil
	case DialectPostgres:
		return postgres.Open(dsn.Conn), nil
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dsn.Dialect)
	}
}

func open(ctx context.Context, dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: logger.New(log.Default().WithPrefix("gorm"), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		// gorm pings on open, the pool exists even when that failed
		closeDB(db)
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		closeDB(db)
		return nil, err
	}
	return db, nil
}

// closeDB releases the connection pool of db, if there is one.
func closeDB(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close() //nolint: errcheck, gosec
	}
}

// Dialect returns the dialect of the connected store.
func (c *Client) Dialect() Dialect {
	return c.dsn.Dialect
}

// Ping checks that the store is reachable.
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection.
func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
