package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Config holds database configuration
type Config struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DB wraps the SQLite snapshot of the workshop management database. The
// snapshot is produced upstream from the original Access file and is
// treated as read-only for the whole run.
type DB struct {
	*sql.DB
	logger *zap.Logger
}

// New opens the snapshot database and verifies the connection.
func New(cfg Config, logger *zap.Logger) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", cfg.Path)

	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{
		DB:     sqlDB,
		logger: logger,
	}

	logger.Info("Database connection established", zap.String("path", cfg.Path))
	return db, nil
}

// VerifySchema checks that every required table exists before any
// extraction runs. A missing table aborts the run up front rather than
// surfacing as a mid-run query failure.
func (db *DB) VerifySchema(ctx context.Context, tables ...string) error {
	const q = `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`
	for _, table := range tables {
		var n int
		if err := db.QueryRowContext(ctx, q, table).Scan(&n); err != nil {
			return fmt.Errorf("failed to inspect schema: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("required table %s not found in snapshot", table)
		}
	}
	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	db.logger.Info("Closing database connection")
	return db.DB.Close()
}
