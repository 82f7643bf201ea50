package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/platform/memory"
	"github.com/phrazzld/task-api/internal/platform/postgres"
	"github.com/phrazzld/task-api/internal/platform/sqlite"
	"github.com/phrazzld/task-api/internal/store"
)

// pingTimeout bounds the initial connectivity check.
const pingTimeout = 5 * time.Second

// openTaskStore builds the TaskStore for the configured driver and returns a
// function that releases its resources.
func openTaskStore(
	ctx context.Context,
	cfg config.DatabaseConfig,
	logger *slog.Logger,
) (store.TaskStore, func() error, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := setupPostgres(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewPostgresTaskStore(db, logger), db.Close, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.URL, nil)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("sqlite database opened", slog.String("path", cfg.URL))
		return sqlite.NewTaskStore(db, logger), func() error { return sqlite.Close(db) }, nil

	case config.DriverMemory:
		logger.Warn("using in-memory task store; tasks are lost on restart")
		return memory.NewTaskStore(logger), func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// setupPostgres opens the connection pool, checks connectivity and applies
// pending migrations when auto_migrate is set.
func setupPostgres(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	db, err := openPostgres(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established",
		slog.Int("max_open_conns", cfg.MaxOpenConns),
		slog.Int("max_idle_conns", cfg.MaxIdleConns))

	if cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, db, logger); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
	}
	return db, nil
}

// openPostgres opens and pings a pgx-backed *sql.DB with the configured pool.
func openPostgres(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime())

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}
