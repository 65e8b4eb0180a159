// Package db opens the record store and provisions its schema and seed data.
package db

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diewo77/go-ledger/internal/config"
	"github.com/diewo77/go-ledger/internal/logging"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	connectAttempts = 5
	retryDelay      = 2 * time.Second
)

// Connect opens the configured backend, applies pool settings and pings it.
// Postgres connections are retried to give the server time to start.
func Connect(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: newGormLogger(cfg.Debug, log)}

	var (
		dbConn *gorm.DB
		err    error
	)
	switch cfg.Driver {
	case config.DriverSQLite:
		dbConn, err = openSQLite(cfg.Path, gcfg)
		if err != nil {
			return nil, err
		}
		log.Info("database opened", "driver", cfg.Driver, "path", cfg.Path)
	case config.DriverPostgres:
		dsn := NormalizeDSN(cfg.DSNOrDefault())
		for i := 0; i < connectAttempts; i++ {
			dbConn, err = gorm.Open(postgres.Open(dsn), gcfg)
			if err == nil {
				break
			}
			log.Warn("database connection failed, retrying", "attempt", i+1, "max", connectAttempts, "err", err)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
		}
		if err != nil {
			return nil, fmt.Errorf("connect postgres after %d attempts: %w", connectAttempts, err)
		}
		log.Info("database opened", "driver", cfg.Driver, "dsn", MaskDSN(dsn))
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}

	sqlDB, err := dbConn.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(min(cfg.MaxIdleConns, cfg.MaxOpenConns))
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping failed: %w", err)
	}
	return dbConn, nil
}

// openSQLite opens (creating if needed) the file database in WAL mode.
// Paths starting with "file:" or ":memory:" are passed to the driver untouched.
func openSQLite(path string, gcfg *gorm.Config) (*gorm.DB, error) {
	dsn := path
	if !strings.HasPrefix(path, "file:") && !strings.HasPrefix(path, ":memory:") {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
		}
		dsn = path + "?_busy_timeout=5000&_foreign_keys=0"
	}
	dbConn, err := gorm.Open(sqlite.Open(dsn), gcfg)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := dbConn.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	return dbConn, nil
}

func newGormLogger(debug bool, log *slog.Logger) logger.Interface {
	level := logger.Silent
	if debug {
		level = logger.Info
	}
	return logger.New(logging.GormWriter{Logger: log}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

// Ping checks that the store answers; used by the health endpoint.
func Ping(ctx context.Context, dbConn *gorm.DB) error {
	sqlDB, err := dbConn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
