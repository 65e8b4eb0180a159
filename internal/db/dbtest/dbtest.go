// Package dbtest provides a migrated in-memory SQLite store for tests.
package dbtest

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/go-ledger/internal/config"
	"github.com/diewo77/go-ledger/internal/db"
	"github.com/diewo77/go-ledger/internal/logging"
	"gorm.io/gorm"
)

// Config returns the sqlite settings used by New for the named test.
// A single connection keeps shared-cache table locks out of the way.
func Config(t testing.TB) config.DatabaseConfig {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	return config.DatabaseConfig{
		Driver:          config.DriverSQLite,
		Path:            "file:" + name + "?mode=memory&cache=shared",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}
}

// New opens a fresh migrated database and closes it when the test ends.
func New(t testing.TB) *gorm.DB {
	t.Helper()
	cfg := Config(t)
	ctx := context.Background()
	d, err := db.Connect(ctx, cfg, logging.Discard())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.Migrate(ctx, d, cfg, false, logging.Discard()); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := d.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return d
}
