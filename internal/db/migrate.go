package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/diewo77/go-ledger/internal/config"
	"github.com/diewo77/go-ledger/internal/models"
	migrate "github.com/golang-migrate/migrate/v4"
	// The following blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/gorm"
)

// MigrationsSource is where the versioned SQL migrations live.
const MigrationsSource = "file://migrations"

// requiredTables must exist once provisioning finished.
var requiredTables = []string{"accounts", "customers", "payments", "sheet_data"}

// Migrate provisions the schema. With useSQL on a postgres backend the
// versioned migrations run through golang-migrate; otherwise GORM
// AutoMigrate creates whatever is missing. Both paths are idempotent.
func Migrate(ctx context.Context, dbConn *gorm.DB, cfg config.DatabaseConfig, useSQL bool, log *slog.Logger) error {
	if useSQL && cfg.Driver == config.DriverPostgres {
		log.Info("running sql migrations", "source", MigrationsSource)
		if err := runSQLMigrations(ToURLDSN(NormalizeDSN(cfg.DSNOrDefault()))); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		if useSQL {
			log.Warn("sql migrations only exist for postgres, falling back to automigrate", "driver", cfg.Driver)
		}
		tx := dbConn.WithContext(ctx)
		for _, m := range models.All() {
			if err := tx.AutoMigrate(m); err != nil {
				return fmt.Errorf("automigrate %T: %w", m, err)
			}
		}
	}

	for _, table := range requiredTables {
		if !dbConn.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}

func runSQLMigrations(dsn string) error {
	m, err := migrate.New(MigrationsSource, dsn)
	if err != nil {
		return err
	}
	defer m.Close()
	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
