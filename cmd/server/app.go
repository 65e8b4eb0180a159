package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/diewo77/go-ledger/internal/config"
	"github.com/diewo77/go-ledger/internal/db"
	"github.com/diewo77/go-ledger/internal/server"
	"github.com/diewo77/go-ledger/internal/services"
	"gorm.io/gorm"
)

// NewApp builds the API handler on top of an already provisioned store.
func NewApp(cfg *config.Config, dbConn *gorm.DB, logger *slog.Logger) http.Handler {
	routerCfg := server.NewRouterConfig(dbConn, services.PolicyFromConfig(cfg.Policy), logger)
	routerCfg.AllowedOrigins = cfg.Server.AllowedOrigins
	return server.New(routerCfg, logger)
}

func seed(ctx context.Context, cfg *config.Config, dbConn *gorm.DB, logger *slog.Logger) error {
	data, err := db.LoadSeed(cfg.App)
	if err != nil {
		return err
	}
	return db.Seed(ctx, dbConn, data, logger)
}
