package server

import (
	"log/slog"

	"github.com/diewo77/go-ledger/internal/handlers"
	"github.com/diewo77/go-ledger/internal/services"
	"gorm.io/gorm"
)

// RouterConfig holds the configured services and handlers of the API.
type RouterConfig struct {
	DB             *gorm.DB
	AllowedOrigins []string

	// Handlers
	AuthHandler     *handlers.AuthHandler
	CustomerHandler *handlers.CustomerHandler
	PaymentHandler  *handlers.PaymentHandler
	SheetHandler    *handlers.SheetHandler
}

// NewRouterConfig wires every service and handler around one shared pool.
//
//	cfg := server.NewRouterConfig(db, services.PolicyFromConfig(c.Policy), logger)
//	cfg.AllowedOrigins = c.Server.AllowedOrigins
//	handler := server.New(cfg, logger)
func NewRouterConfig(db *gorm.DB, policy services.Policy, log *slog.Logger) *RouterConfig {
	identitySvc := services.NewIdentityService(db, policy)
	customerSvc := services.NewCustomerService(db, policy)
	paymentSvc := services.NewPaymentService(db, policy)
	sheetSvc := services.NewSheetService(db, log)

	return &RouterConfig{
		DB:              db,
		AuthHandler:     handlers.NewAuthHandler(identitySvc, log),
		CustomerHandler: handlers.NewCustomerHandler(customerSvc, log),
		PaymentHandler:  handlers.NewPaymentHandler(paymentSvc, log),
		SheetHandler:    handlers.NewSheetHandler(sheetSvc, log),
	}
}
