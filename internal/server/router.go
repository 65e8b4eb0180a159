// Package server assembles the HTTP API.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/diewo77/go-ledger/internal/db"
	"github.com/diewo77/go-ledger/internal/httpx"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(cfg *RouterConfig, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	// --- Health endpoints ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx, cfg.DB); err != nil {
			logger.Error("health probe failed", "err", err)
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// --- Auth ---
	ah := cfg.AuthHandler
	mux.HandleFunc("POST /api/auth/login", ah.Login)
	mux.HandleFunc("PUT /api/auth/account", ah.UpdateAccount)

	// --- Customers ---
	ch := cfg.CustomerHandler
	mux.HandleFunc("GET /api/customers", ch.List)
	mux.HandleFunc("POST /api/customers", ch.Create)
	mux.HandleFunc("PUT /api/customers/{id}", ch.Update)

	// --- Payments ---
	ph := cfg.PaymentHandler
	mux.HandleFunc("GET /api/payments", ph.List)
	mux.HandleFunc("POST /api/payments", ph.Create)
	mux.HandleFunc("POST /api/payments/verify", ph.Verify)
	mux.HandleFunc("PUT /api/payments/{id}", ph.Update)
	mux.HandleFunc("DELETE /api/payments/{id}", ph.Delete)
	mux.HandleFunc("POST /api/payments/{id}/undo-verification", ph.UndoVerification)

	// --- Sheet ---
	sh := cfg.SheetHandler
	mux.HandleFunc("POST /api/sheet/save", sh.Save)
	mux.HandleFunc("GET /api/sheet/load", sh.Load)

	handler := recoverMiddleware(logger, mux)
	handler = loggingMiddleware(logger, handler)

	// CORS only when origins are configured; blank entries are ignored.
	var origins []string
	for _, o := range cfg.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) > 0 {
		handler = cors(origins, handler)
	}
	return handler
}
