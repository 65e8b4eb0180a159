package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/diewo77/go-ledger/internal/httpx"
	"github.com/diewo77/go-ledger/internal/services"
)

// writeError maps a service error to its HTTP status. Anything unexpected
// is logged and answered with the opaque fallback code.
func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error, fallback string) {
	var ve *services.ValidationError
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
	case errors.As(err, &ve):
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", ve.Violations)
	case errors.Is(err, services.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	default:
		log.Error("request failed", "method", r.Method, "path", r.URL.Path, "code", fallback, "err", err)
		httpx.JSONError(w, http.StatusInternalServerError, fallback, nil)
	}
}

// decode reads the JSON body, answering 400 itself on failure.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.Decode(r, dst); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return false
	}
	return true
}
