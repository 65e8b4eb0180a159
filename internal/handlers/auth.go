package handlers

import (
	"log/slog"
	"net/http"

	"github.com/diewo77/go-ledger/internal/httpx"
	"github.com/diewo77/go-ledger/internal/services"
)

type AuthHandler struct {
	svc *services.IdentityService
	log *slog.Logger
}

func NewAuthHandler(svc *services.IdentityService, log *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: log}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login answers {id, username} for valid credentials and 401 otherwise.
// No session is created.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}
	id, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, h.log, err, "login_failed")
		return
	}
	httpx.JSON(w, http.StatusOK, id)
}

func (h *AuthHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req services.RotateInput
	if !decode(w, r, &req) {
		return
	}
	id, err := h.svc.RotateCredentials(r.Context(), req)
	if err != nil {
		writeError(w, r, h.log, err, "failed_to_update_account")
		return
	}
	h.log.Info("account credentials rotated", "username", id.Username)
	httpx.JSON(w, http.StatusOK, map[string]string{"username": id.Username})
}
