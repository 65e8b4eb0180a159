package handlers

import (
	"log/slog"
	"net/http"

	"github.com/diewo77/go-ledger/internal/httpx"
	"github.com/diewo77/go-ledger/internal/services"
)

type PaymentHandler struct {
	svc *services.PaymentService
	log *slog.Logger
}

func NewPaymentHandler(svc *services.PaymentService, log *slog.Logger) *PaymentHandler {
	return &PaymentHandler{svc: svc, log: log}
}

func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	payments, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, r, h.log, err, "failed_to_list_payments")
		return
	}
	httpx.JSON(w, http.StatusOK, payments)
}

func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.PaymentInput
	if !decode(w, r, &in) {
		return
	}
	p, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, h.log, err, "failed_to_create_payment")
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *PaymentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in services.PaymentUpdate
	if !decode(w, r, &in) {
		return
	}
	p, err := h.svc.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, h.log, err, "failed_to_update_payment")
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, h.log, err, "failed_to_delete_payment")
		return
	}
	httpx.Success(w)
}

// Verify marks a batch of payments verified; it succeeds even when some
// ids do not exist.
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var in services.VerifyInput
	if !decode(w, r, &in) {
		return
	}
	res, err := h.svc.VerifyBatch(r.Context(), in)
	if err != nil {
		writeError(w, r, h.log, err, "failed_to_verify_payments")
		return
	}
	h.log.Info("payments verified", "requested", res.Requested, "verified", res.Verified, "business_date", in.BusinessDate)
	httpx.Success(w)
}

func (h *PaymentHandler) UndoVerification(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	n, err := h.svc.UndoVerification(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err, "failed_to_undo_verification")
		return
	}
	h.log.Info("verification undone", "id", id, "rows", n)
	httpx.Success(w)
}
