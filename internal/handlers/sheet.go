package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/diewo77/go-ledger/internal/httpx"
	"github.com/diewo77/go-ledger/internal/services"
)

type SheetHandler struct {
	svc *services.SheetService
	log *slog.Logger
}

func NewSheetHandler(svc *services.SheetService, log *slog.Logger) *SheetHandler {
	return &SheetHandler{svc: svc, log: log}
}

type sheetSaveRequest struct {
	SheetData json.RawMessage `json:"sheetData"`
}

type sheetLoadResponse struct {
	Data json.RawMessage `json:"data"`
}

func (h *SheetHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req sheetSaveRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.Save(r.Context(), req.SheetData); err != nil {
		writeError(w, r, h.log, err, "failed_to_save_sheet")
		return
	}
	httpx.Success(w)
}

func (h *SheetHandler) Load(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.Load(r.Context())
	if err != nil {
		writeError(w, r, h.log, err, "failed_to_load_sheet")
		return
	}
	httpx.JSON(w, http.StatusOK, sheetLoadResponse{Data: doc})
}
