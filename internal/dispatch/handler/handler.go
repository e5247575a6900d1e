package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/stocklane/warehouse-service/internal/auth"
	"github.com/stocklane/warehouse-service/internal/dispatch"
	"github.com/stocklane/warehouse-service/internal/httpapi"
)

type DispatchHandler struct {
	uc     dispatch.UseCase
	logger *zap.Logger
}

func NewDispatchHandler(uc dispatch.UseCase, log *zap.Logger) *DispatchHandler {
	return &DispatchHandler{uc: uc, logger: log}
}

func (h *DispatchHandler) Routes(r chi.Router) {
	r.Post("/waves/{id}/dispatch", h.DispatchWave)
}

func (h *DispatchHandler) DispatchWave(w http.ResponseWriter, r *http.Request) {
	wave, err := h.uc.DispatchWave(r.Context(), chi.URLParam(r, "id"), auth.GetUserID(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, dispatch.ErrWaveNotFound):
			httpapi.RespondJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		case errors.Is(err, dispatch.ErrWaveNotPicked), errors.Is(err, dispatch.ErrAlreadyDispatched):
			httpapi.RespondJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		default:
			h.logger.Error("failed to dispatch wave", zap.Error(err))
			httpapi.RespondError(w, err)
		}
		return
	}
	httpapi.RespondJSON(w, http.StatusOK, wave)
}
