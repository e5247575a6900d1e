package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/stocklane/warehouse-service/internal/auth"
	"github.com/stocklane/warehouse-service/internal/httpapi"
	"github.com/stocklane/warehouse-service/internal/model"
	"github.com/stocklane/warehouse-service/internal/picking"
	"github.com/stocklane/warehouse-service/internal/picking/dto"
)

type PickingHandler struct {
	uc     picking.UseCase
	logger *zap.Logger
}

func NewPickingHandler(uc picking.UseCase, log *zap.Logger) *PickingHandler {
	return &PickingHandler{uc: uc, logger: log}
}

func (h *PickingHandler) Routes(r chi.Router) {
	r.Post("/waves", h.CreateWave)
	r.Get("/waves", h.ListWaves)
	r.Get("/waves/{id}", h.GetWave)
	r.Post("/waves/{id}/assign", h.AssignWave)
	r.Post("/waves/{id}/picks", h.RecordPick)
	r.Post("/waves/{id}/deallocations", h.DeallocatePick)
	r.Post("/workers", h.CreateWorker)
	r.Get("/workers", h.ListWorkers)
}

type createWaveRequest struct {
	OrderID string `json:"order_id"`
	Items   []struct {
		SKU      string `json:"sku"`
		Quantity int64  `json:"quantity"`
	} `json:"items"`
}

func (h *PickingHandler) CreateWave(w http.ResponseWriter, r *http.Request) {
	var req createWaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.RespondBadRequest(w, "invalid request body")
		return
	}

	input := &dto.CreateWaveInput{
		OrderID:   req.OrderID,
		CreatedBy: auth.GetUserID(r.Context()),
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, dto.WaveItemInput{SKU: item.SKU, Quantity: item.Quantity})
	}

	wave, err := h.uc.CreateWave(r.Context(), input)
	if err != nil {
		if errors.Is(err, picking.ErrNoItems) || errors.Is(err, picking.ErrInvalidQuantity) {
			httpapi.RespondBadRequest(w, err.Error())
			return
		}
		h.logger.Error("failed to create wave", zap.Error(err))
		httpapi.RespondError(w, err)
		return
	}
	httpapi.RespondJSON(w, http.StatusCreated, wave)
}

func (h *PickingHandler) AssignWave(w http.ResponseWriter, r *http.Request) {
	wave, err := h.uc.AssignWave(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondPickingError(w, err)
		return
	}
	httpapi.RespondJSON(w, http.StatusOK, wave)
}

type pickRequest struct {
	SKU      string `json:"sku"`
	Quantity int64  `json:"quantity"`
}

func (h *PickingHandler) RecordPick(w http.ResponseWriter, r *http.Request) {
	var req pickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.RespondBadRequest(w, "invalid request body")
		return
	}

	alloc, err := h.uc.RecordPick(r.Context(), &dto.PickInput{
		WaveID:      chi.URLParam(r, "id"),
		SKU:         req.SKU,
		Quantity:    req.Quantity,
		PerformedBy: auth.GetUserID(r.Context()),
	})
	if err != nil {
		h.respondPickingError(w, err)
		return
	}
	httpapi.RespondJSON(w, http.StatusOK, alloc)
}

func (h *PickingHandler) DeallocatePick(w http.ResponseWriter, r *http.Request) {
	var req pickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.RespondBadRequest(w, "invalid request body")
		return
	}

	alloc, err := h.uc.DeallocatePick(r.Context(), &dto.PickInput{
		WaveID:      chi.URLParam(r, "id"),
		SKU:         req.SKU,
		Quantity:    req.Quantity,
		PerformedBy: auth.GetUserID(r.Context()),
	})
	if err != nil {
		h.respondPickingError(w, err)
		return
	}
	httpapi.RespondJSON(w, http.StatusOK, alloc)
}

func (h *PickingHandler) GetWave(w http.ResponseWriter, r *http.Request) {
	wave, err := h.uc.GetWave(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondPickingError(w, err)
		return
	}
	httpapi.RespondJSON(w, http.StatusOK, wave)
}

func (h *PickingHandler) ListWaves(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize <= 0 {
		pageSize = 50
	}

	waves, total, err := h.uc.ListWaves(r.Context(), model.WaveStatus(r.URL.Query().Get("status")), page, pageSize)
	if err != nil {
		httpapi.RespondError(w, err)
		return
	}
	httpapi.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"waves": waves,
		"total": total,
	})
}

type createWorkerRequest struct {
	Name     string `json:"name"`
	IsPicker bool   `json:"is_picker"`
}

func (h *PickingHandler) CreateWorker(w http.ResponseWriter, r *http.Request) {
	var req createWorkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.RespondBadRequest(w, "invalid request body")
		return
	}

	worker, err := h.uc.CreateWorker(r.Context(), req.Name, req.IsPicker)
	if err != nil {
		httpapi.RespondError(w, err)
		return
	}
	httpapi.RespondJSON(w, http.StatusCreated, worker)
}

func (h *PickingHandler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := h.uc.ListWorkers(r.Context())
	if err != nil {
		httpapi.RespondError(w, err)
		return
	}
	httpapi.RespondJSON(w, http.StatusOK, workers)
}

func (h *PickingHandler) respondPickingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, picking.ErrWaveNotFound), errors.Is(err, picking.ErrAllocationNotFound):
		httpapi.RespondJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, picking.ErrInvalidQuantity):
		httpapi.RespondBadRequest(w, err.Error())
	case errors.Is(err, picking.ErrWaveAssigned),
		errors.Is(err, picking.ErrWaveNotPickable),
		errors.Is(err, picking.ErrAllocationExceeded),
		errors.Is(err, picking.ErrNotEnoughAvailable):
		httpapi.RespondJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, picking.ErrNoEligibleWorker):
		httpapi.RespondJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	default:
		h.logger.Error("picking request failed", zap.Error(err))
		httpapi.RespondError(w, err)
	}
}
