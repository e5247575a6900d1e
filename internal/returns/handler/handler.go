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
	"github.com/stocklane/warehouse-service/internal/returns"
	"github.com/stocklane/warehouse-service/internal/returns/dto"
)

type ReturnsHandler struct {
	uc     returns.UseCase
	logger *zap.Logger
}

func NewReturnsHandler(uc returns.UseCase, log *zap.Logger) *ReturnsHandler {
	return &ReturnsHandler{uc: uc, logger: log}
}

func (h *ReturnsHandler) Routes(r chi.Router) {
	r.Post("/returns", h.RecordReturn)
	r.Get("/returns", h.ListReturns)
	r.Get("/returns/{id}", h.GetReturn)
}

type recordReturnRequest struct {
	SKU      string `json:"sku"`
	Quantity int64  `json:"quantity"`
	Type     string `json:"return_type"`
	OrderRef string `json:"order_ref"`
}

func (h *ReturnsHandler) RecordReturn(w http.ResponseWriter, r *http.Request) {
	var req recordReturnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.RespondBadRequest(w, "invalid request body")
		return
	}

	ret, err := h.uc.RecordReturn(r.Context(), &dto.RecordReturnInput{
		SKU:        req.SKU,
		Quantity:   req.Quantity,
		Type:       model.ReturnType(req.Type),
		OrderRef:   req.OrderRef,
		ReceivedBy: auth.GetUserID(r.Context()),
	})
	if err != nil {
		if errors.Is(err, returns.ErrInvalidReturnType) || errors.Is(err, returns.ErrInvalidQuantity) {
			httpapi.RespondBadRequest(w, err.Error())
			return
		}
		h.logger.Error("failed to record return", zap.Error(err))
		httpapi.RespondError(w, err)
		return
	}
	httpapi.RespondJSON(w, http.StatusCreated, ret)
}

func (h *ReturnsHandler) GetReturn(w http.ResponseWriter, r *http.Request) {
	ret, err := h.uc.GetReturn(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, returns.ErrReturnNotFound) {
			httpapi.RespondJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		httpapi.RespondError(w, err)
		return
	}
	httpapi.RespondJSON(w, http.StatusOK, ret)
}

func (h *ReturnsHandler) ListReturns(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize <= 0 {
		pageSize = 50
	}

	items, total, err := h.uc.ListReturns(r.Context(), page, pageSize)
	if err != nil {
		httpapi.RespondError(w, err)
		return
	}
	httpapi.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"returns": items,
		"total":   total,
	})
}
