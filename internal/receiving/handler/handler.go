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
	"github.com/stocklane/warehouse-service/internal/receiving"
	"github.com/stocklane/warehouse-service/internal/receiving/dto"
)

type ReceivingHandler struct {
	uc     receiving.UseCase
	logger *zap.Logger
}

func NewReceivingHandler(uc receiving.UseCase, log *zap.Logger) *ReceivingHandler {
	return &ReceivingHandler{uc: uc, logger: log}
}

func (h *ReceivingHandler) Routes(r chi.Router) {
	r.Post("/receipts", h.CreateReceipt)
	r.Get("/receipts", h.ListReceipts)
	r.Get("/receipts/{id}", h.GetReceipt)
	r.Post("/receipts/lines/{lineID}/record", h.RecordLine)
}

type createReceiptRequest struct {
	PurchaseOrderID string `json:"purchase_order_id"`
	SupplierRef     string `json:"supplier_ref"`
	Lines           []struct {
		SKU        string `json:"sku"`
		OrderedQty int64  `json:"ordered_qty"`
	} `json:"lines"`
}

func (h *ReceivingHandler) CreateReceipt(w http.ResponseWriter, r *http.Request) {
	var req createReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.RespondBadRequest(w, "invalid request body")
		return
	}

	input := &dto.CreateReceiptInput{
		PurchaseOrderID: req.PurchaseOrderID,
		SupplierRef:     req.SupplierRef,
		CreatedBy:       auth.GetUserID(r.Context()),
	}
	for _, l := range req.Lines {
		input.Lines = append(input.Lines, dto.CreateReceiptLineInput{
			SKU:        l.SKU,
			OrderedQty: l.OrderedQty,
		})
	}

	receipt, err := h.uc.CreateReceipt(r.Context(), input)
	if err != nil {
		if errors.Is(err, receiving.ErrNoLines) || errors.Is(err, receiving.ErrInvalidQuantity) {
			httpapi.RespondBadRequest(w, err.Error())
			return
		}
		h.logger.Error("failed to create receipt", zap.Error(err))
		httpapi.RespondError(w, err)
		return
	}
	httpapi.RespondJSON(w, http.StatusCreated, receipt)
}

type recordLineRequest struct {
	RejectedQty int64 `json:"rejected_qty"`
	QCPassQty   int64 `json:"qc_pass_qty"`
	ReceivedQty int64 `json:"received_qty"`
}

func (h *ReceivingHandler) RecordLine(w http.ResponseWriter, r *http.Request) {
	var req recordLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.RespondBadRequest(w, "invalid request body")
		return
	}

	line, err := h.uc.RecordLine(r.Context(), &dto.RecordLineInput{
		LineID:      chi.URLParam(r, "lineID"),
		RejectedQty: req.RejectedQty,
		QCPassQty:   req.QCPassQty,
		ReceivedQty: req.ReceivedQty,
		PerformedBy: auth.GetUserID(r.Context()),
	})
	if err != nil {
		switch {
		case errors.Is(err, receiving.ErrLineNotFound):
			httpapi.RespondJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		case errors.Is(err, receiving.ErrInvalidQuantity):
			httpapi.RespondBadRequest(w, err.Error())
		default:
			httpapi.RespondError(w, err)
		}
		return
	}
	httpapi.RespondJSON(w, http.StatusOK, line)
}

func (h *ReceivingHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.uc.GetReceipt(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, receiving.ErrReceiptNotFound) {
			httpapi.RespondJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		httpapi.RespondError(w, err)
		return
	}
	httpapi.RespondJSON(w, http.StatusOK, receipt)
}

func (h *ReceivingHandler) ListReceipts(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize <= 0 {
		pageSize = 50
	}

	receipts, total, err := h.uc.ListReceipts(r.Context(), page, pageSize)
	if err != nil {
		httpapi.RespondError(w, err)
		return
	}
	httpapi.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"receipts": receipts,
		"total":    total,
	})
}
