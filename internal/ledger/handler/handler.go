package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/stocklane/warehouse-service/internal/auth"
	"github.com/stocklane/warehouse-service/internal/httpapi"
	"github.com/stocklane/warehouse-service/internal/ledger"
	"github.com/stocklane/warehouse-service/internal/ledger/dto"
	"github.com/stocklane/warehouse-service/internal/model"
)

type LedgerHandler struct {
	uc     ledger.UseCase
	logger *zap.Logger
}

func NewLedgerHandler(uc ledger.UseCase, log *zap.Logger) *LedgerHandler {
	return &LedgerHandler{uc: uc, logger: log}
}

func (h *LedgerHandler) Routes(r chi.Router) {
	r.Get("/stock/{sku}", h.GetStockSummary)
	r.Get("/stock/{sku}/entries", h.ListEntriesBySKU)
	r.Get("/ledger/entries", h.ListEntries)
	r.Post("/stock/{sku}/adjust", h.Adjust)
}

func (h *LedgerHandler) GetStockSummary(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")

	summary, err := h.uc.GetStockSummary(r.Context(), sku)
	if err != nil {
		httpapi.RespondError(w, err)
		return
	}
	httpapi.RespondJSON(w, http.StatusOK, summary)
}

func (h *LedgerHandler) ListEntriesBySKU(w http.ResponseWriter, r *http.Request) {
	filters := entryFiltersFromQuery(r)
	filters.SKU = chi.URLParam(r, "sku")

	h.respondEntries(w, r, filters)
}

func (h *LedgerHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	h.respondEntries(w, r, entryFiltersFromQuery(r))
}

func (h *LedgerHandler) respondEntries(w http.ResponseWriter, r *http.Request, filters *dto.EntryFilters) {
	entries, total, err := h.uc.ListEntries(r.Context(), filters)
	if err != nil {
		httpapi.RespondError(w, err)
		return
	}
	httpapi.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"total":   total,
	})
}

type adjustRequest struct {
	Operation   string                 `json:"operation"`
	Delta       int64                  `json:"delta"`
	ReferenceID string                 `json:"reference_id"`
	Details     map[string]interface{} `json:"details"`
}

// Adjust applies a manual counter correction. Regular workflows go through
// their own endpoints; this one exists for reconciliation.
func (h *LedgerHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	var req adjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.RespondBadRequest(w, "invalid request body")
		return
	}

	result, err := h.uc.Apply(r.Context(), &dto.ApplyInput{
		SKU:         chi.URLParam(r, "sku"),
		Operation:   model.OperationType(req.Operation),
		Delta:       req.Delta,
		ReferenceID: req.ReferenceID,
		Details:     req.Details,
		PerformedBy: auth.GetUserID(r.Context()),
	})
	if err != nil {
		h.logger.Warn("manual stock adjustment failed", zap.Error(err))
		httpapi.RespondError(w, err)
		return
	}
	httpapi.RespondJSON(w, http.StatusOK, result)
}

func entryFiltersFromQuery(r *http.Request) *dto.EntryFilters {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(q.Get("page_size"))
	if pageSize <= 0 {
		pageSize = 50
	}
	return &dto.EntryFilters{
		SKU:         q.Get("sku"),
		Operation:   q.Get("operation"),
		ReferenceID: q.Get("reference_id"),
		Page:        page,
		PageSize:    pageSize,
	}
}
