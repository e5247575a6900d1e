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
	"github.com/stocklane/warehouse-service/internal/putaway"
	"github.com/stocklane/warehouse-service/internal/putaway/dto"
)

type PutawayHandler struct {
	uc     putaway.UseCase
	logger *zap.Logger
}

func NewPutawayHandler(uc putaway.UseCase, log *zap.Logger) *PutawayHandler {
	return &PutawayHandler{uc: uc, logger: log}
}

func (h *PutawayHandler) Routes(r chi.Router) {
	r.Post("/putaway/tasks", h.CreateTask)
	r.Get("/putaway/tasks", h.ListTasks)
	r.Post("/putaway/tasks/{id}/complete", h.CompleteTask)
}

type createTaskRequest struct {
	SKU       string `json:"sku"`
	Quantity  int64  `json:"quantity"`
	ReceiptID string `json:"receipt_id"`
}

func (h *PutawayHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.RespondBadRequest(w, "invalid request body")
		return
	}

	task, err := h.uc.CreateTask(r.Context(), &dto.CreateTaskInput{
		SKU:       req.SKU,
		Quantity:  req.Quantity,
		ReceiptID: req.ReceiptID,
		CreatedBy: auth.GetUserID(r.Context()),
	})
	if err != nil {
		if errors.Is(err, putaway.ErrInvalidQuantity) {
			httpapi.RespondBadRequest(w, err.Error())
			return
		}
		httpapi.RespondError(w, err)
		return
	}
	httpapi.RespondJSON(w, http.StatusCreated, task)
}

func (h *PutawayHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.uc.CompleteTask(r.Context(), chi.URLParam(r, "id"), auth.GetUserID(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, putaway.ErrTaskNotFound):
			httpapi.RespondJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		case errors.Is(err, putaway.ErrTaskCompleted):
			httpapi.RespondJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		case errors.Is(err, putaway.ErrTaskBusy):
			httpapi.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		default:
			h.logger.Error("failed to complete putaway task", zap.Error(err))
			httpapi.RespondError(w, err)
		}
		return
	}
	httpapi.RespondJSON(w, http.StatusOK, task)
}

func (h *PutawayHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize <= 0 {
		pageSize = 50
	}

	tasks, total, err := h.uc.ListTasks(r.Context(), model.PutawayTaskStatus(r.URL.Query().Get("status")), page, pageSize)
	if err != nil {
		httpapi.RespondError(w, err)
		return
	}
	httpapi.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"tasks": tasks,
		"total": total,
	})
}
