package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stocklane/warehouse-service/internal/ledger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// RespondError maps the ledger taxonomy onto HTTP statuses. Insufficient
// quantity and concurrent update get distinct codes so clients can tell
// "reject the action" from "retry it".
func RespondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ledger.ErrSKUNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ledger.ErrInsufficientQuantity):
		status = http.StatusConflict
	case errors.Is(err, ledger.ErrInvalidOperation), errors.Is(err, ledger.ErrInvalidQuantity):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, ledger.ErrConcurrentUpdate):
		status = http.StatusServiceUnavailable
	}
	RespondJSON(w, status, errorResponse{Error: err.Error()})
}

func RespondBadRequest(w http.ResponseWriter, msg string) {
	RespondJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}
