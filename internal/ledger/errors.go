package ledger

import (
	"errors"
	"fmt"

	"github.com/stocklane/warehouse-service/internal/model"
)

var (
	// ErrSKUNotFound is returned by read paths only; writes create the
	// stock record lazily.
	ErrSKUNotFound = errors.New("sku not found")

	// ErrInsufficientQuantity means the targeted counter would go negative.
	// The business action should be rejected, not retried.
	ErrInsufficientQuantity = errors.New("insufficient quantity")

	// ErrInvalidOperation means the operation enum is unrecognized.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrConcurrentUpdate means the row lock could not be obtained in time.
	// Safe to retry: nothing was applied.
	ErrConcurrentUpdate = errors.New("concurrent update, retry")

	// ErrInvalidQuantity rejects zero deltas and non-positive transfers.
	ErrInvalidQuantity = errors.New("quantity must be non-zero")
)

// OperationError carries enough context (sku, operation, attempted delta)
// for the calling workflow to retry or reconcile manually.
type OperationError struct {
	SKU       string
	Operation model.OperationType
	Delta     int64
	Err       error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("ledger operation %s on sku %s (delta %+d): %v",
		e.Operation, e.SKU, e.Delta, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}
