package putaway

import "errors"

var (
	ErrTaskNotFound    = errors.New("putaway task not found")
	ErrTaskCompleted   = errors.New("putaway task already completed")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrTaskBusy        = errors.New("putaway task is being completed by another worker")
)
