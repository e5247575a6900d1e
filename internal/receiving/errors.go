package receiving

import "errors"

var (
	ErrReceiptNotFound = errors.New("receipt not found")
	ErrLineNotFound    = errors.New("receipt line not found")
	ErrNoLines         = errors.New("receipt has no lines")
	ErrInvalidQuantity = errors.New("quantities must be non-negative")
)
