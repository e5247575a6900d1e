package returns

import "errors"

var (
	ErrInvalidReturnType = errors.New("invalid return type")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrReturnNotFound    = errors.New("return order not found")
)
