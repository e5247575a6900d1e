package picking

import "errors"

var (
	ErrWaveNotFound       = errors.New("wave not found")
	ErrAllocationNotFound = errors.New("picklist allocation not found")
	ErrNoEligibleWorker   = errors.New("no eligible worker")
	ErrWaveAssigned       = errors.New("wave already assigned")
	ErrWaveNotPickable    = errors.New("wave is not in a pickable state")
	ErrAllocationExceeded = errors.New("picked quantity exceeds requested quantity")
	ErrNotEnoughAvailable = errors.New("not enough available stock")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrNoItems            = errors.New("wave needs at least one item")
)
