package dto

import "github.com/stocklane/warehouse-service/internal/model"

type ApplyInput struct {
	SKU         string
	Operation   model.OperationType
	Delta       int64
	ReferenceID string
	Details     map[string]interface{}
	PerformedBy string
}

// TransferInput moves quantity from the putaway counter to the picklist
// counter as one atomic event.
type TransferInput struct {
	SKU         string
	Quantity    int64
	ReferenceID string
	Details     map[string]interface{}
	PerformedBy string
}
