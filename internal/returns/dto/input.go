package dto

import "github.com/stocklane/warehouse-service/internal/model"

type RecordReturnInput struct {
	SKU        string
	Quantity   int64
	Type       model.ReturnType
	OrderRef   string
	ReceivedBy string
}
