package dto

type CreateTaskInput struct {
	SKU       string
	Quantity  int64
	ReceiptID string
	CreatedBy string
}
