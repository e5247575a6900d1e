package model

import "time"

type PutawayTaskStatus string

const (
	PutawayOpen      PutawayTaskStatus = "OPEN"
	PutawayCompleted PutawayTaskStatus = "COMPLETED"
)

// PutawayTask tracks quantity waiting to be shelved after receipt.
type PutawayTask struct {
	BaseModel
	SKU         string            `db:"sku" json:"sku"`
	Quantity    int64             `db:"quantity" json:"quantity"`
	ReceiptID   *string           `db:"receipt_id" json:"receipt_id"`
	Status      PutawayTaskStatus `db:"status" json:"status"`
	CompletedBy *string           `db:"completed_by" json:"completed_by"`
	CompletedAt *time.Time        `db:"completed_at" json:"completed_at"`
}
