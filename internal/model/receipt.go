package model

// LineStatus is derived from a receipt line's quantity triple and never
// stored as independently editable truth.
type LineStatus string

const (
	LinePending   LineStatus = "PENDING"
	LinePartial   LineStatus = "PARTIAL"
	LineRejected  LineStatus = "REJECTED"
	LineCompleted LineStatus = "COMPLETED"
)

type ReceiptStatus string

const (
	ReceiptPending   ReceiptStatus = "PENDING"
	ReceiptPartial   ReceiptStatus = "PARTIAL"
	ReceiptRejected  ReceiptStatus = "REJECTED"
	ReceiptCompleted ReceiptStatus = "COMPLETED"
)

type Receipt struct {
	BaseModel
	PurchaseOrderID string        `db:"purchase_order_id" json:"purchase_order_id"`
	SupplierRef     *string       `db:"supplier_ref" json:"supplier_ref"`
	Status          ReceiptStatus `db:"status" json:"status"`
	Lines           []ReceiptLine `db:"-" json:"lines"` // Joined data
}

type ReceiptLine struct {
	BaseModel
	ReceiptID   string     `db:"receipt_id" json:"receipt_id"`
	SKU         string     `db:"sku" json:"sku"`
	OrderedQty  int64      `db:"ordered_qty" json:"ordered_qty"`
	RejectedQty int64      `db:"rejected_qty" json:"rejected_qty"`
	QCPassQty   int64      `db:"qc_pass_qty" json:"qc_pass_qty"`
	ReceivedQty int64      `db:"received_qty" json:"received_qty"`
	Status      LineStatus `db:"status" json:"status"`
}
