package dto

type CreateReceiptInput struct {
	PurchaseOrderID string
	SupplierRef     string
	Lines           []CreateReceiptLineInput
	CreatedBy       string
}

type CreateReceiptLineInput struct {
	SKU        string
	OrderedQty int64
}

// RecordLineInput carries the quantities observed at the dock for one line.
type RecordLineInput struct {
	LineID      string
	RejectedQty int64
	QCPassQty   int64
	ReceivedQty int64
	PerformedBy string
}
