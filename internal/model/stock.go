package model

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// OperationType identifies the single stock counter a ledger operation mutates.
type OperationType string

const (
	OperationPO              OperationType = "PO"
	OperationGRN             OperationType = "GRN"
	OperationPutaway         OperationType = "PUTAWAY"
	OperationPicklist        OperationType = "PICKLIST"
	OperationReturnTryAndBuy OperationType = "RETURN_TRY_AND_BUY"
	OperationReturnOther     OperationType = "RETURN_OTHER"
)

func (op OperationType) Valid() bool {
	switch op {
	case OperationPO, OperationGRN, OperationPutaway, OperationPicklist,
		OperationReturnTryAndBuy, OperationReturnOther:
		return true
	}
	return false
}

// StockRecord holds the per-SKU counters. One row per SKU, created lazily on
// the first operation and mutated only through the ledger transaction.
type StockRecord struct {
	SKU                     string    `db:"sku" json:"sku"`
	POQuantity              int64     `db:"po_quantity" json:"po_quantity"`
	GRNQuantity             int64     `db:"grn_quantity" json:"grn_quantity"`
	PutawayQuantity         int64     `db:"putaway_quantity" json:"putaway_quantity"`
	PicklistQuantity        int64     `db:"picklist_quantity" json:"picklist_quantity"`
	ReturnTryAndBuyQuantity int64     `db:"return_try_and_buy_quantity" json:"return_try_and_buy_quantity"`
	ReturnOtherQuantity     int64     `db:"return_other_quantity" json:"return_other_quantity"`
	CreatedAt               time.Time `db:"created_at" json:"created_at"`
	UpdatedAt               time.Time `db:"updated_at" json:"updated_at"`
}

// TotalAvailable is putaway minus picklist. Not clamped: a negative value
// means the SKU is overallocated and should surface as such, not be hidden.
func (s *StockRecord) TotalAvailable() int64 {
	return s.PutawayQuantity - s.PicklistQuantity
}

func (s *StockRecord) TotalInventory() int64 {
	return s.POQuantity + s.GRNQuantity + s.PutawayQuantity +
		s.PicklistQuantity + s.ReturnTryAndBuyQuantity + s.ReturnOtherQuantity
}

// Counter returns the value of the counter owned by op.
func (s *StockRecord) Counter(op OperationType) int64 {
	switch op {
	case OperationPO:
		return s.POQuantity
	case OperationGRN:
		return s.GRNQuantity
	case OperationPutaway:
		return s.PutawayQuantity
	case OperationPicklist:
		return s.PicklistQuantity
	case OperationReturnTryAndBuy:
		return s.ReturnTryAndBuyQuantity
	case OperationReturnOther:
		return s.ReturnOtherQuantity
	}
	return 0
}

// SetCounter overwrites the counter owned by op.
func (s *StockRecord) SetCounter(op OperationType, v int64) {
	switch op {
	case OperationPO:
		s.POQuantity = v
	case OperationGRN:
		s.GRNQuantity = v
	case OperationPutaway:
		s.PutawayQuantity = v
	case OperationPicklist:
		s.PicklistQuantity = v
	case OperationReturnTryAndBuy:
		s.ReturnTryAndBuyQuantity = v
	case OperationReturnOther:
		s.ReturnOtherQuantity = v
	}
}

// StockLedgerEntry is one immutable audit record of a single counter change.
// Entries are append-only: previous_quantity + quantity_change always equals
// new_quantity, and rows are never updated or deleted.
type StockLedgerEntry struct {
	ID               string         `db:"id" json:"id"`
	SKU              string         `db:"sku" json:"sku"`
	Operation        OperationType  `db:"operation" json:"operation"`
	QuantityChange   int64          `db:"quantity_change" json:"quantity_change"`
	PreviousQuantity int64          `db:"previous_quantity" json:"previous_quantity"`
	NewQuantity      int64          `db:"new_quantity" json:"new_quantity"`
	ReferenceID      *string        `db:"reference_id" json:"reference_id"`
	Details          types.JSONText `db:"details" json:"details"`
	PerformedBy      *string        `db:"performed_by" json:"performed_by"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
}
