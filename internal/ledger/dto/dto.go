package dto

import (
	"time"

	"github.com/stocklane/warehouse-service/internal/model"
)

// ApplyResult reports the single counter the operation touched plus the
// recomputed availability.
type ApplyResult struct {
	SKU              string              `json:"sku"`
	Operation        model.OperationType `json:"operation"`
	PreviousQuantity int64               `json:"previous_quantity"`
	NewQuantity      int64               `json:"new_quantity"`
	TotalAvailable   int64               `json:"total_available"`
}

// StockSummary is the read-only view of one StockRecord.
type StockSummary struct {
	SKU                     string    `json:"sku"`
	POQuantity              int64     `json:"po_quantity"`
	GRNQuantity             int64     `json:"grn_quantity"`
	PutawayQuantity         int64     `json:"putaway_quantity"`
	PicklistQuantity        int64     `json:"picklist_quantity"`
	ReturnTryAndBuyQuantity int64     `json:"return_try_and_buy_quantity"`
	ReturnOtherQuantity     int64     `json:"return_other_quantity"`
	TotalAvailable          int64     `json:"total_available"`
	TotalInventory          int64     `json:"total_inventory"`
	UpdatedAt               time.Time `json:"updated_at"`
}

func SummaryFromRecord(rec *model.StockRecord) *StockSummary {
	return &StockSummary{
		SKU:                     rec.SKU,
		POQuantity:              rec.POQuantity,
		GRNQuantity:             rec.GRNQuantity,
		PutawayQuantity:         rec.PutawayQuantity,
		PicklistQuantity:        rec.PicklistQuantity,
		ReturnTryAndBuyQuantity: rec.ReturnTryAndBuyQuantity,
		ReturnOtherQuantity:     rec.ReturnOtherQuantity,
		TotalAvailable:          rec.TotalAvailable(),
		TotalInventory:          rec.TotalInventory(),
		UpdatedAt:               rec.UpdatedAt,
	}
}

type EntryFilters struct {
	SKU         string
	Operation   string
	ReferenceID string
	Page        int
	PageSize    int
}
