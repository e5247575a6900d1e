package ledger

import (
	"context"

	"github.com/stocklane/warehouse-service/internal/ledger/dto"
	"github.com/stocklane/warehouse-service/internal/model"
)

type Repository interface {
	// ApplyOperation locks the stock record (creating it at zero inside the
	// same transaction when absent), applies the delta to the single counter
	// owned by the operation, appends the audit entry and commits. The
	// counter change and its entry are never observed independently.
	ApplyOperation(ctx context.Context, input *dto.ApplyInput, entry *model.StockLedgerEntry) (*model.StockRecord, error)

	// TransferPutawayToPicklist performs the dispatch transfer under one
	// lock: picklist += qty and putaway -= qty with two audit entries,
	// re-validating putaway >= qty while the lock is held.
	TransferPutawayToPicklist(ctx context.Context, input *dto.TransferInput, picklistEntry, putawayEntry *model.StockLedgerEntry) (*model.StockRecord, error)

	// GetBySKU reads the stock record without locking. Returns nil, nil
	// when the SKU has never been operated on.
	GetBySKU(ctx context.Context, sku string) (*model.StockRecord, error)

	ListEntries(ctx context.Context, filters *dto.EntryFilters) ([]model.StockLedgerEntry, int, error)
}
