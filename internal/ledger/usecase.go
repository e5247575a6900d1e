package ledger

import (
	"context"
	"time"

	"github.com/stocklane/warehouse-service/internal/ledger/dto"
	"github.com/stocklane/warehouse-service/internal/model"
)

// SummaryCache is the read-through cache for stock summaries. Implemented by
// the redis client; a failed Get is a miss.
type SummaryCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

type UseCase interface {
	// Apply executes one atomic counter operation and returns the
	// single-counter before/after values plus the derived availability.
	Apply(ctx context.Context, input *dto.ApplyInput) (*dto.ApplyResult, error)

	// Transfer moves quantity from putaway to picklist as one atomic event
	// (the dispatch transfer).
	Transfer(ctx context.Context, input *dto.TransferInput) (*dto.ApplyResult, error)

	// GetStockSummary is the advisory, lock-free availability query.
	GetStockSummary(ctx context.Context, sku string) (*dto.StockSummary, error)

	ListEntries(ctx context.Context, filters *dto.EntryFilters) ([]model.StockLedgerEntry, int, error)
}
