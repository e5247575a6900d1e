package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stocklane/warehouse-service/internal/ledger"
	"github.com/stocklane/warehouse-service/internal/ledger/dto"
	"github.com/stocklane/warehouse-service/internal/model"
	"github.com/stocklane/warehouse-service/internal/search"
)

const (
	summaryCacheTTL  = 30 * time.Second
	entriesIndexName = "stock_ledger_entries"
	entriesIndexBody = `{
		"mappings": {
			"properties": {
				"sku": { "type": "keyword" },
				"operation": { "type": "keyword" },
				"quantity_change": { "type": "long" },
				"previous_quantity": { "type": "long" },
				"new_quantity": { "type": "long" },
				"reference_id": { "type": "keyword" },
				"performed_by": { "type": "keyword" },
				"created_at": { "type": "date" }
			}
		}
	}`
)

type ledgerUseCase struct {
	repo   ledger.Repository
	cache  ledger.SummaryCache
	es     *search.Client
	logger *zap.Logger
}

func NewLedgerUseCase(repo ledger.Repository, cache ledger.SummaryCache, es *search.Client, log *zap.Logger) ledger.UseCase {
	return &ledgerUseCase{
		repo:   repo,
		cache:  cache,
		es:     es,
		logger: log,
	}
}

func (uc *ledgerUseCase) Apply(ctx context.Context, input *dto.ApplyInput) (*dto.ApplyResult, error) {
	if !input.Operation.Valid() {
		return nil, &ledger.OperationError{
			SKU: input.SKU, Operation: input.Operation, Delta: input.Delta,
			Err: ledger.ErrInvalidOperation,
		}
	}
	if input.Delta == 0 {
		return nil, &ledger.OperationError{
			SKU: input.SKU, Operation: input.Operation, Delta: input.Delta,
			Err: ledger.ErrInvalidQuantity,
		}
	}

	entry, err := uc.newEntry(input.SKU, input.Operation, input.Delta, input.ReferenceID, input.Details, input.PerformedBy)
	if err != nil {
		return nil, err
	}

	rec, err := uc.repo.ApplyOperation(ctx, input, entry)
	if err != nil {
		return nil, &ledger.OperationError{
			SKU: input.SKU, Operation: input.Operation, Delta: input.Delta,
			Err: err,
		}
	}

	uc.afterWrite(ctx, input.SKU, entry)

	return &dto.ApplyResult{
		SKU:              input.SKU,
		Operation:        input.Operation,
		PreviousQuantity: entry.PreviousQuantity,
		NewQuantity:      entry.NewQuantity,
		TotalAvailable:   rec.TotalAvailable(),
	}, nil
}

func (uc *ledgerUseCase) Transfer(ctx context.Context, input *dto.TransferInput) (*dto.ApplyResult, error) {
	if input.Quantity <= 0 {
		return nil, &ledger.OperationError{
			SKU: input.SKU, Operation: model.OperationPicklist, Delta: input.Quantity,
			Err: ledger.ErrInvalidQuantity,
		}
	}

	picklistEntry, err := uc.newEntry(input.SKU, model.OperationPicklist, input.Quantity, input.ReferenceID, input.Details, input.PerformedBy)
	if err != nil {
		return nil, err
	}
	putawayEntry, err := uc.newEntry(input.SKU, model.OperationPutaway, -input.Quantity, input.ReferenceID, input.Details, input.PerformedBy)
	if err != nil {
		return nil, err
	}

	rec, err := uc.repo.TransferPutawayToPicklist(ctx, input, picklistEntry, putawayEntry)
	if err != nil {
		return nil, &ledger.OperationError{
			SKU: input.SKU, Operation: model.OperationPutaway, Delta: -input.Quantity,
			Err: err,
		}
	}

	uc.afterWrite(ctx, input.SKU, picklistEntry, putawayEntry)

	return &dto.ApplyResult{
		SKU:              input.SKU,
		Operation:        model.OperationPutaway,
		PreviousQuantity: putawayEntry.PreviousQuantity,
		NewQuantity:      putawayEntry.NewQuantity,
		TotalAvailable:   rec.TotalAvailable(),
	}, nil
}

func (uc *ledgerUseCase) GetStockSummary(ctx context.Context, sku string) (*dto.StockSummary, error) {
	cacheKey := summaryCacheKey(sku)

	if uc.cache != nil {
		if val, err := uc.cache.Get(ctx, cacheKey); err == nil {
			var summary dto.StockSummary
			if err := json.Unmarshal([]byte(val), &summary); err == nil {
				return &summary, nil
			}
		}
	}

	rec, err := uc.repo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: %s", ledger.ErrSKUNotFound, sku)
	}

	summary := dto.SummaryFromRecord(rec)

	if uc.cache != nil {
		if raw, err := json.Marshal(summary); err == nil {
			if err := uc.cache.Set(ctx, cacheKey, raw, summaryCacheTTL); err != nil {
				uc.logger.Warn("failed to cache stock summary", zap.String("sku", sku), zap.Error(err))
			}
		}
	}

	return summary, nil
}

func (uc *ledgerUseCase) ListEntries(ctx context.Context, filters *dto.EntryFilters) ([]model.StockLedgerEntry, int, error) {
	return uc.repo.ListEntries(ctx, filters)
}

func (uc *ledgerUseCase) newEntry(sku string, op model.OperationType, delta int64, referenceID string, details map[string]interface{}, performedBy string) (*model.StockLedgerEntry, error) {
	entry := &model.StockLedgerEntry{
		ID:             uuid.New().String(),
		SKU:            sku,
		Operation:      op,
		QuantityChange: delta,
		CreatedAt:      time.Now().UTC(),
	}
	if referenceID != "" {
		entry.ReferenceID = &referenceID
	}
	if performedBy != "" {
		entry.PerformedBy = &performedBy
	}
	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			return nil, fmt.Errorf("failed to encode operation details: %w", err)
		}
		entry.Details = raw
	} else {
		entry.Details = []byte("{}")
	}
	return entry, nil
}

// afterWrite invalidates the cached summary before the write returns, so a
// summary read racing the commit cannot re-populate pre-commit counters for
// the full TTL. Indexing stays best-effort in the background.
func (uc *ledgerUseCase) afterWrite(ctx context.Context, sku string, entries ...*model.StockLedgerEntry) {
	if uc.cache != nil {
		if err := uc.cache.Del(ctx, summaryCacheKey(sku)); err != nil {
			uc.logger.Warn("failed to invalidate summary cache", zap.String("sku", sku), zap.Error(err))
		}
	}
	for _, entry := range entries {
		go uc.indexEntry(entry)
	}
}

func (uc *ledgerUseCase) indexEntry(entry *model.StockLedgerEntry) {
	if uc.es == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = uc.es.CreateIndex(ctx, entriesIndexName, entriesIndexBody)

	if err := uc.es.Index(ctx, entriesIndexName, entry.ID, entry); err != nil {
		uc.logger.Error("failed to index ledger entry",
			zap.String("sku", entry.SKU),
			zap.String("entry_id", entry.ID),
			zap.Error(err),
		)
	}
}

func summaryCacheKey(sku string) string {
	return "stock:summary:" + sku
}
