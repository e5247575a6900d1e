package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stocklane/warehouse-service/internal/ledger"
	"github.com/stocklane/warehouse-service/internal/ledger/dto"
	"github.com/stocklane/warehouse-service/internal/model"
)

// fakeRepo applies the locking protocol's observable behavior in memory:
// lazy record creation, the per-counter floor, and the previous/new
// quantities written back onto the entry.
type fakeRepo struct {
	records map[string]*model.StockRecord
	entries []model.StockLedgerEntry
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: map[string]*model.StockRecord{}}
}

func (f *fakeRepo) record(sku string) *model.StockRecord {
	rec, ok := f.records[sku]
	if !ok {
		rec = &model.StockRecord{SKU: sku, CreatedAt: time.Now(), UpdatedAt: time.Now()}
		f.records[sku] = rec
	}
	return rec
}

func (f *fakeRepo) applyCounter(rec *model.StockRecord, op model.OperationType, delta int64, entry *model.StockLedgerEntry) error {
	prev := rec.Counter(op)
	next := prev + delta
	if next < 0 {
		return fmt.Errorf("%w: %s %s would drop to %d", ledger.ErrInsufficientQuantity, rec.SKU, op, next)
	}
	rec.SetCounter(op, next)
	rec.UpdatedAt = time.Now()
	entry.PreviousQuantity = prev
	entry.NewQuantity = next
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeRepo) ApplyOperation(_ context.Context, input *dto.ApplyInput, entry *model.StockLedgerEntry) (*model.StockRecord, error) {
	rec := f.record(input.SKU)
	if err := f.applyCounter(rec, input.Operation, input.Delta, entry); err != nil {
		return nil, err
	}
	out := *rec
	return &out, nil
}

func (f *fakeRepo) TransferPutawayToPicklist(_ context.Context, input *dto.TransferInput, picklistEntry, putawayEntry *model.StockLedgerEntry) (*model.StockRecord, error) {
	rec := f.record(input.SKU)
	if rec.PutawayQuantity < input.Quantity {
		return nil, fmt.Errorf("%w: putaway %d < %d", ledger.ErrInsufficientQuantity, rec.PutawayQuantity, input.Quantity)
	}
	if err := f.applyCounter(rec, model.OperationPicklist, input.Quantity, picklistEntry); err != nil {
		return nil, err
	}
	if err := f.applyCounter(rec, model.OperationPutaway, -input.Quantity, putawayEntry); err != nil {
		return nil, err
	}
	out := *rec
	return &out, nil
}

func (f *fakeRepo) GetBySKU(_ context.Context, sku string) (*model.StockRecord, error) {
	rec, ok := f.records[sku]
	if !ok {
		return nil, nil
	}
	out := *rec
	return &out, nil
}

func (f *fakeRepo) ListEntries(_ context.Context, filters *dto.EntryFilters) ([]model.StockLedgerEntry, int, error) {
	var out []model.StockLedgerEntry
	for _, e := range f.entries {
		if filters.SKU != "" && e.SKU != filters.SKU {
			continue
		}
		out = append(out, e)
	}
	return out, len(out), nil
}

func newTestUseCase(repo ledger.Repository) ledger.UseCase {
	return NewLedgerUseCase(repo, nil, nil, zap.NewNop())
}

func TestApplyRejectsUnknownOperation(t *testing.T) {
	uc := newTestUseCase(newFakeRepo())

	_, err := uc.Apply(context.Background(), &dto.ApplyInput{
		SKU: "SKU-1", Operation: "TELEPORT", Delta: 5,
	})
	assert.ErrorIs(t, err, ledger.ErrInvalidOperation)

	var opErr *ledger.OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "SKU-1", opErr.SKU)
	assert.Equal(t, int64(5), opErr.Delta)
}

func TestApplyRejectsZeroDelta(t *testing.T) {
	uc := newTestUseCase(newFakeRepo())

	_, err := uc.Apply(context.Background(), &dto.ApplyInput{
		SKU: "SKU-1", Operation: model.OperationPO, Delta: 0,
	})
	assert.ErrorIs(t, err, ledger.ErrInvalidQuantity)
}

func TestApplyCreatesRecordAndEntry(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUseCase(repo)

	res, err := uc.Apply(context.Background(), &dto.ApplyInput{
		SKU:         "SKU-1",
		Operation:   model.OperationPO,
		Delta:       100,
		ReferenceID: "po-1",
		PerformedBy: "user-1",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(0), res.PreviousQuantity)
	assert.Equal(t, int64(100), res.NewQuantity)
	assert.Equal(t, int64(0), res.TotalAvailable)

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, model.OperationPO, entry.Operation)
	assert.Equal(t, entry.PreviousQuantity+entry.QuantityChange, entry.NewQuantity)
	require.NotNil(t, entry.ReferenceID)
	assert.Equal(t, "po-1", *entry.ReferenceID)
	require.NotNil(t, entry.PerformedBy)
	assert.Equal(t, "user-1", *entry.PerformedBy)
}

func TestApplyFloorsEachCounterAtZero(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUseCase(repo)

	_, err := uc.Apply(context.Background(), &dto.ApplyInput{
		SKU: "SKU-1", Operation: model.OperationGRN, Delta: 10,
	})
	require.NoError(t, err)

	_, err = uc.Apply(context.Background(), &dto.ApplyInput{
		SKU: "SKU-1", Operation: model.OperationGRN, Delta: -11,
	})
	assert.ErrorIs(t, err, ledger.ErrInsufficientQuantity)

	// The failed operation must leave no trace.
	require.Len(t, repo.entries, 1)
	rec, err := repo.GetBySKU(context.Background(), "SKU-1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), rec.GRNQuantity)
}

func TestReceiveToPickFlow(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUseCase(repo)
	ctx := context.Background()

	steps := []struct {
		op    model.OperationType
		delta int64
	}{
		{model.OperationPO, 100},
		{model.OperationGRN, 80},
		{model.OperationPutaway, 70},
		{model.OperationPicklist, 30},
	}
	for _, s := range steps {
		_, err := uc.Apply(ctx, &dto.ApplyInput{SKU: "SKU-1", Operation: s.op, Delta: s.delta})
		require.NoError(t, err)
	}

	summary, err := uc.GetStockSummary(ctx, "SKU-1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), summary.POQuantity)
	assert.Equal(t, int64(80), summary.GRNQuantity)
	assert.Equal(t, int64(70), summary.PutawayQuantity)
	assert.Equal(t, int64(30), summary.PicklistQuantity)
	assert.Equal(t, int64(40), summary.TotalAvailable)
	assert.Equal(t, int64(280), summary.TotalInventory)

	// Every entry keeps the previous + change == new arithmetic.
	entries, total, err := uc.ListEntries(ctx, &dto.EntryFilters{SKU: "SKU-1"})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	for _, e := range entries {
		assert.Equal(t, e.PreviousQuantity+e.QuantityChange, e.NewQuantity)
	}
}

func TestTransferMovesPutawayToPicklist(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUseCase(repo)
	ctx := context.Background()

	_, err := uc.Apply(ctx, &dto.ApplyInput{SKU: "SKU-1", Operation: model.OperationPutaway, Delta: 50})
	require.NoError(t, err)

	res, err := uc.Transfer(ctx, &dto.TransferInput{SKU: "SKU-1", Quantity: 20, ReferenceID: "wave-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(50), res.PreviousQuantity)
	assert.Equal(t, int64(30), res.NewQuantity)

	summary, err := uc.GetStockSummary(ctx, "SKU-1")
	require.NoError(t, err)
	assert.Equal(t, int64(30), summary.PutawayQuantity)
	assert.Equal(t, int64(20), summary.PicklistQuantity)
	assert.Equal(t, int64(10), summary.TotalAvailable)

	// One entry per touched counter, both tied to the same reference.
	require.Len(t, repo.entries, 3)
	for _, e := range repo.entries[1:] {
		require.NotNil(t, e.ReferenceID)
		assert.Equal(t, "wave-1", *e.ReferenceID)
	}
}

func TestTransferRejectsInsufficientPutaway(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUseCase(repo)
	ctx := context.Background()

	_, err := uc.Apply(ctx, &dto.ApplyInput{SKU: "SKU-1", Operation: model.OperationPutaway, Delta: 5})
	require.NoError(t, err)

	_, err = uc.Transfer(ctx, &dto.TransferInput{SKU: "SKU-1", Quantity: 6})
	assert.ErrorIs(t, err, ledger.ErrInsufficientQuantity)

	_, err = uc.Transfer(ctx, &dto.TransferInput{SKU: "SKU-1", Quantity: 0})
	assert.ErrorIs(t, err, ledger.ErrInvalidQuantity)
}

func TestGetStockSummaryUnknownSKU(t *testing.T) {
	uc := newTestUseCase(newFakeRepo())

	_, err := uc.GetStockSummary(context.Background(), "SKU-MISSING")
	assert.ErrorIs(t, err, ledger.ErrSKUNotFound)
}

// fakeSummaryCache is an in-memory SummaryCache that records deletions so
// tests can observe when invalidation happened.
type fakeSummaryCache struct {
	mu   sync.Mutex
	data map[string]string
	dels []string
}

func newFakeSummaryCache() *fakeSummaryCache {
	return &fakeSummaryCache{data: map[string]string{}}
}

func (c *fakeSummaryCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	val, ok := c.data[key]
	if !ok {
		return "", errors.New("cache miss")
	}
	return val, nil
}

func (c *fakeSummaryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = string(value)
	return nil
}

func (c *fakeSummaryCache) Del(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	c.dels = append(c.dels, key)
	return nil
}

func (c *fakeSummaryCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

func TestGetStockSummaryServesFromCache(t *testing.T) {
	repo := newFakeRepo()
	cache := newFakeSummaryCache()
	uc := NewLedgerUseCase(repo, cache, nil, zap.NewNop())
	ctx := context.Background()

	_, err := uc.Apply(ctx, &dto.ApplyInput{SKU: "SKU-1", Operation: model.OperationPO, Delta: 10})
	require.NoError(t, err)

	first, err := uc.GetStockSummary(ctx, "SKU-1")
	require.NoError(t, err)
	assert.True(t, cache.has("stock:summary:SKU-1"))

	// Mutate the store behind the cache's back; the stale copy must be
	// served until the next write invalidates it.
	repo.records["SKU-1"].POQuantity = 999

	second, err := uc.GetStockSummary(ctx, "SKU-1")
	require.NoError(t, err)
	assert.Equal(t, first.POQuantity, second.POQuantity)
}

func TestApplyInvalidatesSummaryCacheBeforeReturning(t *testing.T) {
	repo := newFakeRepo()
	cache := newFakeSummaryCache()
	uc := NewLedgerUseCase(repo, cache, nil, zap.NewNop())
	ctx := context.Background()

	_, err := uc.Apply(ctx, &dto.ApplyInput{SKU: "SKU-1", Operation: model.OperationPO, Delta: 10})
	require.NoError(t, err)

	_, err = uc.GetStockSummary(ctx, "SKU-1")
	require.NoError(t, err)
	require.True(t, cache.has("stock:summary:SKU-1"))

	_, err = uc.Apply(ctx, &dto.ApplyInput{SKU: "SKU-1", Operation: model.OperationPO, Delta: 5})
	require.NoError(t, err)

	// The key is gone the moment Apply returns; a read racing the write
	// can only re-populate with post-commit counters.
	assert.False(t, cache.has("stock:summary:SKU-1"))
	assert.Contains(t, cache.dels, "stock:summary:SKU-1")

	summary, err := uc.GetStockSummary(ctx, "SKU-1")
	require.NoError(t, err)
	assert.Equal(t, int64(15), summary.POQuantity)
}

func TestTransferInvalidatesSummaryCacheBeforeReturning(t *testing.T) {
	repo := newFakeRepo()
	cache := newFakeSummaryCache()
	uc := NewLedgerUseCase(repo, cache, nil, zap.NewNop())
	ctx := context.Background()

	_, err := uc.Apply(ctx, &dto.ApplyInput{SKU: "SKU-1", Operation: model.OperationPutaway, Delta: 50})
	require.NoError(t, err)

	_, err = uc.GetStockSummary(ctx, "SKU-1")
	require.NoError(t, err)
	require.True(t, cache.has("stock:summary:SKU-1"))

	_, err = uc.Transfer(ctx, &dto.TransferInput{SKU: "SKU-1", Quantity: 20, ReferenceID: "wave-1"})
	require.NoError(t, err)

	assert.False(t, cache.has("stock:summary:SKU-1"))

	summary, err := uc.GetStockSummary(ctx, "SKU-1")
	require.NoError(t, err)
	assert.Equal(t, int64(30), summary.PutawayQuantity)
	assert.Equal(t, int64(20), summary.PicklistQuantity)
}
