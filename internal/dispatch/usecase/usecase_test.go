package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stocklane/warehouse-service/internal/dispatch"
	"github.com/stocklane/warehouse-service/internal/ledger"
	ledgerdto "github.com/stocklane/warehouse-service/internal/ledger/dto"
	"github.com/stocklane/warehouse-service/internal/model"
)

type mockWaveRepo struct {
	mock.Mock
}

func (m *mockWaveRepo) CreateWave(ctx context.Context, wave *model.Wave, allocations []model.PicklistAllocation) error {
	args := m.Called(ctx, wave, allocations)
	return args.Error(0)
}

func (m *mockWaveRepo) GetWave(ctx context.Context, id string) (*model.Wave, error) {
	args := m.Called(ctx, id)
	wave, _ := args.Get(0).(*model.Wave)
	return wave, args.Error(1)
}

func (m *mockWaveRepo) UpdateWave(ctx context.Context, wave *model.Wave) error {
	args := m.Called(ctx, wave)
	return args.Error(0)
}

func (m *mockWaveRepo) ListWaves(ctx context.Context, status model.WaveStatus, page, pageSize int) ([]model.Wave, int, error) {
	args := m.Called(ctx, status, page, pageSize)
	return args.Get(0).([]model.Wave), args.Int(1), args.Error(2)
}

func (m *mockWaveRepo) GetAllocation(ctx context.Context, waveID, sku string) (*model.PicklistAllocation, error) {
	args := m.Called(ctx, waveID, sku)
	alloc, _ := args.Get(0).(*model.PicklistAllocation)
	return alloc, args.Error(1)
}

func (m *mockWaveRepo) ListAllocations(ctx context.Context, waveID string) ([]model.PicklistAllocation, error) {
	args := m.Called(ctx, waveID)
	return args.Get(0).([]model.PicklistAllocation), args.Error(1)
}

func (m *mockWaveRepo) UpdateAllocation(ctx context.Context, alloc *model.PicklistAllocation) error {
	args := m.Called(ctx, alloc)
	return args.Error(0)
}

func (m *mockWaveRepo) ListWorkers(ctx context.Context) ([]model.Worker, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Worker), args.Error(1)
}

func (m *mockWaveRepo) CreateWorker(ctx context.Context, worker *model.Worker) error {
	args := m.Called(ctx, worker)
	return args.Error(0)
}

func (m *mockWaveRepo) LastAssignedWorkerID(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type mockLedgerUC struct {
	mock.Mock
}

func (m *mockLedgerUC) Apply(ctx context.Context, input *ledgerdto.ApplyInput) (*ledgerdto.ApplyResult, error) {
	args := m.Called(ctx, input)
	res, _ := args.Get(0).(*ledgerdto.ApplyResult)
	return res, args.Error(1)
}

func (m *mockLedgerUC) Transfer(ctx context.Context, input *ledgerdto.TransferInput) (*ledgerdto.ApplyResult, error) {
	args := m.Called(ctx, input)
	res, _ := args.Get(0).(*ledgerdto.ApplyResult)
	return res, args.Error(1)
}

func (m *mockLedgerUC) GetStockSummary(ctx context.Context, sku string) (*ledgerdto.StockSummary, error) {
	args := m.Called(ctx, sku)
	res, _ := args.Get(0).(*ledgerdto.StockSummary)
	return res, args.Error(1)
}

func (m *mockLedgerUC) ListEntries(ctx context.Context, filters *ledgerdto.EntryFilters) ([]model.StockLedgerEntry, int, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]model.StockLedgerEntry), args.Int(1), args.Error(2)
}

func pickedWave(id string, allocations ...model.PicklistAllocation) *model.Wave {
	return &model.Wave{
		BaseModel:   model.BaseModel{ID: id},
		OrderID:     "order-1",
		Status:      model.WavePicked,
		Allocations: allocations,
	}
}

func TestDispatchWaveHappyPath(t *testing.T) {
	waves := new(mockWaveRepo)
	ledgerUC := new(mockLedgerUC)
	uc := NewDispatchUseCase(waves, ledgerUC, zap.NewNop())

	wave := pickedWave("wave-1",
		model.PicklistAllocation{BaseModel: model.BaseModel{ID: "a1"}, WaveID: "wave-1", SKU: "SKU-1", PickedQty: 5},
		model.PicklistAllocation{BaseModel: model.BaseModel{ID: "a2"}, WaveID: "wave-1", SKU: "SKU-2", PickedQty: 0},
		model.PicklistAllocation{BaseModel: model.BaseModel{ID: "a3"}, WaveID: "wave-1", SKU: "SKU-3", PickedQty: 2},
	)

	waves.On("GetWave", mock.Anything, "wave-1").Return(wave, nil)
	waves.On("UpdateWave", mock.Anything, mock.AnythingOfType("*model.Wave")).Return(nil)
	ledgerUC.On("Transfer", mock.Anything, mock.MatchedBy(func(in *ledgerdto.TransferInput) bool {
		return in.SKU == "SKU-1" && in.Quantity == 5 && in.ReferenceID == "wave-1"
	})).Return(&ledgerdto.ApplyResult{}, nil)
	ledgerUC.On("Transfer", mock.Anything, mock.MatchedBy(func(in *ledgerdto.TransferInput) bool {
		return in.SKU == "SKU-3" && in.Quantity == 2
	})).Return(&ledgerdto.ApplyResult{}, nil)

	got, err := uc.DispatchWave(context.Background(), "wave-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, model.WaveDispatched, got.Status)
	require.NotNil(t, got.DispatchedAt)

	// Zero-pick allocations never reach the ledger.
	ledgerUC.AssertNumberOfCalls(t, "Transfer", 2)
	waves.AssertExpectations(t)
	ledgerUC.AssertExpectations(t)
}

func TestDispatchWaveNotFound(t *testing.T) {
	waves := new(mockWaveRepo)
	uc := NewDispatchUseCase(waves, new(mockLedgerUC), zap.NewNop())

	waves.On("GetWave", mock.Anything, "missing").Return(nil, nil)

	_, err := uc.DispatchWave(context.Background(), "missing", "user-1")
	assert.ErrorIs(t, err, dispatch.ErrWaveNotFound)
}

func TestDispatchWaveRejectsWrongStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  model.WaveStatus
		wantErr error
	}{
		{"already dispatched", model.WaveDispatched, dispatch.ErrAlreadyDispatched},
		{"still picking", model.WavePicking, dispatch.ErrWaveNotPicked},
		{"just created", model.WaveCreated, dispatch.ErrWaveNotPicked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			waves := new(mockWaveRepo)
			ledgerUC := new(mockLedgerUC)
			uc := NewDispatchUseCase(waves, ledgerUC, zap.NewNop())

			wave := pickedWave("wave-1")
			wave.Status = tt.status
			waves.On("GetWave", mock.Anything, "wave-1").Return(wave, nil)

			_, err := uc.DispatchWave(context.Background(), "wave-1", "user-1")
			assert.ErrorIs(t, err, tt.wantErr)
			ledgerUC.AssertNumberOfCalls(t, "Transfer", 0)
		})
	}
}

func TestDispatchWaveStopsOnTransferFailure(t *testing.T) {
	waves := new(mockWaveRepo)
	ledgerUC := new(mockLedgerUC)
	uc := NewDispatchUseCase(waves, ledgerUC, zap.NewNop())

	wave := pickedWave("wave-1",
		model.PicklistAllocation{BaseModel: model.BaseModel{ID: "a1"}, WaveID: "wave-1", SKU: "SKU-1", PickedQty: 5},
		model.PicklistAllocation{BaseModel: model.BaseModel{ID: "a2"}, WaveID: "wave-1", SKU: "SKU-2", PickedQty: 3},
	)

	waves.On("GetWave", mock.Anything, "wave-1").Return(wave, nil)
	ledgerUC.On("Transfer", mock.Anything, mock.MatchedBy(func(in *ledgerdto.TransferInput) bool {
		return in.SKU == "SKU-1"
	})).Return(nil, errors.New("putaway exhausted"))

	_, err := uc.DispatchWave(context.Background(), "wave-1", "user-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SKU-1")

	// The wave keeps its PICKED status so the dispatch can be retried.
	ledgerUC.AssertNumberOfCalls(t, "Transfer", 1)
	waves.AssertNotCalled(t, "UpdateWave", mock.Anything, mock.Anything)
}

var _ ledger.UseCase = (*mockLedgerUC)(nil)
