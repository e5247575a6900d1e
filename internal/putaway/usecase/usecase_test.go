package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	ledgerdto "github.com/stocklane/warehouse-service/internal/ledger/dto"
	"github.com/stocklane/warehouse-service/internal/model"
	"github.com/stocklane/warehouse-service/internal/putaway"
	"github.com/stocklane/warehouse-service/internal/putaway/dto"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) CreateTask(ctx context.Context, task *model.PutawayTask) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *mockRepo) GetTask(ctx context.Context, id string) (*model.PutawayTask, error) {
	args := m.Called(ctx, id)
	task, _ := args.Get(0).(*model.PutawayTask)
	return task, args.Error(1)
}

func (m *mockRepo) UpdateTask(ctx context.Context, task *model.PutawayTask) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *mockRepo) ListTasks(ctx context.Context, status model.PutawayTaskStatus, page, pageSize int) ([]model.PutawayTask, int, error) {
	args := m.Called(ctx, status, page, pageSize)
	return args.Get(0).([]model.PutawayTask), args.Int(1), args.Error(2)
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

type mockLocker struct {
	mock.Mock
}

func (m *mockLocker) AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *mockLocker) ReleaseLock(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func openTask(id, sku string, qty int64) *model.PutawayTask {
	now := time.Now().UTC()
	return &model.PutawayTask{
		BaseModel: model.BaseModel{ID: id, CreatedAt: now, UpdatedAt: now},
		SKU:       sku,
		Quantity:  qty,
		Status:    model.PutawayOpen,
	}
}

func TestCreateTaskRejectsNonPositiveQuantity(t *testing.T) {
	uc := NewPutawayUseCase(new(mockRepo), new(mockLedgerUC), new(mockLocker), zap.NewNop())

	_, err := uc.CreateTask(context.Background(), &dto.CreateTaskInput{SKU: "SKU-1", Quantity: 0})
	assert.ErrorIs(t, err, putaway.ErrInvalidQuantity)
}

func TestCompleteTaskBooksPutawayQuantity(t *testing.T) {
	repo := new(mockRepo)
	ledgerUC := new(mockLedgerUC)
	locker := new(mockLocker)
	uc := NewPutawayUseCase(repo, ledgerUC, locker, zap.NewNop())

	task := openTask("task-1", "SKU-1", 40)
	locker.On("AcquireLock", mock.Anything, "lock:putaway:task-1", mock.Anything, mock.Anything).Return(true, nil).Once()
	locker.On("ReleaseLock", mock.Anything, "lock:putaway:task-1", mock.Anything).Return(nil).Once()
	repo.On("GetTask", mock.Anything, "task-1").Return(task, nil)
	ledgerUC.On("Apply", mock.Anything, mock.MatchedBy(func(input *ledgerdto.ApplyInput) bool {
		return input.SKU == "SKU-1" &&
			input.Operation == model.OperationPutaway &&
			input.Delta == 40 &&
			input.ReferenceID == "task-1"
	})).Return(&ledgerdto.ApplyResult{SKU: "SKU-1"}, nil)
	repo.On("UpdateTask", mock.Anything, mock.MatchedBy(func(updated *model.PutawayTask) bool {
		return updated.Status == model.PutawayCompleted && updated.CompletedAt != nil
	})).Return(nil)

	completed, err := uc.CompleteTask(context.Background(), "task-1", "worker-1")
	require.NoError(t, err)
	assert.Equal(t, model.PutawayCompleted, completed.Status)
	require.NotNil(t, completed.CompletedBy)
	assert.Equal(t, "worker-1", *completed.CompletedBy)

	repo.AssertExpectations(t)
	ledgerUC.AssertExpectations(t)
	locker.AssertExpectations(t)
}

func TestCompleteTaskBusyAfterExhaustedLockRetries(t *testing.T) {
	repo := new(mockRepo)
	locker := new(mockLocker)
	uc := NewPutawayUseCase(repo, new(mockLedgerUC), locker, zap.NewNop())

	locker.On("AcquireLock", mock.Anything, "lock:putaway:task-1", mock.Anything, mock.Anything).
		Return(false, nil).Times(3)

	_, err := uc.CompleteTask(context.Background(), "task-1", "worker-1")
	assert.ErrorIs(t, err, putaway.ErrTaskBusy)

	// A contended task must be left untouched: no read, no ledger write,
	// and no release of a lock that was never held.
	repo.AssertNotCalled(t, "GetTask", mock.Anything, mock.Anything)
	locker.AssertNotCalled(t, "ReleaseLock", mock.Anything, mock.Anything, mock.Anything)
	locker.AssertExpectations(t)
}

func TestCompleteTaskNotFound(t *testing.T) {
	repo := new(mockRepo)
	locker := new(mockLocker)
	uc := NewPutawayUseCase(repo, new(mockLedgerUC), locker, zap.NewNop())

	locker.On("AcquireLock", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	locker.On("ReleaseLock", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	repo.On("GetTask", mock.Anything, "task-missing").Return(nil, nil)

	_, err := uc.CompleteTask(context.Background(), "task-missing", "worker-1")
	assert.ErrorIs(t, err, putaway.ErrTaskNotFound)
}

func TestCompleteTaskAlreadyCompleted(t *testing.T) {
	repo := new(mockRepo)
	ledgerUC := new(mockLedgerUC)
	locker := new(mockLocker)
	uc := NewPutawayUseCase(repo, ledgerUC, locker, zap.NewNop())

	task := openTask("task-1", "SKU-1", 40)
	task.Status = model.PutawayCompleted
	locker.On("AcquireLock", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	locker.On("ReleaseLock", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	repo.On("GetTask", mock.Anything, "task-1").Return(task, nil)

	_, err := uc.CompleteTask(context.Background(), "task-1", "worker-1")
	assert.ErrorIs(t, err, putaway.ErrTaskCompleted)

	// Completing twice must not double-book the quantity.
	ledgerUC.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything)
}

func TestCompleteTaskLedgerFailureLeavesTaskUntouched(t *testing.T) {
	repo := new(mockRepo)
	ledgerUC := new(mockLedgerUC)
	locker := new(mockLocker)
	uc := NewPutawayUseCase(repo, ledgerUC, locker, zap.NewNop())

	task := openTask("task-1", "SKU-1", 40)
	locker.On("AcquireLock", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	locker.On("ReleaseLock", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	repo.On("GetTask", mock.Anything, "task-1").Return(task, nil)
	ledgerUC.On("Apply", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	_, err := uc.CompleteTask(context.Background(), "task-1", "worker-1")
	require.Error(t, err)

	repo.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything)
}

var _ putaway.Locker = (*mockLocker)(nil)
