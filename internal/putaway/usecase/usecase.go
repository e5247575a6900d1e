package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stocklane/warehouse-service/internal/ledger"
	ledgerdto "github.com/stocklane/warehouse-service/internal/ledger/dto"
	"github.com/stocklane/warehouse-service/internal/model"
	"github.com/stocklane/warehouse-service/internal/putaway"
	"github.com/stocklane/warehouse-service/internal/putaway/dto"
)

type putawayUseCase struct {
	repo     putaway.Repository
	ledgerUC ledger.UseCase
	locker   putaway.Locker
	logger   *zap.Logger
}

func NewPutawayUseCase(repo putaway.Repository, ledgerUC ledger.UseCase, locker putaway.Locker, log *zap.Logger) putaway.UseCase {
	return &putawayUseCase{
		repo:     repo,
		ledgerUC: ledgerUC,
		locker:   locker,
		logger:   log,
	}
}

func (uc *putawayUseCase) CreateTask(ctx context.Context, input *dto.CreateTaskInput) (*model.PutawayTask, error) {
	if input.Quantity <= 0 {
		return nil, putaway.ErrInvalidQuantity
	}

	now := time.Now().UTC()
	task := &model.PutawayTask{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		SKU:       input.SKU,
		Quantity:  input.Quantity,
		Status:    model.PutawayOpen,
	}
	if input.ReceiptID != "" {
		task.ReceiptID = &input.ReceiptID
	}

	if err := uc.repo.CreateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (uc *putawayUseCase) CompleteTask(ctx context.Context, taskID, performedBy string) (*model.PutawayTask, error) {
	// One completion per task at a time: two scanners finishing the same
	// task must not double-book the PUTAWAY quantity.
	lockKey := "lock:putaway:" + taskID
	lockValue := uuid.New().String()

	acquired := false
	for i := 0; i < 3; i++ {
		ok, err := uc.locker.AcquireLock(ctx, lockKey, lockValue, 5*time.Second)
		if err != nil {
			uc.logger.Error("failed to acquire putaway lock", zap.Error(err))
		}
		if ok {
			acquired = true
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if !acquired {
		return nil, putaway.ErrTaskBusy
	}
	defer uc.locker.ReleaseLock(ctx, lockKey, lockValue)

	task, err := uc.repo.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("%w: %s", putaway.ErrTaskNotFound, taskID)
	}
	if task.Status == model.PutawayCompleted {
		return nil, putaway.ErrTaskCompleted
	}

	_, err = uc.ledgerUC.Apply(ctx, &ledgerdto.ApplyInput{
		SKU:         task.SKU,
		Operation:   model.OperationPutaway,
		Delta:       task.Quantity,
		ReferenceID: task.ID,
		Details:     map[string]interface{}{"receipt_id": task.ReceiptID},
		PerformedBy: performedBy,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task.Status = model.PutawayCompleted
	task.CompletedAt = &now
	task.UpdatedAt = now
	if performedBy != "" {
		task.CompletedBy = &performedBy
	}

	if err := uc.repo.UpdateTask(ctx, task); err != nil {
		// The ledger operation committed; the task flip must be retried or
		// reconciled manually from the audit trail.
		uc.logger.Error("putaway recorded but task update failed",
			zap.String("task_id", task.ID),
			zap.String("sku", task.SKU),
			zap.Error(err),
		)
		return nil, err
	}

	return task, nil
}

func (uc *putawayUseCase) ListTasks(ctx context.Context, status model.PutawayTaskStatus, page, pageSize int) ([]model.PutawayTask, int, error) {
	return uc.repo.ListTasks(ctx, status, page, pageSize)
}
