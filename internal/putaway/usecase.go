package putaway

import (
	"context"
	"time"

	"github.com/stocklane/warehouse-service/internal/model"
	"github.com/stocklane/warehouse-service/internal/putaway/dto"
)

// Locker serializes task completion across workers. Implemented by the redis
// client's SET NX lock.
type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}

type UseCase interface {
	CreateTask(ctx context.Context, input *dto.CreateTaskInput) (*model.PutawayTask, error)

	// CompleteTask shelves the task's quantity: one PUTAWAY ledger
	// operation plus the task state flip.
	CompleteTask(ctx context.Context, taskID, performedBy string) (*model.PutawayTask, error)

	ListTasks(ctx context.Context, status model.PutawayTaskStatus, page, pageSize int) ([]model.PutawayTask, int, error)
}
