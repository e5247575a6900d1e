package putaway

import (
	"context"

	"github.com/stocklane/warehouse-service/internal/model"
)

type Repository interface {
	CreateTask(ctx context.Context, task *model.PutawayTask) error
	GetTask(ctx context.Context, id string) (*model.PutawayTask, error)
	UpdateTask(ctx context.Context, task *model.PutawayTask) error
	ListTasks(ctx context.Context, status model.PutawayTaskStatus, page, pageSize int) ([]model.PutawayTask, int, error)
}
