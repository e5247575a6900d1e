package returns

import (
	"context"

	"github.com/stocklane/warehouse-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, ret *model.ReturnOrder) error
	GetByID(ctx context.Context, id string) (*model.ReturnOrder, error)
	List(ctx context.Context, page, pageSize int) ([]model.ReturnOrder, int, error)
}
