package returns

import (
	"context"

	"github.com/stocklane/warehouse-service/internal/model"
	"github.com/stocklane/warehouse-service/internal/returns/dto"
)

type UseCase interface {
	// RecordReturn books the returned quantity on the try-and-buy or other
	// return counter and stores the return order.
	RecordReturn(ctx context.Context, input *dto.RecordReturnInput) (*model.ReturnOrder, error)

	GetReturn(ctx context.Context, id string) (*model.ReturnOrder, error)
	ListReturns(ctx context.Context, page, pageSize int) ([]model.ReturnOrder, int, error)
}
