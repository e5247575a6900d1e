package receiving

import (
	"context"

	"github.com/stocklane/warehouse-service/internal/model"
	"github.com/stocklane/warehouse-service/internal/receiving/dto"
)

type UseCase interface {
	CreateReceipt(ctx context.Context, input *dto.CreateReceiptInput) (*model.Receipt, error)

	// RecordLine stores the observed quantities for one line, reclassifies
	// line and receipt status, and books the accepted quantity on the GRN
	// counter.
	RecordLine(ctx context.Context, input *dto.RecordLineInput) (*model.ReceiptLine, error)

	GetReceipt(ctx context.Context, id string) (*model.Receipt, error)
	ListReceipts(ctx context.Context, page, pageSize int) ([]model.Receipt, int, error)
}
