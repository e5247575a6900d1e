package receiving

import (
	"context"

	"github.com/stocklane/warehouse-service/internal/model"
)

type Repository interface {
	CreateReceipt(ctx context.Context, receipt *model.Receipt, lines []model.ReceiptLine) error
	GetReceipt(ctx context.Context, id string) (*model.Receipt, error)
	GetLine(ctx context.Context, lineID string) (*model.ReceiptLine, error)
	ListLines(ctx context.Context, receiptID string) ([]model.ReceiptLine, error)
	UpdateLine(ctx context.Context, line *model.ReceiptLine) error
	UpdateReceiptStatus(ctx context.Context, receiptID string, status model.ReceiptStatus) error
	ListReceipts(ctx context.Context, page, pageSize int) ([]model.Receipt, int, error)
}
