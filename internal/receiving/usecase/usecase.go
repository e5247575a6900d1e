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
	"github.com/stocklane/warehouse-service/internal/receiving"
	"github.com/stocklane/warehouse-service/internal/receiving/dto"
)

type receivingUseCase struct {
	repo     receiving.Repository
	ledgerUC ledger.UseCase
	logger   *zap.Logger
}

func NewReceivingUseCase(repo receiving.Repository, ledgerUC ledger.UseCase, log *zap.Logger) receiving.UseCase {
	return &receivingUseCase{
		repo:     repo,
		ledgerUC: ledgerUC,
		logger:   log,
	}
}

func (uc *receivingUseCase) CreateReceipt(ctx context.Context, input *dto.CreateReceiptInput) (*model.Receipt, error) {
	if len(input.Lines) == 0 {
		return nil, receiving.ErrNoLines
	}
	for _, l := range input.Lines {
		if l.OrderedQty < 0 {
			return nil, receiving.ErrInvalidQuantity
		}
	}

	now := time.Now().UTC()
	receipt := &model.Receipt{
		BaseModel:       model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		PurchaseOrderID: input.PurchaseOrderID,
		Status:          model.ReceiptPending,
	}
	if input.SupplierRef != "" {
		receipt.SupplierRef = &input.SupplierRef
	}

	lines := make([]model.ReceiptLine, len(input.Lines))
	for i, l := range input.Lines {
		lines[i] = model.ReceiptLine{
			BaseModel:  model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
			ReceiptID:  receipt.ID,
			SKU:        l.SKU,
			OrderedQty: l.OrderedQty,
			Status:     receiving.ClassifyLine(l.OrderedQty, 0, 0),
		}
	}

	if err := uc.repo.CreateReceipt(ctx, receipt, lines); err != nil {
		return nil, err
	}
	receipt.Lines = lines

	// Book the ordered quantities on the PO counter. Each line is its own
	// ledger operation so the audit trail stays per-SKU.
	for _, line := range lines {
		if line.OrderedQty == 0 {
			continue
		}
		_, err := uc.ledgerUC.Apply(ctx, &ledgerdto.ApplyInput{
			SKU:         line.SKU,
			Operation:   model.OperationPO,
			Delta:       line.OrderedQty,
			ReferenceID: receipt.ID,
			Details: map[string]interface{}{
				"line_id":           line.ID,
				"purchase_order_id": input.PurchaseOrderID,
			},
			PerformedBy: input.CreatedBy,
		})
		if err != nil {
			uc.logger.Error("failed to book PO quantity",
				zap.String("receipt_id", receipt.ID),
				zap.String("sku", line.SKU),
				zap.Error(err),
			)
			return nil, err
		}
	}

	return receipt, nil
}

func (uc *receivingUseCase) RecordLine(ctx context.Context, input *dto.RecordLineInput) (*model.ReceiptLine, error) {
	if input.RejectedQty < 0 || input.QCPassQty < 0 || input.ReceivedQty < 0 {
		return nil, receiving.ErrInvalidQuantity
	}

	line, err := uc.repo.GetLine(ctx, input.LineID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, fmt.Errorf("%w: %s", receiving.ErrLineNotFound, input.LineID)
	}

	// The ledger write goes first: if it fails, the line keeps its previous
	// quantities and the event can be retried as a whole.
	if input.ReceivedQty > 0 {
		_, err := uc.ledgerUC.Apply(ctx, &ledgerdto.ApplyInput{
			SKU:         line.SKU,
			Operation:   model.OperationGRN,
			Delta:       input.ReceivedQty,
			ReferenceID: line.ReceiptID,
			Details: map[string]interface{}{
				"line_id":      line.ID,
				"qc_pass_qty":  input.QCPassQty,
				"rejected_qty": input.RejectedQty,
			},
			PerformedBy: input.PerformedBy,
		})
		if err != nil {
			return nil, err
		}
	}

	line.RejectedQty = input.RejectedQty
	line.QCPassQty = input.QCPassQty
	line.ReceivedQty = input.ReceivedQty
	line.Status = receiving.ClassifyLine(line.OrderedQty, line.RejectedQty, line.QCPassQty)
	line.UpdatedAt = time.Now().UTC()

	if err := uc.repo.UpdateLine(ctx, line); err != nil {
		return nil, err
	}

	if err := uc.reclassifyReceipt(ctx, line.ReceiptID); err != nil {
		uc.logger.Error("failed to reclassify receipt",
			zap.String("receipt_id", line.ReceiptID),
			zap.Error(err),
		)
		return nil, err
	}

	return line, nil
}

// reclassifyReceipt recomputes the aggregate receipt status from the current
// line statuses. Status is always derived, never edited directly.
func (uc *receivingUseCase) reclassifyReceipt(ctx context.Context, receiptID string) error {
	lines, err := uc.repo.ListLines(ctx, receiptID)
	if err != nil {
		return err
	}

	statuses := make([]model.LineStatus, len(lines))
	for i, l := range lines {
		statuses[i] = l.Status
	}

	return uc.repo.UpdateReceiptStatus(ctx, receiptID, receiving.ClassifyReceipt(statuses))
}

func (uc *receivingUseCase) GetReceipt(ctx context.Context, id string) (*model.Receipt, error) {
	receipt, err := uc.repo.GetReceipt(ctx, id)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, fmt.Errorf("%w: %s", receiving.ErrReceiptNotFound, id)
	}
	return receipt, nil
}

func (uc *receivingUseCase) ListReceipts(ctx context.Context, page, pageSize int) ([]model.Receipt, int, error) {
	return uc.repo.ListReceipts(ctx, page, pageSize)
}
