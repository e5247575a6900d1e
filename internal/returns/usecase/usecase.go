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
	"github.com/stocklane/warehouse-service/internal/returns"
	"github.com/stocklane/warehouse-service/internal/returns/dto"
)

type returnsUseCase struct {
	repo     returns.Repository
	ledgerUC ledger.UseCase
	logger   *zap.Logger
}

func NewReturnsUseCase(repo returns.Repository, ledgerUC ledger.UseCase, log *zap.Logger) returns.UseCase {
	return &returnsUseCase{
		repo:     repo,
		ledgerUC: ledgerUC,
		logger:   log,
	}
}

func (uc *returnsUseCase) RecordReturn(ctx context.Context, input *dto.RecordReturnInput) (*model.ReturnOrder, error) {
	if !input.Type.Valid() {
		return nil, returns.ErrInvalidReturnType
	}
	if input.Quantity <= 0 {
		return nil, returns.ErrInvalidQuantity
	}

	now := time.Now().UTC()
	ret := &model.ReturnOrder{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		SKU:       input.SKU,
		Quantity:  input.Quantity,
		Type:      input.Type,
	}
	if input.OrderRef != "" {
		ret.OrderRef = &input.OrderRef
	}
	if input.ReceivedBy != "" {
		ret.ReceivedBy = &input.ReceivedBy
	}

	if err := uc.repo.Create(ctx, ret); err != nil {
		return nil, err
	}

	_, err := uc.ledgerUC.Apply(ctx, &ledgerdto.ApplyInput{
		SKU:         input.SKU,
		Operation:   input.Type.Operation(),
		Delta:       input.Quantity,
		ReferenceID: ret.ID,
		Details: map[string]interface{}{
			"order_ref":   ret.OrderRef,
			"return_type": input.Type,
		},
		PerformedBy: input.ReceivedBy,
	})
	if err != nil {
		uc.logger.Error("return stored but ledger booking failed",
			zap.String("return_id", ret.ID),
			zap.String("sku", input.SKU),
			zap.Error(err),
		)
		return nil, err
	}

	return ret, nil
}

func (uc *returnsUseCase) GetReturn(ctx context.Context, id string) (*model.ReturnOrder, error) {
	ret, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, fmt.Errorf("%w: %s", returns.ErrReturnNotFound, id)
	}
	return ret, nil
}

func (uc *returnsUseCase) ListReturns(ctx context.Context, page, pageSize int) ([]model.ReturnOrder, int, error) {
	return uc.repo.List(ctx, page, pageSize)
}
