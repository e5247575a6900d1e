package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/stocklane/warehouse-service/internal/dispatch"
	"github.com/stocklane/warehouse-service/internal/ledger"
	ledgerdto "github.com/stocklane/warehouse-service/internal/ledger/dto"
	"github.com/stocklane/warehouse-service/internal/model"
	"github.com/stocklane/warehouse-service/internal/picking"
)

type dispatchUseCase struct {
	waves    picking.Repository
	ledgerUC ledger.UseCase
	logger   *zap.Logger
}

func NewDispatchUseCase(waves picking.Repository, ledgerUC ledger.UseCase, log *zap.Logger) dispatch.UseCase {
	return &dispatchUseCase{
		waves:    waves,
		ledgerUC: ledgerUC,
		logger:   log,
	}
}

func (uc *dispatchUseCase) DispatchWave(ctx context.Context, waveID, performedBy string) (*model.Wave, error) {
	wave, err := uc.waves.GetWave(ctx, waveID)
	if err != nil {
		return nil, err
	}
	if wave == nil {
		return nil, fmt.Errorf("%w: %s", dispatch.ErrWaveNotFound, waveID)
	}
	if wave.Status == model.WaveDispatched {
		return nil, dispatch.ErrAlreadyDispatched
	}
	if wave.Status != model.WavePicked {
		return nil, fmt.Errorf("%w: wave %s is %s", dispatch.ErrWaveNotPicked, waveID, wave.Status)
	}

	// Each SKU's transfer is a single transaction: the picklist increment
	// and the putaway decrement commit together or not at all, so a crash
	// mid-wave leaves no half-transferred SKU behind.
	for _, alloc := range wave.Allocations {
		if alloc.PickedQty == 0 {
			continue
		}

		_, err := uc.ledgerUC.Transfer(ctx, &ledgerdto.TransferInput{
			SKU:         alloc.SKU,
			Quantity:    alloc.PickedQty,
			ReferenceID: wave.ID,
			Details: map[string]interface{}{
				"order_id":      wave.OrderID,
				"allocation_id": alloc.ID,
			},
			PerformedBy: performedBy,
		})
		if err != nil {
			uc.logger.Error("dispatch transfer failed",
				zap.String("wave_id", wave.ID),
				zap.String("sku", alloc.SKU),
				zap.Int64("quantity", alloc.PickedQty),
				zap.Error(err),
			)
			return nil, fmt.Errorf("dispatch of wave %s stopped at sku %s: %w", wave.ID, alloc.SKU, err)
		}
	}

	now := time.Now().UTC()
	wave.Status = model.WaveDispatched
	wave.DispatchedAt = &now
	wave.UpdatedAt = now
	if err := uc.waves.UpdateWave(ctx, wave); err != nil {
		// Transfers are committed; the status flip must be retried so the
		// wave is not dispatched twice.
		uc.logger.Error("transfers committed but wave update failed",
			zap.String("wave_id", wave.ID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.logger.Info("wave dispatched",
		zap.String("wave_id", wave.ID),
		zap.String("order_id", wave.OrderID),
	)
	return wave, nil
}
