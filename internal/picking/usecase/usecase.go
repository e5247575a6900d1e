package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stocklane/warehouse-service/internal/ledger"
	ledgerdto "github.com/stocklane/warehouse-service/internal/ledger/dto"
	"github.com/stocklane/warehouse-service/internal/model"
	"github.com/stocklane/warehouse-service/internal/picking"
	"github.com/stocklane/warehouse-service/internal/picking/dto"
)

type pickingUseCase struct {
	repo     picking.Repository
	ledgerUC ledger.UseCase
	logger   *zap.Logger
}

func NewPickingUseCase(repo picking.Repository, ledgerUC ledger.UseCase, log *zap.Logger) picking.UseCase {
	return &pickingUseCase{
		repo:     repo,
		ledgerUC: ledgerUC,
		logger:   log,
	}
}

func (uc *pickingUseCase) CreateWave(ctx context.Context, input *dto.CreateWaveInput) (*model.Wave, error) {
	if len(input.Items) == 0 {
		return nil, picking.ErrNoItems
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, picking.ErrInvalidQuantity
		}
	}

	now := time.Now().UTC()
	wave := &model.Wave{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		OrderID:   input.OrderID,
		Status:    model.WaveCreated,
	}

	allocations := make([]model.PicklistAllocation, len(input.Items))
	for i, item := range input.Items {
		allocations[i] = model.PicklistAllocation{
			BaseModel:    model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
			WaveID:       wave.ID,
			SKU:          item.SKU,
			RequestedQty: item.Quantity,
			Status:       model.AllocationPending,
		}
	}

	if err := uc.repo.CreateWave(ctx, wave, allocations); err != nil {
		return nil, err
	}
	wave.Allocations = allocations

	if err := uc.assign(ctx, wave); err != nil {
		if errors.Is(err, picking.ErrNoEligibleWorker) {
			// The wave stands unassigned; assignment can be retried once a
			// picker comes on shift.
			uc.logger.Warn("no eligible picker for wave", zap.String("wave_id", wave.ID))
			return wave, nil
		}
		return nil, err
	}

	return wave, nil
}

func (uc *pickingUseCase) AssignWave(ctx context.Context, waveID string) (*model.Wave, error) {
	wave, err := uc.getWave(ctx, waveID)
	if err != nil {
		return nil, err
	}
	if wave.AssignedWorkerID != nil {
		return nil, picking.ErrWaveAssigned
	}

	if err := uc.assign(ctx, wave); err != nil {
		return nil, err
	}
	return wave, nil
}

func (uc *pickingUseCase) assign(ctx context.Context, wave *model.Wave) error {
	workers, err := uc.repo.ListWorkers(ctx)
	if err != nil {
		return err
	}
	lastAssigned, err := uc.repo.LastAssignedWorkerID(ctx)
	if err != nil {
		return err
	}

	workerID, err := picking.NextEligibleWorker(workers, lastAssigned)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	wave.AssignedWorkerID = &workerID
	wave.AssignedAt = &now
	wave.Status = model.WaveAssigned
	wave.UpdatedAt = now

	if err := uc.repo.UpdateWave(ctx, wave); err != nil {
		return err
	}

	uc.logger.Info("wave assigned",
		zap.String("wave_id", wave.ID),
		zap.String("worker_id", workerID),
	)
	return nil
}

func (uc *pickingUseCase) RecordPick(ctx context.Context, input *dto.PickInput) (*model.PicklistAllocation, error) {
	if input.Quantity <= 0 {
		return nil, picking.ErrInvalidQuantity
	}

	wave, err := uc.getWave(ctx, input.WaveID)
	if err != nil {
		return nil, err
	}
	if wave.Status != model.WaveAssigned && wave.Status != model.WavePicking {
		return nil, fmt.Errorf("%w: %s", picking.ErrWaveNotPickable, wave.Status)
	}

	alloc, err := uc.repo.GetAllocation(ctx, input.WaveID, input.SKU)
	if err != nil {
		return nil, err
	}
	if alloc == nil {
		return nil, fmt.Errorf("%w: %s/%s", picking.ErrAllocationNotFound, input.WaveID, input.SKU)
	}
	if alloc.PickedQty+input.Quantity > alloc.RequestedQty {
		return nil, picking.ErrAllocationExceeded
	}

	// Advisory pre-check only: the summary can be stale the moment it
	// returns. The ledger's own floor stays the authoritative guard.
	summary, err := uc.ledgerUC.GetStockSummary(ctx, input.SKU)
	if err != nil && !errors.Is(err, ledger.ErrSKUNotFound) {
		return nil, err
	}
	if summary == nil || summary.TotalAvailable < input.Quantity {
		return nil, fmt.Errorf("%w: sku %s", picking.ErrNotEnoughAvailable, input.SKU)
	}

	_, err = uc.ledgerUC.Apply(ctx, &ledgerdto.ApplyInput{
		SKU:         input.SKU,
		Operation:   model.OperationPicklist,
		Delta:       input.Quantity,
		ReferenceID: wave.ID,
		Details: map[string]interface{}{
			"order_id":      wave.OrderID,
			"allocation_id": alloc.ID,
		},
		PerformedBy: input.PerformedBy,
	})
	if err != nil {
		return nil, err
	}

	alloc.PickedQty += input.Quantity
	alloc.Status = allocationStatus(alloc)
	alloc.UpdatedAt = time.Now().UTC()
	if err := uc.repo.UpdateAllocation(ctx, alloc); err != nil {
		uc.logger.Error("pick recorded but allocation update failed",
			zap.String("wave_id", wave.ID),
			zap.String("sku", input.SKU),
			zap.Error(err),
		)
		return nil, err
	}

	if err := uc.refreshWaveStatus(ctx, wave); err != nil {
		return nil, err
	}
	return alloc, nil
}

func (uc *pickingUseCase) DeallocatePick(ctx context.Context, input *dto.PickInput) (*model.PicklistAllocation, error) {
	if input.Quantity <= 0 {
		return nil, picking.ErrInvalidQuantity
	}

	wave, err := uc.getWave(ctx, input.WaveID)
	if err != nil {
		return nil, err
	}

	alloc, err := uc.repo.GetAllocation(ctx, input.WaveID, input.SKU)
	if err != nil {
		return nil, err
	}
	if alloc == nil {
		return nil, fmt.Errorf("%w: %s/%s", picking.ErrAllocationNotFound, input.WaveID, input.SKU)
	}
	if input.Quantity > alloc.PickedQty {
		return nil, picking.ErrAllocationExceeded
	}

	_, err = uc.ledgerUC.Apply(ctx, &ledgerdto.ApplyInput{
		SKU:         input.SKU,
		Operation:   model.OperationPicklist,
		Delta:       -input.Quantity,
		ReferenceID: wave.ID,
		Details: map[string]interface{}{
			"order_id":      wave.OrderID,
			"allocation_id": alloc.ID,
			"deallocation":  true,
		},
		PerformedBy: input.PerformedBy,
	})
	if err != nil {
		return nil, err
	}

	alloc.PickedQty -= input.Quantity
	alloc.Status = allocationStatus(alloc)
	alloc.UpdatedAt = time.Now().UTC()
	if err := uc.repo.UpdateAllocation(ctx, alloc); err != nil {
		return nil, err
	}

	if err := uc.refreshWaveStatus(ctx, wave); err != nil {
		return nil, err
	}
	return alloc, nil
}

// refreshWaveStatus derives the wave status from its allocations: PICKED
// when every allocation is fully picked, PICKING otherwise.
func (uc *pickingUseCase) refreshWaveStatus(ctx context.Context, wave *model.Wave) error {
	allocations, err := uc.repo.ListAllocations(ctx, wave.ID)
	if err != nil {
		return err
	}

	status := model.WavePicked
	for _, a := range allocations {
		if a.Status != model.AllocationPicked {
			status = model.WavePicking
			break
		}
	}

	if status == wave.Status {
		return nil
	}
	wave.Status = status
	wave.UpdatedAt = time.Now().UTC()
	return uc.repo.UpdateWave(ctx, wave)
}

func allocationStatus(alloc *model.PicklistAllocation) model.AllocationStatus {
	switch {
	case alloc.PickedQty == 0:
		return model.AllocationPending
	case alloc.PickedQty < alloc.RequestedQty:
		return model.AllocationPartial
	default:
		return model.AllocationPicked
	}
}

func (uc *pickingUseCase) getWave(ctx context.Context, id string) (*model.Wave, error) {
	wave, err := uc.repo.GetWave(ctx, id)
	if err != nil {
		return nil, err
	}
	if wave == nil {
		return nil, fmt.Errorf("%w: %s", picking.ErrWaveNotFound, id)
	}
	return wave, nil
}

func (uc *pickingUseCase) GetWave(ctx context.Context, id string) (*model.Wave, error) {
	return uc.getWave(ctx, id)
}

func (uc *pickingUseCase) ListWaves(ctx context.Context, status model.WaveStatus, page, pageSize int) ([]model.Wave, int, error) {
	return uc.repo.ListWaves(ctx, status, page, pageSize)
}

func (uc *pickingUseCase) CreateWorker(ctx context.Context, name string, isPicker bool) (*model.Worker, error) {
	now := time.Now().UTC()
	worker := &model.Worker{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:      name,
		IsActive:  true,
		IsPicker:  isPicker,
	}
	if err := uc.repo.CreateWorker(ctx, worker); err != nil {
		return nil, err
	}
	return worker, nil
}

func (uc *pickingUseCase) ListWorkers(ctx context.Context) ([]model.Worker, error) {
	return uc.repo.ListWorkers(ctx)
}
