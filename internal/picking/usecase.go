package picking

import (
	"context"

	"github.com/stocklane/warehouse-service/internal/model"
	"github.com/stocklane/warehouse-service/internal/picking/dto"
)

type UseCase interface {
	// CreateWave opens a wave with PENDING allocations and tries to assign
	// the next round-robin picker. When no worker is eligible the wave stays
	// CREATED and unassigned.
	CreateWave(ctx context.Context, input *dto.CreateWaveInput) (*model.Wave, error)

	// AssignWave retries worker assignment for an unassigned wave.
	AssignWave(ctx context.Context, waveID string) (*model.Wave, error)

	// RecordPick books picked quantity: one PICKLIST ledger operation plus
	// the allocation and wave status updates.
	RecordPick(ctx context.Context, input *dto.PickInput) (*model.PicklistAllocation, error)

	// DeallocatePick reverses picked quantity with a negative PICKLIST
	// operation and winds the allocation back.
	DeallocatePick(ctx context.Context, input *dto.PickInput) (*model.PicklistAllocation, error)

	GetWave(ctx context.Context, id string) (*model.Wave, error)
	ListWaves(ctx context.Context, status model.WaveStatus, page, pageSize int) ([]model.Wave, int, error)
	CreateWorker(ctx context.Context, name string, isPicker bool) (*model.Worker, error)
	ListWorkers(ctx context.Context) ([]model.Worker, error)
}
