package picking

import (
	"context"

	"github.com/stocklane/warehouse-service/internal/model"
)

type Repository interface {
	// Waves
	CreateWave(ctx context.Context, wave *model.Wave, allocations []model.PicklistAllocation) error
	GetWave(ctx context.Context, id string) (*model.Wave, error)
	UpdateWave(ctx context.Context, wave *model.Wave) error
	ListWaves(ctx context.Context, status model.WaveStatus, page, pageSize int) ([]model.Wave, int, error)

	// Allocations
	GetAllocation(ctx context.Context, waveID, sku string) (*model.PicklistAllocation, error)
	ListAllocations(ctx context.Context, waveID string) ([]model.PicklistAllocation, error)
	UpdateAllocation(ctx context.Context, alloc *model.PicklistAllocation) error

	// Workers
	ListWorkers(ctx context.Context) ([]model.Worker, error)
	CreateWorker(ctx context.Context, worker *model.Worker) error

	// LastAssignedWorkerID returns the worker who received the most recently
	// time-stamped wave assignment, or "" when no assignment exists.
	LastAssignedWorkerID(ctx context.Context) (string, error)
}
