package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/stocklane/warehouse-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) CreateWave(ctx context.Context, wave *model.Wave, allocations []model.PicklistAllocation) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO waves (
			id, order_id, status, assigned_worker_id, assigned_at,
			dispatched_at, created_at, updated_at
		)
		VALUES (
			:id, :order_id, :status, :assigned_worker_id, :assigned_at,
			:dispatched_at, :created_at, :updated_at
		)
	`, wave)
	if err != nil {
		return fmt.Errorf("failed to insert wave: %w", err)
	}

	for i := range allocations {
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO picklist_allocations (
				id, wave_id, sku, requested_qty, picked_qty, status,
				created_at, updated_at
			)
			VALUES (
				:id, :wave_id, :sku, :requested_qty, :picked_qty, :status,
				:created_at, :updated_at
			)
		`, &allocations[i])
		if err != nil {
			return fmt.Errorf("failed to insert picklist allocation: %w", err)
		}
	}

	return tx.Commit()
}

func (r *PGRepository) GetWave(ctx context.Context, id string) (*model.Wave, error) {
	var wave model.Wave
	err := r.DB.GetContext(ctx, &wave, `SELECT * FROM waves WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	allocations, err := r.ListAllocations(ctx, id)
	if err != nil {
		return nil, err
	}
	wave.Allocations = allocations
	return &wave, nil
}

func (r *PGRepository) UpdateWave(ctx context.Context, wave *model.Wave) error {
	_, err := r.DB.NamedExecContext(ctx, `
		UPDATE waves SET
			status = :status,
			assigned_worker_id = :assigned_worker_id,
			assigned_at = :assigned_at,
			dispatched_at = :dispatched_at,
			updated_at = :updated_at
		WHERE id = :id
	`, wave)
	return err
}

func (r *PGRepository) ListWaves(ctx context.Context, status model.WaveStatus, page, pageSize int) ([]model.Wave, int, error) {
	where := ""
	args := []interface{}{}
	if status != "" {
		where = " WHERE status = $1"
		args = append(args, status)
	}

	var count int
	if err := r.DB.GetContext(ctx, &count, "SELECT count(*) FROM waves"+where, args...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM waves" + where + " ORDER BY created_at DESC"
	if pageSize > 0 {
		offset := (page - 1) * pageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, offset)
	}

	waves := []model.Wave{}
	err := r.DB.SelectContext(ctx, &waves, query, args...)
	return waves, count, err
}

func (r *PGRepository) GetAllocation(ctx context.Context, waveID, sku string) (*model.PicklistAllocation, error) {
	var alloc model.PicklistAllocation
	err := r.DB.GetContext(ctx, &alloc, `
		SELECT * FROM picklist_allocations WHERE wave_id = $1 AND sku = $2
	`, waveID, sku)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &alloc, nil
}

func (r *PGRepository) ListAllocations(ctx context.Context, waveID string) ([]model.PicklistAllocation, error) {
	allocations := []model.PicklistAllocation{}
	err := r.DB.SelectContext(ctx, &allocations, `
		SELECT * FROM picklist_allocations WHERE wave_id = $1 ORDER BY sku ASC
	`, waveID)
	return allocations, err
}

func (r *PGRepository) UpdateAllocation(ctx context.Context, alloc *model.PicklistAllocation) error {
	_, err := r.DB.NamedExecContext(ctx, `
		UPDATE picklist_allocations SET
			picked_qty = :picked_qty,
			status = :status,
			updated_at = :updated_at
		WHERE id = :id
	`, alloc)
	return err
}

func (r *PGRepository) ListWorkers(ctx context.Context) ([]model.Worker, error) {
	workers := []model.Worker{}
	err := r.DB.SelectContext(ctx, &workers, `SELECT * FROM workers ORDER BY id ASC`)
	return workers, err
}

func (r *PGRepository) CreateWorker(ctx context.Context, worker *model.Worker) error {
	_, err := r.DB.NamedExecContext(ctx, `
		INSERT INTO workers (id, name, is_active, is_picker, created_at, updated_at)
		VALUES (:id, :name, :is_active, :is_picker, :created_at, :updated_at)
	`, worker)
	return err
}

func (r *PGRepository) LastAssignedWorkerID(ctx context.Context) (string, error) {
	var workerID string
	err := r.DB.GetContext(ctx, &workerID, `
		SELECT assigned_worker_id FROM waves
		WHERE assigned_worker_id IS NOT NULL
		ORDER BY assigned_at DESC
		LIMIT 1
	`)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return workerID, nil
}
