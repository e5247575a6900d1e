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

func (r *PGRepository) CreateTask(ctx context.Context, task *model.PutawayTask) error {
	_, err := r.DB.NamedExecContext(ctx, `
		INSERT INTO putaway_tasks (
			id, sku, quantity, receipt_id, status,
			completed_by, completed_at, created_at, updated_at
		)
		VALUES (
			:id, :sku, :quantity, :receipt_id, :status,
			:completed_by, :completed_at, :created_at, :updated_at
		)
	`, task)
	return err
}

func (r *PGRepository) GetTask(ctx context.Context, id string) (*model.PutawayTask, error) {
	var task model.PutawayTask
	err := r.DB.GetContext(ctx, &task, `SELECT * FROM putaway_tasks WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

func (r *PGRepository) UpdateTask(ctx context.Context, task *model.PutawayTask) error {
	_, err := r.DB.NamedExecContext(ctx, `
		UPDATE putaway_tasks SET
			status = :status,
			completed_by = :completed_by,
			completed_at = :completed_at,
			updated_at = :updated_at
		WHERE id = :id
	`, task)
	return err
}

func (r *PGRepository) ListTasks(ctx context.Context, status model.PutawayTaskStatus, page, pageSize int) ([]model.PutawayTask, int, error) {
	where := ""
	args := []interface{}{}
	if status != "" {
		where = " WHERE status = $1"
		args = append(args, status)
	}

	var count int
	if err := r.DB.GetContext(ctx, &count, "SELECT count(*) FROM putaway_tasks"+where, args...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM putaway_tasks" + where + " ORDER BY created_at ASC"
	if pageSize > 0 {
		offset := (page - 1) * pageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, offset)
	}

	tasks := []model.PutawayTask{}
	err := r.DB.SelectContext(ctx, &tasks, query, args...)
	return tasks, count, err
}
