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

func (r *PGRepository) Create(ctx context.Context, ret *model.ReturnOrder) error {
	_, err := r.DB.NamedExecContext(ctx, `
		INSERT INTO return_orders (
			id, sku, quantity, return_type, order_ref, received_by,
			created_at, updated_at
		)
		VALUES (
			:id, :sku, :quantity, :return_type, :order_ref, :received_by,
			:created_at, :updated_at
		)
	`, ret)
	return err
}

func (r *PGRepository) GetByID(ctx context.Context, id string) (*model.ReturnOrder, error) {
	var ret model.ReturnOrder
	err := r.DB.GetContext(ctx, &ret, `SELECT * FROM return_orders WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &ret, nil
}

func (r *PGRepository) List(ctx context.Context, page, pageSize int) ([]model.ReturnOrder, int, error) {
	var count int
	if err := r.DB.GetContext(ctx, &count, `SELECT count(*) FROM return_orders`); err != nil {
		return nil, 0, err
	}

	query := `SELECT * FROM return_orders ORDER BY created_at DESC`
	if pageSize > 0 {
		offset := (page - 1) * pageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, offset)
	}

	items := []model.ReturnOrder{}
	err := r.DB.SelectContext(ctx, &items, query)
	return items, count, err
}
