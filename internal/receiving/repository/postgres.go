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

func (r *PGRepository) CreateReceipt(ctx context.Context, receipt *model.Receipt, lines []model.ReceiptLine) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO receipts (id, purchase_order_id, supplier_ref, status, created_at, updated_at)
		VALUES (:id, :purchase_order_id, :supplier_ref, :status, :created_at, :updated_at)
	`, receipt)
	if err != nil {
		return fmt.Errorf("failed to insert receipt: %w", err)
	}

	for i := range lines {
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO receipt_lines (
				id, receipt_id, sku, ordered_qty, rejected_qty, qc_pass_qty,
				received_qty, status, created_at, updated_at
			)
			VALUES (
				:id, :receipt_id, :sku, :ordered_qty, :rejected_qty, :qc_pass_qty,
				:received_qty, :status, :created_at, :updated_at
			)
		`, &lines[i])
		if err != nil {
			return fmt.Errorf("failed to insert receipt line: %w", err)
		}
	}

	return tx.Commit()
}

func (r *PGRepository) GetReceipt(ctx context.Context, id string) (*model.Receipt, error) {
	var receipt model.Receipt
	err := r.DB.GetContext(ctx, &receipt, `SELECT * FROM receipts WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	lines, err := r.ListLines(ctx, id)
	if err != nil {
		return nil, err
	}
	receipt.Lines = lines
	return &receipt, nil
}

func (r *PGRepository) GetLine(ctx context.Context, lineID string) (*model.ReceiptLine, error) {
	var line model.ReceiptLine
	err := r.DB.GetContext(ctx, &line, `SELECT * FROM receipt_lines WHERE id = $1`, lineID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &line, nil
}

func (r *PGRepository) ListLines(ctx context.Context, receiptID string) ([]model.ReceiptLine, error) {
	lines := []model.ReceiptLine{}
	err := r.DB.SelectContext(ctx, &lines, `
		SELECT * FROM receipt_lines WHERE receipt_id = $1 ORDER BY created_at ASC
	`, receiptID)
	return lines, err
}

func (r *PGRepository) UpdateLine(ctx context.Context, line *model.ReceiptLine) error {
	_, err := r.DB.NamedExecContext(ctx, `
		UPDATE receipt_lines SET
			rejected_qty = :rejected_qty,
			qc_pass_qty = :qc_pass_qty,
			received_qty = :received_qty,
			status = :status,
			updated_at = :updated_at
		WHERE id = :id
	`, line)
	return err
}

func (r *PGRepository) UpdateReceiptStatus(ctx context.Context, receiptID string, status model.ReceiptStatus) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE receipts SET status = $1, updated_at = now() WHERE id = $2
	`, status, receiptID)
	return err
}

func (r *PGRepository) ListReceipts(ctx context.Context, page, pageSize int) ([]model.Receipt, int, error) {
	var count int
	if err := r.DB.GetContext(ctx, &count, `SELECT count(*) FROM receipts`); err != nil {
		return nil, 0, err
	}

	query := `SELECT * FROM receipts ORDER BY created_at DESC`
	if pageSize > 0 {
		offset := (page - 1) * pageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, offset)
	}

	receipts := []model.Receipt{}
	err := r.DB.SelectContext(ctx, &receipts, query)
	return receipts, count, err
}
