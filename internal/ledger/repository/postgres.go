package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/stocklane/warehouse-service/internal/ledger"
	"github.com/stocklane/warehouse-service/internal/ledger/dto"
	"github.com/stocklane/warehouse-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const insertEntryQuery = `
	INSERT INTO stock_ledger_entries (
		id, sku, operation, quantity_change,
		previous_quantity, new_quantity,
		reference_id, details, performed_by, created_at
	)
	VALUES (
		:id, :sku, :operation, :quantity_change,
		:previous_quantity, :new_quantity,
		:reference_id, :details, :performed_by, :created_at
	)
`

const updateRecordQuery = `
	UPDATE stock_records SET
		po_quantity = :po_quantity,
		grn_quantity = :grn_quantity,
		putaway_quantity = :putaway_quantity,
		picklist_quantity = :picklist_quantity,
		return_try_and_buy_quantity = :return_try_and_buy_quantity,
		return_other_quantity = :return_other_quantity,
		updated_at = :updated_at
	WHERE sku = :sku
`

// lockRecord acquires the exclusive row lock for sku, creating the all-zero
// record inside the same transaction when it does not exist yet. The
// ON CONFLICT DO NOTHING plus re-lock closes the race between two
// first-time writers for the same SKU.
func (r *PGRepository) lockRecord(ctx context.Context, tx *sqlx.Tx, sku string) (*model.StockRecord, error) {
	var rec model.StockRecord
	err := tx.GetContext(ctx, &rec, `SELECT * FROM stock_records WHERE sku = $1 FOR UPDATE`, sku)
	if err == nil {
		return &rec, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO stock_records (sku, created_at, updated_at)
		VALUES ($1, $2, $2)
		ON CONFLICT (sku) DO NOTHING
	`, sku, now)
	if err != nil {
		return nil, err
	}

	err = tx.GetContext(ctx, &rec, `SELECT * FROM stock_records WHERE sku = $1 FOR UPDATE`, sku)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *PGRepository) ApplyOperation(ctx context.Context, input *dto.ApplyInput, entry *model.StockLedgerEntry) (*model.StockRecord, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, translateError(err)
	}
	defer tx.Rollback()

	rec, err := r.lockRecord(ctx, tx, input.SKU)
	if err != nil {
		return nil, translateError(err)
	}

	prev := rec.Counter(input.Operation)
	next := prev + input.Delta
	if next < 0 {
		return nil, ledger.ErrInsufficientQuantity
	}

	rec.SetCounter(input.Operation, next)
	rec.UpdatedAt = time.Now().UTC()

	if _, err := tx.NamedExecContext(ctx, updateRecordQuery, rec); err != nil {
		return nil, translateError(fmt.Errorf("failed to update stock record: %w", err))
	}

	entry.PreviousQuantity = prev
	entry.NewQuantity = next
	if _, err := tx.NamedExecContext(ctx, insertEntryQuery, entry); err != nil {
		return nil, translateError(fmt.Errorf("failed to append ledger entry: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return nil, translateError(err)
	}
	return rec, nil
}

func (r *PGRepository) TransferPutawayToPicklist(ctx context.Context, input *dto.TransferInput, picklistEntry, putawayEntry *model.StockLedgerEntry) (*model.StockRecord, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, translateError(err)
	}
	defer tx.Rollback()

	rec, err := r.lockRecord(ctx, tx, input.SKU)
	if err != nil {
		return nil, translateError(err)
	}

	// Re-validate under the lock; the caller's availability pre-check is
	// advisory only.
	if rec.PutawayQuantity < input.Quantity {
		return nil, ledger.ErrInsufficientQuantity
	}

	picklistEntry.PreviousQuantity = rec.PicklistQuantity
	picklistEntry.NewQuantity = rec.PicklistQuantity + input.Quantity
	putawayEntry.PreviousQuantity = rec.PutawayQuantity
	putawayEntry.NewQuantity = rec.PutawayQuantity - input.Quantity

	rec.PicklistQuantity += input.Quantity
	rec.PutawayQuantity -= input.Quantity
	rec.UpdatedAt = time.Now().UTC()

	if _, err := tx.NamedExecContext(ctx, updateRecordQuery, rec); err != nil {
		return nil, translateError(fmt.Errorf("failed to update stock record: %w", err))
	}
	if _, err := tx.NamedExecContext(ctx, insertEntryQuery, picklistEntry); err != nil {
		return nil, translateError(fmt.Errorf("failed to append picklist entry: %w", err))
	}
	if _, err := tx.NamedExecContext(ctx, insertEntryQuery, putawayEntry); err != nil {
		return nil, translateError(fmt.Errorf("failed to append putaway entry: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return nil, translateError(err)
	}
	return rec, nil
}

func (r *PGRepository) GetBySKU(ctx context.Context, sku string) (*model.StockRecord, error) {
	var rec model.StockRecord
	err := r.DB.GetContext(ctx, &rec, `SELECT * FROM stock_records WHERE sku = $1`, sku)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Caller decides whether absence is an error
		}
		return nil, err
	}
	return &rec, nil
}

func (r *PGRepository) ListEntries(ctx context.Context, f *dto.EntryFilters) ([]model.StockLedgerEntry, int, error) {
	var items []model.StockLedgerEntry
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.SKU != "" {
		conditions = append(conditions, "sku = :sku")
		args["sku"] = f.SKU
	}
	if f.Operation != "" {
		conditions = append(conditions, "operation = :operation")
		args["operation"] = f.Operation
	}
	if f.ReferenceID != "" {
		conditions = append(conditions, "reference_id = :reference_id")
		args["reference_id"] = f.ReferenceID
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM stock_ledger_entries" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return nil, 0, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM stock_ledger_entries" + whereClause + " ORDER BY created_at DESC, id DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

// translateError maps lock timeouts, deadlocks and serialization failures to
// the retryable ErrConcurrentUpdate so callers can distinguish them from
// hard failures.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "55P03", "40001", "40P01": // lock_not_available, serialization_failure, deadlock_detected
			return fmt.Errorf("%w: %v", ledger.ErrConcurrentUpdate, err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ledger.ErrConcurrentUpdate, err)
	}
	return err
}
