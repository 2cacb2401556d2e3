package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ngo-case-service/internal/domain"
)

// SupplyNeedRepository handles persistence for regular supplies needs.
type SupplyNeedRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.SupplyNeed, error)
	FindOwningCaseID(ctx context.Context, id int64) (int64, error)
	SetStatus(ctx context.Context, id int64, status domain.NeedStatus) error
	MarkCollected(ctx context.Context, id int64, batchID *int64, pickupAt time.Time) error
	Delete(ctx context.Context, id int64) error
}

type supplyNeedRepository struct {
	pool *pgxpool.Pool
}

// NewSupplyNeedRepository instantiates the repository.
func NewSupplyNeedRepository(pool *pgxpool.Pool) SupplyNeedRepository {
	return &supplyNeedRepository{pool: pool}
}

func (r *supplyNeedRepository) GetByID(ctx context.Context, id int64) (*domain.SupplyNeed, error) {
	const query = `
        SELECT need_id, case_id, supply_id, quantity, status, batch_id, apply_date, pickup_date
        FROM regular_supplies_needs WHERE need_id=$1`

	var need domain.SupplyNeed
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&need.ID,
		&need.CaseID,
		&need.SupplyID,
		&need.Quantity,
		&need.Status,
		&need.BatchID,
		&need.ApplyDate,
		&need.PickupDate,
	); err != nil {
		return nil, err
	}
	return &need, nil
}

func (r *supplyNeedRepository) FindOwningCaseID(ctx context.Context, id int64) (int64, error) {
	const query = `SELECT case_id FROM regular_supplies_needs WHERE need_id=$1`

	var caseID int64
	if err := r.pool.QueryRow(ctx, query, id).Scan(&caseID); err != nil {
		return 0, err
	}
	return caseID, nil
}

func (r *supplyNeedRepository) SetStatus(ctx context.Context, id int64, status domain.NeedStatus) error {
	const query = `UPDATE regular_supplies_needs SET status=$1 WHERE need_id=$2`
	return r.exec(ctx, query, status, id)
}

// MarkCollected overwrites the batch even when batchID is nil.
func (r *supplyNeedRepository) MarkCollected(ctx context.Context, id int64, batchID *int64, pickupAt time.Time) error {
	const query = `
        UPDATE regular_supplies_needs
        SET status=$1, batch_id=$2, pickup_date=$3
        WHERE need_id=$4`
	return r.exec(ctx, query, domain.NeedStatusCollected, batchID, pickupAt, id)
}

func (r *supplyNeedRepository) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, `DELETE FROM regular_supplies_needs WHERE need_id=$1`, id)
}

func (r *supplyNeedRepository) exec(ctx context.Context, query string, args ...any) error {
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
