package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ngo-case-service/internal/domain"
)

// CaseRepository exposes the case reads needed for authorization and lookup.
type CaseRepository interface {
	FindCase(ctx context.Context, id int64) (*domain.Case, error)
	CaseExists(ctx context.Context, id int64) (bool, error)
	AllCaseIDs(ctx context.Context) ([]int64, error)
	CaseIDsByWorker(ctx context.Context, workerID int64) ([]int64, error)
}

type caseRepository struct {
	pool *pgxpool.Pool
}

// NewCaseRepository instantiates the repository.
func NewCaseRepository(pool *pgxpool.Pool) CaseRepository {
	return &caseRepository{pool: pool}
}

func (r *caseRepository) FindCase(ctx context.Context, id int64) (*domain.Case, error) {
	const query = `
        SELECT case_id, name, COALESCE(worker_id, 0), status, COALESCE(city, ''), COALESCE(district, ''), created_at
        FROM cases WHERE case_id=$1`

	var c domain.Case
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.Name,
		&c.WorkerID,
		&c.Status,
		&c.City,
		&c.District,
		&c.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caseRepository) CaseExists(ctx context.Context, id int64) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM cases WHERE case_id=$1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *caseRepository) AllCaseIDs(ctx context.Context) ([]int64, error) {
	return r.collectIDs(ctx, `SELECT case_id FROM cases ORDER BY case_id`)
}

func (r *caseRepository) CaseIDsByWorker(ctx context.Context, workerID int64) ([]int64, error) {
	return r.collectIDs(ctx, `SELECT case_id FROM cases WHERE worker_id=$1 ORDER BY case_id`, workerID)
}

func (r *caseRepository) collectIDs(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}
