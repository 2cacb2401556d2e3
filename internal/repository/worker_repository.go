package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ngo-case-service/internal/domain"
)

// WorkerRepository handles persistence for worker accounts.
type WorkerRepository interface {
	FindWorker(ctx context.Context, id int64) (*domain.Worker, error)
	GetByEmail(ctx context.Context, email string) (*domain.Worker, error)
	List(ctx context.Context) ([]domain.Worker, error)
}

type workerRepository struct {
	pool *pgxpool.Pool
}

// NewWorkerRepository returns a Postgres-backed implementation.
func NewWorkerRepository(pool *pgxpool.Pool) WorkerRepository {
	return &workerRepository{pool: pool}
}

const workerColumns = `worker_id, email, password, name, COALESCE(role, ''), created_at`

func (r *workerRepository) FindWorker(ctx context.Context, id int64) (*domain.Worker, error) {
	const query = `SELECT ` + workerColumns + ` FROM workers WHERE worker_id=$1`
	return scanWorker(r.pool.QueryRow(ctx, query, id))
}

func (r *workerRepository) GetByEmail(ctx context.Context, email string) (*domain.Worker, error) {
	const query = `SELECT ` + workerColumns + ` FROM workers WHERE email=$1`
	return scanWorker(r.pool.QueryRow(ctx, query, email))
}

func (r *workerRepository) List(ctx context.Context) ([]domain.Worker, error) {
	const query = `SELECT ` + workerColumns + ` FROM workers ORDER BY worker_id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Worker
	for rows.Next() {
		worker, err := scanWorker(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *worker)
	}
	return result, rows.Err()
}

func scanWorker(row pgx.Row) (*domain.Worker, error) {
	var worker domain.Worker
	if err := row.Scan(
		&worker.ID,
		&worker.Email,
		&worker.Password,
		&worker.Name,
		&worker.Role,
		&worker.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &worker, nil
}
