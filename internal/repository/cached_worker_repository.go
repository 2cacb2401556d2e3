package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/ngo-case-service/internal/domain"
)

const workerCacheKeyPrefix = "ngo:worker:"

type cachedWorker struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// cachedWorkerRepository serves FindWorker from Redis before Postgres.
// Only identity and role are cached; the password never leaves Postgres.
type cachedWorkerRepository struct {
	inner  WorkerRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedWorkerRepository wraps inner with a Redis read-through cache.
// A nil client or non-positive ttl returns inner unchanged.
func NewCachedWorkerRepository(inner WorkerRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) WorkerRepository {
	if client == nil || ttl <= 0 {
		return inner
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &cachedWorkerRepository{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (r *cachedWorkerRepository) FindWorker(ctx context.Context, id int64) (*domain.Worker, error) {
	key := workerCacheKey(id)

	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cw cachedWorker
		if jsonErr := json.Unmarshal(raw, &cw); jsonErr == nil {
			return &domain.Worker{ID: cw.ID, Email: cw.Email, Name: cw.Name, Role: cw.Role}, nil
		}
		r.logger.Warn("discarding malformed worker cache entry", zap.Int64("worker_id", id))
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("worker cache read failed", zap.Int64("worker_id", id), zap.Error(err))
	}

	worker, err := r.inner.FindWorker(ctx, id)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(cachedWorker{ID: worker.ID, Email: worker.Email, Name: worker.Name, Role: worker.Role})
	if err == nil {
		if setErr := r.client.Set(ctx, key, payload, r.ttl).Err(); setErr != nil {
			r.logger.Warn("worker cache write failed", zap.Int64("worker_id", id), zap.Error(setErr))
		}
	}
	return worker, nil
}

func (r *cachedWorkerRepository) GetByEmail(ctx context.Context, email string) (*domain.Worker, error) {
	return r.inner.GetByEmail(ctx, email)
}

func (r *cachedWorkerRepository) List(ctx context.Context) ([]domain.Worker, error) {
	return r.inner.List(ctx)
}

// invalidateWorker drops a cached worker so the next lookup reads the store.
func invalidateWorker(ctx context.Context, client *redis.Client, id int64) error {
	if client == nil {
		return nil
	}
	return client.Del(ctx, workerCacheKey(id)).Err()
}

func workerCacheKey(id int64) string {
	return fmt.Sprintf("%s%d", workerCacheKeyPrefix, id)
}
