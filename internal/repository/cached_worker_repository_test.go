package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ngo-case-service/internal/domain"
)

type stubWorkers struct {
	workers map[int64]*domain.Worker
	calls   int
}

func (s *stubWorkers) FindWorker(_ context.Context, id int64) (*domain.Worker, error) {
	s.calls++
	w, ok := s.workers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *w
	return &copied, nil
}

func (s *stubWorkers) GetByEmail(_ context.Context, email string) (*domain.Worker, error) {
	for _, w := range s.workers {
		if w.Email == email {
			return w, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *stubWorkers) List(_ context.Context) ([]domain.Worker, error) {
	out := make([]domain.Worker, 0, len(s.workers))
	for _, w := range s.workers {
		out = append(out, *w)
	}
	return out, nil
}

func setupCache(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return mr, client
}

func TestCachedWorkerRepository_ReadThrough(t *testing.T) {
	mr, client := setupCache(t)
	inner := &stubWorkers{workers: map[int64]*domain.Worker{
		7: {ID: 7, Email: "mei@example.org", Name: "Mei", Role: "staff", Password: "secret"},
	}}
	repo := NewCachedWorkerRepository(inner, client, time.Minute, nil)
	ctx := context.Background()

	first, err := repo.FindWorker(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "staff", first.Role)
	assert.True(t, mr.Exists("ngo:worker:7"))

	cachedPayload, err := mr.Get("ngo:worker:7")
	require.NoError(t, err)
	assert.NotContains(t, cachedPayload, "secret")

	second, err := repo.FindWorker(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Mei", second.Name)
	assert.Empty(t, second.Password)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedWorkerRepository_Expiry(t *testing.T) {
	mr, client := setupCache(t)
	inner := &stubWorkers{workers: map[int64]*domain.Worker{1: {ID: 1, Role: "admin"}}}
	repo := NewCachedWorkerRepository(inner, client, 30*time.Second, nil)
	ctx := context.Background()

	_, err := repo.FindWorker(ctx, 1)
	require.NoError(t, err)

	mr.FastForward(31 * time.Second)
	inner.workers[1].Role = "staff"

	w, err := repo.FindWorker(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "staff", w.Role)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedWorkerRepository_MissIsNotCached(t *testing.T) {
	mr, client := setupCache(t)
	inner := &stubWorkers{workers: map[int64]*domain.Worker{}}
	repo := NewCachedWorkerRepository(inner, client, time.Minute, nil)

	_, err := repo.FindWorker(context.Background(), 404)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	assert.False(t, mr.Exists("ngo:worker:404"))
}

func TestCachedWorkerRepository_RedisDownFallsThrough(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	inner := &stubWorkers{workers: map[int64]*domain.Worker{8: {ID: 8, Role: "staff"}}}
	repo := NewCachedWorkerRepository(inner, client, time.Minute, nil)
	mr.Close()

	w, err := repo.FindWorker(context.Background(), 8)
	require.NoError(t, err)
	assert.Equal(t, int64(8), w.ID)
}

func TestCachedWorkerRepository_MalformedEntry(t *testing.T) {
	mr, client := setupCache(t)
	inner := &stubWorkers{workers: map[int64]*domain.Worker{2: {ID: 2, Role: "supervisor"}}}
	repo := NewCachedWorkerRepository(inner, client, time.Minute, nil)
	require.NoError(t, mr.Set("ngo:worker:2", "{not json"))

	w, err := repo.FindWorker(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "supervisor", w.Role)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedWorkerRepository_Invalidate(t *testing.T) {
	mr, client := setupCache(t)
	inner := &stubWorkers{workers: map[int64]*domain.Worker{7: {ID: 7, Role: "staff"}}}
	repo := NewCachedWorkerRepository(inner, client, time.Minute, nil)
	ctx := context.Background()

	_, err := repo.FindWorker(ctx, 7)
	require.NoError(t, err)
	require.NoError(t, invalidateWorker(ctx, client, 7))
	assert.False(t, mr.Exists("ngo:worker:7"))
	assert.NoError(t, invalidateWorker(ctx, nil, 7))
}

func TestNewCachedWorkerRepository_DisabledReturnsInner(t *testing.T) {
	_, client := setupCache(t)
	inner := &stubWorkers{}

	assert.Same(t, WorkerRepository(inner), NewCachedWorkerRepository(inner, client, 0, nil))
	assert.Same(t, WorkerRepository(inner), NewCachedWorkerRepository(inner, nil, time.Minute, nil))
}
