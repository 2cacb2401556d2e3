package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ngo-case-service/internal/domain"
)

type fakeWorkerRepo struct {
	byID map[int64]*domain.Worker
	err  error
}

func newFakeWorkerRepo(workers ...*domain.Worker) *fakeWorkerRepo {
	repo := &fakeWorkerRepo{byID: map[int64]*domain.Worker{}}
	for _, w := range workers {
		repo.byID[w.ID] = w
	}
	return repo
}

func (f *fakeWorkerRepo) FindWorker(_ context.Context, id int64) (*domain.Worker, error) {
	if f.err != nil {
		return nil, f.err
	}
	if w, ok := f.byID[id]; ok {
		return w, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeWorkerRepo) GetByEmail(_ context.Context, email string) (*domain.Worker, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, w := range f.byID {
		if w.Email == email {
			return w, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeWorkerRepo) List(_ context.Context) ([]domain.Worker, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := make([]domain.Worker, 0, len(f.byID))
	for _, w := range f.byID {
		result = append(result, *w)
	}
	return result, nil
}

type fakeNeedRepo struct {
	needs     map[int64]*domain.SupplyNeed
	updateErr error
}

func (f *fakeNeedRepo) GetByID(_ context.Context, id int64) (*domain.SupplyNeed, error) {
	need, ok := f.needs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *need
	return &copied, nil
}

func (f *fakeNeedRepo) FindOwningCaseID(_ context.Context, id int64) (int64, error) {
	need, ok := f.needs[id]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	return need.CaseID, nil
}

func (f *fakeNeedRepo) SetStatus(_ context.Context, id int64, status domain.NeedStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	need, ok := f.needs[id]
	if !ok {
		return pgx.ErrNoRows
	}
	need.Status = status
	return nil
}

func (f *fakeNeedRepo) MarkCollected(_ context.Context, id int64, batchID *int64, pickupAt time.Time) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	need, ok := f.needs[id]
	if !ok {
		return pgx.ErrNoRows
	}
	need.Status = domain.NeedStatusCollected
	need.BatchID = batchID
	need.PickupDate = &pickupAt
	return nil
}

func (f *fakeNeedRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.needs[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.needs, id)
	return nil
}
