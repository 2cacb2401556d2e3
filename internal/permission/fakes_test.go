package permission

import (
	"context"
	"errors"
	"sort"

	"github.com/spec-kit/ngo-case-service/internal/domain"
)

var errStoreDown = errors.New("connection refused")

type fakeAccounts struct {
	workers map[int64]*domain.Worker
	err     error
	calls   int
}

func (f *fakeAccounts) FindWorker(_ context.Context, id int64) (*domain.Worker, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	w, ok := f.workers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return w, nil
}

type fakeCases struct {
	owners    map[int64]int64
	err       error
	existsErr error
}

func (f *fakeCases) FindCase(_ context.Context, id int64) (*domain.Case, error) {
	if f.err != nil {
		return nil, f.err
	}
	owner, ok := f.owners[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &domain.Case{ID: id, WorkerID: owner}, nil
}

func (f *fakeCases) CaseExists(_ context.Context, id int64) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.owners[id]
	return ok, nil
}

func (f *fakeCases) AllCaseIDs(_ context.Context) ([]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	ids := make([]int64, 0, len(f.owners))
	for id := range f.owners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (f *fakeCases) CaseIDsByWorker(_ context.Context, workerID int64) ([]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	var ids []int64
	for id, owner := range f.owners {
		if owner == workerID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

type fakeNeeds struct {
	cases map[int64]int64
	err   error
	calls int
}

func (f *fakeNeeds) FindOwningCaseID(_ context.Context, id int64) (int64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	caseID, ok := f.cases[id]
	if !ok {
		return 0, ErrNotFound
	}
	return caseID, nil
}

// fixture: staff 7 owns 42, staff 8 owns 99, supervisor 1, admin 2,
// worker 5 has the unrecognised role "manager".
func newFixture() (*fakeAccounts, *fakeCases) {
	accounts := &fakeAccounts{workers: map[int64]*domain.Worker{
		1: {ID: 1, Role: "supervisor"},
		2: {ID: 2, Role: "Admin"},
		5: {ID: 5, Role: "manager"},
		7: {ID: 7, Role: "staff"},
		8: {ID: 8, Role: "staff"},
	}}
	cases := &fakeCases{owners: map[int64]int64{42: 7, 99: 8}}
	return accounts, cases
}

func newEvaluator(accounts AccountStore, cases CaseStore) (*Evaluator, *OwnershipResolver) {
	roles := NewRoleResolver(accounts, nil)
	ownership := NewOwnershipResolver(cases, roles, nil)
	return NewEvaluator(roles, ownership, nil), ownership
}

func caseRef(id int64) *int64 {
	return &id
}
