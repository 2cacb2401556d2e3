package permission

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ngo-case-service/internal/domain"
)

// ErrNotFound may be returned by store implementations for a missing row.
// pgx.ErrNoRows is treated the same way.
var ErrNotFound = errors.New("not found")

// AccountStore looks up workers.
type AccountStore interface {
	FindWorker(ctx context.Context, workerID int64) (*domain.Worker, error)
}

// CaseStore looks up cases and their responsible worker.
type CaseStore interface {
	FindCase(ctx context.Context, caseID int64) (*domain.Case, error)
	CaseExists(ctx context.Context, caseID int64) (bool, error)
	AllCaseIDs(ctx context.Context) ([]int64, error)
	CaseIDsByWorker(ctx context.Context, workerID int64) ([]int64, error)
}

// NeedStore resolves the case a dependent record belongs to.
type NeedStore interface {
	FindOwningCaseID(ctx context.Context, needID int64) (int64, error)
}

// LookupStatus tells a found row from a missing one and from a store failure.
type LookupStatus int

const (
	LookupFound LookupStatus = iota
	LookupNotFound
	LookupStoreError
)

func (s LookupStatus) String() string {
	switch s {
	case LookupFound:
		return "found"
	case LookupNotFound:
		return "not_found"
	default:
		return "store_error"
	}
}

// Lookup is the result of a store read.
type Lookup[T any] struct {
	Value  T
	Status LookupStatus
	Err    error
}

// Found reports whether Value holds a row. Store errors are not found.
func (l Lookup[T]) Found() bool {
	return l.Status == LookupFound
}

func newLookup[T any](value T, err error) Lookup[T] {
	switch {
	case err == nil:
		return Lookup[T]{Value: value, Status: LookupFound}
	case errors.Is(err, pgx.ErrNoRows), errors.Is(err, ErrNotFound):
		var zero T
		return Lookup[T]{Value: zero, Status: LookupNotFound}
	default:
		var zero T
		return Lookup[T]{Value: zero, Status: LookupStoreError, Err: err}
	}
}
