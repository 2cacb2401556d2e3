package service

import (
	"context"

	"github.com/spec-kit/ngo-case-service/internal/domain"
	"github.com/spec-kit/ngo-case-service/internal/permission"
	"github.com/spec-kit/ngo-case-service/internal/repository"
)

// CaseService serves case reads for authorized callers.
type CaseService struct {
	cases     repository.CaseRepository
	evaluator *permission.Evaluator
}

// NewCaseService constructs the service.
func NewCaseService(cases repository.CaseRepository, evaluator *permission.Evaluator) *CaseService {
	return &CaseService{cases: cases, evaluator: evaluator}
}

// Get loads a case.
func (s *CaseService) Get(ctx context.Context, id int64) (*domain.Case, error) {
	return s.cases.FindCase(ctx, id)
}

// AccessibleIDs lists the case ids the worker may view.
func (s *CaseService) AccessibleIDs(ctx context.Context, workerID int64) []int64 {
	return s.evaluator.AccessibleCaseIDs(ctx, workerID)
}

// Check evaluates an action for the worker, optionally scoped to a case.
func (s *CaseService) Check(ctx context.Context, workerID int64, action permission.Action, caseID *int64) permission.Decision {
	return s.evaluator.CanPerformAction(ctx, workerID, action, caseID)
}
