package permission

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ngo-case-service/internal/domain"
)

var (
	anyRole      = []domain.Role{domain.RoleStaff, domain.RoleSupervisor, domain.RoleAdmin}
	elevatedOnly = []domain.Role{domain.RoleSupervisor, domain.RoleAdmin}
)

type actionRule struct {
	roles  []domain.Role
	reason string
}

var actionRules = map[Action]actionRule{
	ActionApprove:    {roles: anyRole, reason: ReasonRoleNotPermitted},
	ActionReject:     {roles: anyRole, reason: ReasonRoleNotPermitted},
	ActionDelete:     {roles: anyRole, reason: ReasonRoleNotPermitted},
	ActionSupervise:  {roles: elevatedOnly, reason: ReasonRequiresElevatedRole},
	ActionDistribute: {roles: elevatedOnly, reason: ReasonRequiresElevatedRole},
}

// Evaluator combines case visibility and role rules into a Decision.
type Evaluator struct {
	roles     *RoleResolver
	ownership *OwnershipResolver
	logger    *zap.Logger
}

// NewEvaluator builds an evaluator.
func NewEvaluator(roles *RoleResolver, ownership *OwnershipResolver, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{roles: roles, ownership: ownership, logger: logger}
}

// CanPerformAction decides whether the worker may perform action. When
// caseID is non-nil, case visibility is checked first and a denial there is
// returned as is.
func (e *Evaluator) CanPerformAction(ctx context.Context, workerID int64, action Action, caseID *int64) Decision {
	role := e.roles.RoleOf(ctx, workerID)
	switch role.Status {
	case LookupNotFound:
		return Deny(ReasonWorkerNotFound)
	case LookupStoreError:
		return Deny(ReasonCheckFailed)
	}

	if caseID != nil {
		if d := e.ownership.canViewAs(ctx, workerID, role.Value, *caseID); !d.Allowed() {
			return d
		}
	}

	if action == ActionView {
		return Allow()
	}
	rule, ok := actionRules[action]
	if !ok {
		return Deny(ReasonUnknownAction)
	}
	for _, allowed := range rule.roles {
		if role.Value == allowed {
			return Allow()
		}
	}
	return Deny(rule.reason)
}

// AccessibleCaseIDs lists the cases visible to the worker.
func (e *Evaluator) AccessibleCaseIDs(ctx context.Context, workerID int64) []int64 {
	return e.ownership.AccessibleCaseIDs(ctx, workerID)
}
