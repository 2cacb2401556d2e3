package permission

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ngo-case-service/internal/domain"
)

// OwnershipResolver answers whether a worker may see a case.
type OwnershipResolver struct {
	cases  CaseStore
	roles  *RoleResolver
	logger *zap.Logger
}

// NewOwnershipResolver builds a resolver over the case store.
func NewOwnershipResolver(cases CaseStore, roles *RoleResolver, logger *zap.Logger) *OwnershipResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OwnershipResolver{cases: cases, roles: roles, logger: logger}
}

// IsResponsibleFor reports whether the worker owns the case, or holds an
// elevated role and the case exists.
func (o *OwnershipResolver) IsResponsibleFor(ctx context.Context, workerID, caseID int64) bool {
	if o.owns(ctx, workerID, caseID).Value {
		return true
	}
	role := o.roles.RoleOf(ctx, workerID)
	if !role.Found() || !role.Value.IsElevated() {
		return false
	}
	return o.exists(ctx, caseID).Value
}

// CanView decides whether the worker may see the case. Elevated roles are
// allowed without an ownership or existence check.
func (o *OwnershipResolver) CanView(ctx context.Context, workerID, caseID int64) Decision {
	role := o.roles.RoleOf(ctx, workerID)
	switch role.Status {
	case LookupNotFound:
		return Deny(ReasonWorkerNotFound)
	case LookupStoreError:
		return Deny(ReasonCheckFailed)
	}
	return o.canViewAs(ctx, workerID, role.Value, caseID)
}

func (o *OwnershipResolver) canViewAs(ctx context.Context, workerID int64, role domain.Role, caseID int64) Decision {
	if role.IsElevated() {
		return Allow()
	}

	exists := o.exists(ctx, caseID)
	if exists.Status == LookupStoreError {
		return Deny(ReasonCheckFailed)
	}
	if !exists.Value {
		return Deny(ReasonCaseNotFound)
	}

	// Staff are responsible only through direct ownership.
	owns := o.owns(ctx, workerID, caseID)
	if owns.Status == LookupStoreError {
		return Deny(ReasonCheckFailed)
	}
	if !owns.Value {
		return Deny(ReasonNotAuthorizedForCase)
	}
	return Allow()
}

// AccessibleCaseIDs lists the cases the worker may see. Unknown workers and
// store failures yield an empty list.
func (o *OwnershipResolver) AccessibleCaseIDs(ctx context.Context, workerID int64) []int64 {
	role := o.roles.RoleOf(ctx, workerID)
	if !role.Found() {
		return []int64{}
	}

	var (
		ids []int64
		err error
	)
	if role.Value.IsElevated() {
		ids, err = o.cases.AllCaseIDs(ctx)
	} else {
		ids, err = o.cases.CaseIDsByWorker(ctx, workerID)
	}
	if err != nil {
		o.logger.Warn("accessible cases lookup failed", zap.Int64("worker_id", workerID), zap.Error(err))
		return []int64{}
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids
}

func (o *OwnershipResolver) owns(ctx context.Context, workerID, caseID int64) Lookup[bool] {
	c, err := o.cases.FindCase(ctx, caseID)
	if err == nil && c == nil {
		err = ErrNotFound
	}
	res := newLookup(c, err)
	switch res.Status {
	case LookupFound:
		return Lookup[bool]{Value: c.WorkerID == workerID, Status: LookupFound}
	case LookupStoreError:
		o.logger.Warn("case lookup failed", zap.Int64("case_id", caseID), zap.Error(res.Err))
	}
	return Lookup[bool]{Status: res.Status, Err: res.Err}
}

func (o *OwnershipResolver) exists(ctx context.Context, caseID int64) Lookup[bool] {
	ok, err := o.cases.CaseExists(ctx, caseID)
	res := newLookup(ok, err)
	if res.Status == LookupStoreError {
		o.logger.Warn("case existence check failed", zap.Int64("case_id", caseID), zap.Error(res.Err))
	}
	return res
}
