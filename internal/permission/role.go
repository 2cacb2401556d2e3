package permission

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ngo-case-service/internal/domain"
)

// RoleResolver maps a worker id to a role.
type RoleResolver struct {
	accounts AccountStore
	logger   *zap.Logger
}

// NewRoleResolver builds a resolver over the account store.
func NewRoleResolver(accounts AccountStore, logger *zap.Logger) *RoleResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleResolver{accounts: accounts, logger: logger}
}

// RoleOf returns the worker's role. A worker with an unrecognised role is
// staff, not an error.
func (r *RoleResolver) RoleOf(ctx context.Context, workerID int64) Lookup[domain.Role] {
	worker, err := r.accounts.FindWorker(ctx, workerID)
	if err == nil && worker == nil {
		err = ErrNotFound
	}
	res := newLookup(worker, err)
	if res.Status == LookupStoreError {
		r.logger.Warn("worker lookup failed", zap.Int64("worker_id", workerID), zap.Error(res.Err))
	}
	if !res.Found() {
		return Lookup[domain.Role]{Status: res.Status, Err: res.Err}
	}
	return Lookup[domain.Role]{Value: worker.EffectiveRole(), Status: LookupFound}
}
