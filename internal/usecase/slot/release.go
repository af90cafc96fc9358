package slot

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	appointment "github.com/BruksfildServices01/binda/internal/domain/appointment"
	"github.com/BruksfildServices01/binda/internal/policy"
	"github.com/BruksfildServices01/binda/internal/tenancy"
	"github.com/BruksfildServices01/binda/internal/usecase/tenant"
)

type ReleaseLock struct {
	locks    appointment.LockRepository
	resolver *tenant.Resolver
	log      *slog.Logger
}

func NewReleaseLock(locks appointment.LockRepository, resolver *tenant.Resolver, log *slog.Logger) *ReleaseLock {
	return &ReleaseLock{locks: locks, resolver: resolver, log: log}
}

// Execute deletes the lock when sessionID owns it. A lock that is already
// gone, owned by someone else or held on an inactive tenant is not an
// error; it is left to expire.
func (uc *ReleaseLock) Execute(ctx context.Context, lockID uuid.UUID, sessionID string) error {
	lock, err := uc.locks.FindOwned(ctx, lockID, sessionID)
	if errors.Is(err, appointment.ErrLockNotFound) {
		return nil
	}
	if err != nil {
		uc.log.Error("slot lock lookup failed", "lock_id", lockID, "error", err)
		return err
	}

	t, err := uc.resolver.ResolveByID(ctx, lock.TenantID)
	if errors.Is(err, tenant.ErrTenantNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	tc := tenancy.Public(t, sessionID)
	if err := policy.Authorize(tc, t.ID, policy.SlotLock, policy.Delete); err != nil {
		return err
	}

	deleted, err := uc.locks.Release(ctx, lockID, sessionID)
	if err != nil {
		uc.log.Error("slot lock release failed", "lock_id", lockID, "error", err)
		return err
	}
	uc.log.Debug("slot lock released", "lock_id", lockID, "deleted", deleted)
	return nil
}
