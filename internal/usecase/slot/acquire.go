package slot

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	appointment "github.com/BruksfildServices01/binda/internal/domain/appointment"
	catalog "github.com/BruksfildServices01/binda/internal/domain/catalog"
	"github.com/BruksfildServices01/binda/internal/httperr"
	"github.com/BruksfildServices01/binda/internal/infra/redislock"
	"github.com/BruksfildServices01/binda/internal/metrics"
	"github.com/BruksfildServices01/binda/internal/models"
	"github.com/BruksfildServices01/binda/internal/policy"
	"github.com/BruksfildServices01/binda/internal/tenancy"
	"github.com/BruksfildServices01/binda/internal/timezone"
	"github.com/BruksfildServices01/binda/internal/usecase/tenant"
)

// ======================================================
// INPUT
// ======================================================

type AcquireInput struct {
	ServiceID uuid.UUID
	StaffID   uuid.UUID
	// Start is a naive wall-clock date-time in the tenant's zone.
	Start     string
	SessionID string
}

// ======================================================
// USE CASE
// ======================================================

type AcquireLock struct {
	catalog  catalog.Repository
	locks    appointment.LockRepository
	resolver *tenant.Resolver
	locker   redislock.Locker
	ttl      time.Duration
	log      *slog.Logger

	Now func() time.Time
}

func NewAcquireLock(
	cat catalog.Repository,
	locks appointment.LockRepository,
	resolver *tenant.Resolver,
	locker redislock.Locker,
	ttl time.Duration,
	log *slog.Logger,
) *AcquireLock {
	return &AcquireLock{
		catalog:  cat,
		locks:    locks,
		resolver: resolver,
		locker:   locker,
		ttl:      ttl,
		log:      log,
		Now:      time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *AcquireLock) Execute(ctx context.Context, in AcquireInput) (*models.SlotLock, error) {
	if in.SessionID == "" {
		return nil, httperr.ErrBusiness("session_required")
	}

	tg, err := eligible(ctx, uc.catalog, uc.resolver, in.ServiceID, in.StaffID)
	if err != nil {
		return nil, err
	}

	tc := tenancy.Public(tg.tenant, in.SessionID)
	if err := policy.Authorize(tc, tg.tenant.ID, policy.SlotLock, policy.Create); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Wall clock -> instant
	// --------------------------------------------------
	start, err := timezone.Resolve(in.Start, tc.Timezone)
	switch {
	case errors.Is(err, timezone.ErrNonexistentLocalTime):
		return nil, httperr.ErrBusiness("nonexistent_local_time")
	case errors.Is(err, timezone.ErrAmbiguousLocalTime):
		return nil, httperr.ErrBusiness("ambiguous_local_time")
	case err != nil:
		return nil, httperr.ErrBusiness("invalid_start")
	}
	end := start.Add(tg.service.Duration())

	now := uc.Now().UTC()
	if start.Before(now.Add(time.Duration(tg.tenant.MinAdvanceMinutes) * time.Minute)) {
		return nil, httperr.ErrBusiness("too_soon")
	}

	// --------------------------------------------------
	// Working hours
	// --------------------------------------------------
	rows, err := uc.catalog.ListWorkingHours(ctx, tg.staff.ID)
	if err != nil {
		return nil, err
	}
	localStart := start.In(tc.Location())
	day := time.Date(localStart.Year(), localStart.Month(), localStart.Day(), 0, 0, 0, 0, tc.Location())
	windows := appointment.WindowsForDate(rows, day, tc.Timezone)
	if !appointment.Covered(appointment.Interval{Start: start, End: end}, windows) {
		return nil, httperr.ErrBusiness("outside_working_hours")
	}

	// --------------------------------------------------
	// Check-and-insert, serialised per staff member
	// --------------------------------------------------
	lock := &models.SlotLock{
		TenantID:  tg.tenant.ID,
		SessionID: in.SessionID,
		StaffID:   tg.staff.ID,
		ServiceID: tg.service.ID,
		SlotStart: start,
		SlotEnd:   end,
		ExpiresAt: now.Add(uc.ttl),
	}

	err = uc.locker.WithLock(ctx, "staff:"+tg.staff.ID.String(), func() error {
		return uc.locks.Acquire(ctx, lock, now)
	})

	switch {
	case err == nil:
		metrics.SlotLocks.WithLabelValues("acquired").Inc()
	case errors.Is(err, appointment.ErrSlotUnavailable), httperr.IsExclusionConflict(err):
		metrics.SlotLocks.WithLabelValues("conflict").Inc()
		return nil, appointment.ErrSlotUnavailable
	case errors.Is(err, redislock.ErrBusy):
		metrics.SlotLocks.WithLabelValues("busy").Inc()
		return nil, err
	default:
		metrics.SlotLocks.WithLabelValues("error").Inc()
		uc.log.Error("slot lock acquire failed", "staff_id", tg.staff.ID, "error", err)
		return nil, err
	}

	return lock, nil
}
