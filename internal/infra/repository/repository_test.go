package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/binda/internal/dbtest"
	"github.com/BruksfildServices01/binda/internal/domain/appointment"
	"github.com/BruksfildServices01/binda/internal/domain/catalog"
	"github.com/BruksfildServices01/binda/internal/domain/tenant"
	"github.com/BruksfildServices01/binda/internal/models"
)

var (
	ctx  = context.Background()
	now  = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	slot = func(h, m int) time.Time { return time.Date(2024, 6, 10, h, m, 0, 0, time.UTC) }
)

func newLock(f dbtest.Fixture, session string, start time.Time, minutes int) *models.SlotLock {
	return &models.SlotLock{
		TenantID:  f.Tenant.ID,
		SessionID: session,
		StaffID:   f.Staff.ID,
		ServiceID: f.Service.ID,
		SlotStart: start,
		SlotEnd:   start.Add(time.Duration(minutes) * time.Minute),
		ExpiresAt: now.Add(10 * time.Minute),
	}
}

func seedAppointment(t *testing.T, gdb *gorm.DB, f dbtest.Fixture, status appointment.Status, start time.Time) models.Appointment {
	t.Helper()
	c := models.Customer{TenantID: f.Tenant.ID, Name: "Walk In", Email: uuid.NewString() + "@example.com"}
	require.NoError(t, gdb.Create(&c).Error)

	ap := models.Appointment{
		TenantID:   f.Tenant.ID,
		ServiceID:  f.Service.ID,
		StaffID:    f.Staff.ID,
		CustomerID: c.ID,
		StartTime:  start,
		EndTime:    start.Add(30 * time.Minute),
		Status:     string(status),
	}
	require.NoError(t, gdb.Omit("Service", "Staff", "Customer").Create(&ap).Error)
	return ap
}

// --------------------------------------------------
// Slot locks
// --------------------------------------------------

func TestSlotLock_OverlapConflicts(t *testing.T) {
	gdb := dbtest.Open(t)
	f := dbtest.Seed(t, gdb)
	repo := NewSlotLockGormRepository(gdb)

	require.NoError(t, repo.Acquire(ctx, newLock(f, "s1", slot(10, 0), 30), now))

	err := repo.Acquire(ctx, newLock(f, "s2", slot(10, 15), 30), now)
	assert.ErrorIs(t, err, appointment.ErrSlotUnavailable)

	// touching intervals do not overlap
	assert.NoError(t, repo.Acquire(ctx, newLock(f, "s2", slot(10, 30), 30), now))
}

func TestSlotLock_ConcurrentAcquireExactlyOneWins(t *testing.T) {
	gdb := dbtest.Open(t)
	f := dbtest.Seed(t, gdb)
	repo := NewSlotLockGormRepository(gdb)

	const contenders = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := repo.Acquire(ctx, newLock(f, uuid.NewString(), slot(14, 0), 30), now)
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, appointment.ErrSlotUnavailable)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestSlotLock_ExpiredLockDoesNotBlock(t *testing.T) {
	gdb := dbtest.Open(t)
	f := dbtest.Seed(t, gdb)
	repo := NewSlotLockGormRepository(gdb)

	stale := newLock(f, "abandoned", slot(10, 0), 30)
	stale.ExpiresAt = now.Add(-time.Minute)
	require.NoError(t, gdb.Create(stale).Error)

	require.NoError(t, repo.Acquire(ctx, newLock(f, "fresh", slot(10, 0), 30), now))

	var count int64
	gdb.Model(&models.SlotLock{}).Where("session_id = ?", "abandoned").Count(&count)
	assert.Zero(t, count, "expired lock is purged on acquire")
}

func TestSlotLock_ReselectReplacesOwnLock(t *testing.T) {
	gdb := dbtest.Open(t)
	f := dbtest.Seed(t, gdb)
	repo := NewSlotLockGormRepository(gdb)

	require.NoError(t, repo.Acquire(ctx, newLock(f, "s1", slot(10, 0), 30), now))
	require.NoError(t, repo.Acquire(ctx, newLock(f, "s1", slot(10, 15), 30), now))

	var locks []models.SlotLock
	require.NoError(t, gdb.Where("session_id = ?", "s1").Find(&locks).Error)
	require.Len(t, locks, 1)
	assert.True(t, locks[0].SlotStart.Equal(slot(10, 15)))
}

func TestSlotLock_OccupyingAppointmentBlocks(t *testing.T) {
	gdb := dbtest.Open(t)
	f := dbtest.Seed(t, gdb)
	repo := NewSlotLockGormRepository(gdb)

	seedAppointment(t, gdb, f, appointment.StatusConfirmed, slot(10, 0))
	seedAppointment(t, gdb, f, appointment.StatusCancelled, slot(11, 0))

	assert.ErrorIs(t, repo.Acquire(ctx, newLock(f, "s1", slot(10, 0), 30), now), appointment.ErrSlotUnavailable)
	assert.NoError(t, repo.Acquire(ctx, newLock(f, "s1", slot(11, 0), 30), now))
}

func TestSlotLock_ReleaseIsIdempotentAndOwned(t *testing.T) {
	gdb := dbtest.Open(t)
	f := dbtest.Seed(t, gdb)
	repo := NewSlotLockGormRepository(gdb)

	lock := newLock(f, "owner", slot(9, 0), 30)
	require.NoError(t, repo.Acquire(ctx, lock, now))

	deleted, err := repo.Release(ctx, lock.ID, "intruder")
	require.NoError(t, err)
	assert.False(t, deleted)
	_, err = repo.GetActive(ctx, f.Tenant.ID, lock.ID, "owner", now)
	require.NoError(t, err, "mismatched session must not delete the lock")

	deleted, err = repo.Release(ctx, lock.ID, "owner")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Release(ctx, lock.ID, "owner")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestSlotLock_DeleteExpired(t *testing.T) {
	gdb := dbtest.Open(t)
	f := dbtest.Seed(t, gdb)
	repo := NewSlotLockGormRepository(gdb)

	require.NoError(t, repo.Acquire(ctx, newLock(f, "s1", slot(9, 0), 30), now))
	require.NoError(t, repo.Acquire(ctx, newLock(f, "s2", slot(12, 0), 30), now))

	n, err := repo.DeleteExpired(ctx, now.Add(11*time.Minute))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

// --------------------------------------------------
// Booking
// --------------------------------------------------

func TestCreateBooking_ConsumesLockAndReplays(t *testing.T) {
	gdb := dbtest.Open(t)
	f := dbtest.Seed(t, gdb)
	locks := NewSlotLockGormRepository(gdb)
	repo := NewAppointmentGormRepository(gdb)

	lock := newLock(f, "s1", slot(10, 0), 30)
	require.NoError(t, locks.Acquire(ctx, lock, now))

	draft := appointment.BookingDraft{
		TenantID:  f.Tenant.ID,
		LockID:    lock.ID,
		SessionID: "s1",
		AttemptID: "attempt-1",
		Customer:  appointment.CustomerInput{Name: "Ada", Email: "Ada@Example.com"},
		Notes:     "first visit",
		Status:    appointment.StatusConfirmed,
	}

	ap, replayed, err := repo.CreateBooking(ctx, draft, now)
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.Equal(t, string(appointment.StatusConfirmed), ap.Status)
	assert.True(t, ap.StartTime.Equal(slot(10, 0)))
	assert.Equal(t, "ada@example.com", ap.Customer.Email)
	assert.Equal(t, "Haircut", ap.Service.Name)
	require.NotNil(t, ap.ConfirmedAt)

	_, err = locks.GetActive(ctx, f.Tenant.ID, lock.ID, "s1", now)
	assert.ErrorIs(t, err, appointment.ErrLockNotFound, "booking consumes the lock")

	again, replayed, err := repo.CreateBooking(ctx, draft, now)
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, ap.ID, again.ID)

	draft.SessionID = "s2"
	_, _, err = repo.CreateBooking(ctx, draft, now)
	assert.ErrorIs(t, err, appointment.ErrAttemptConflict, "another session cannot replay the attempt")

	var total int64
	gdb.Model(&models.Appointment{}).Count(&total)
	assert.EqualValues(t, 1, total)
}

func TestCreateBooking_RejectsForeignOrExpiredLock(t *testing.T) {
	gdb := dbtest.Open(t)
	f := dbtest.Seed(t, gdb)
	locks := NewSlotLockGormRepository(gdb)
	repo := NewAppointmentGormRepository(gdb)

	lock := newLock(f, "s1", slot(10, 0), 30)
	require.NoError(t, locks.Acquire(ctx, lock, now))

	draft := appointment.BookingDraft{
		TenantID:  f.Tenant.ID,
		LockID:    lock.ID,
		SessionID: "s2",
		Customer:  appointment.CustomerInput{Name: "Eve", Phone: "+2348000000000"},
		Status:    appointment.StatusConfirmed,
	}
	_, _, err := repo.CreateBooking(ctx, draft, now)
	assert.ErrorIs(t, err, appointment.ErrLockNotFound)

	draft.SessionID = "s1"
	_, _, err = repo.CreateBooking(ctx, draft, now.Add(time.Hour))
	assert.ErrorIs(t, err, appointment.ErrLockNotFound)
}

func TestCreateBooking_ReusesCustomer(t *testing.T) {
	gdb := dbtest.Open(t)
	f := dbtest.Seed(t, gdb)
	locks := NewSlotLockGormRepository(gdb)
	repo := NewAppointmentGormRepository(gdb)

	var customerIDs []uuid.UUID
	for i, start := range []time.Time{slot(9, 0), slot(15, 0)} {
		lock := newLock(f, "s", start, 30)
		require.NoError(t, locks.Acquire(ctx, lock, now))

		ap, _, err := repo.CreateBooking(ctx, appointment.BookingDraft{
			TenantID:  f.Tenant.ID,
			LockID:    lock.ID,
			SessionID: "s",
			Customer:  appointment.CustomerInput{Name: "Bola", Phone: "0800"},
			Status:    appointment.StatusPendingPayment,
		}, now)
		require.NoError(t, err, "booking %d", i)
		customerIDs = append(customerIDs, ap.CustomerID)
	}
	assert.Equal(t, customerIDs[0], customerIDs[1])
}

func TestUpdateAppointment_RequiresLoadedStatus(t *testing.T) {
	gdb := dbtest.Open(t)
	f := dbtest.Seed(t, gdb)
	repo := NewAppointmentGormRepository(gdb)

	seeded := seedAppointment(t, gdb, f, appointment.StatusConfirmed, slot(10, 0))

	first, err := repo.GetAppointment(ctx, f.Tenant.ID, seeded.ID)
	require.NoError(t, err)
	stale, err := repo.GetAppointment(ctx, f.Tenant.ID, seeded.ID)
	require.NoError(t, err)

	_, err = appointment.Transition(first, appointment.StatusCompleted, now)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateAppointment(ctx, first, appointment.StatusConfirmed))

	require.NoError(t, appointment.Cancel(stale, now))
	err = repo.UpdateAppointment(ctx, stale, appointment.StatusConfirmed)
	assert.ErrorIs(t, err, appointment.ErrConcurrentUpdate)

	got, err := repo.GetAppointment(ctx, f.Tenant.ID, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, string(appointment.StatusCompleted), got.Status)
	assert.NotNil(t, got.CompletedAt)
	assert.Nil(t, got.CancelledAt)

	foreign := *got
	foreign.TenantID = uuid.New()
	foreign.Notes = "moved"
	err = repo.UpdateAppointment(ctx, &foreign, appointment.StatusCompleted)
	assert.ErrorIs(t, err, appointment.ErrConcurrentUpdate, "tenant scoped")
}

func TestBusyIntervals_ExcludesOwnSession(t *testing.T) {
	gdb := dbtest.Open(t)
	f := dbtest.Seed(t, gdb)
	locks := NewSlotLockGormRepository(gdb)
	repo := NewAppointmentGormRepository(gdb)

	seedAppointment(t, gdb, f, appointment.StatusConfirmed, slot(10, 0))
	seedAppointment(t, gdb, f, appointment.StatusNoShow, slot(11, 0))
	require.NoError(t, locks.Acquire(ctx, newLock(f, "mine", slot(12, 0), 30), now))
	require.NoError(t, locks.Acquire(ctx, newLock(f, "theirs", slot(13, 0), 30), now))

	q := appointment.BusyQuery{
		TenantID: f.Tenant.ID,
		StaffID:  f.Staff.ID,
		From:     slot(0, 0),
		To:       slot(23, 0),
		Now:      now,
	}
	busy, err := repo.BusyIntervals(ctx, q)
	require.NoError(t, err)
	assert.Len(t, busy, 3)

	q.ExcludeSession = "mine"
	busy, err = repo.BusyIntervals(ctx, q)
	require.NoError(t, err)
	assert.Len(t, busy, 2)

	q.Now = now.Add(time.Hour)
	busy, err = repo.BusyIntervals(ctx, q)
	require.NoError(t, err)
	assert.Len(t, busy, 1, "expired locks are not busy")
}

func TestCountByStatusAndStalePending(t *testing.T) {
	gdb := dbtest.Open(t)
	f := dbtest.Seed(t, gdb)
	repo := NewAppointmentGormRepository(gdb)

	seedAppointment(t, gdb, f, appointment.StatusConfirmed, slot(9, 0))
	seedAppointment(t, gdb, f, appointment.StatusConfirmed, slot(10, 0))
	seedAppointment(t, gdb, f, appointment.StatusPendingPayment, slot(11, 0))

	counts, err := repo.CountByStatus(ctx, f.Tenant.ID, slot(0, 0), slot(23, 59))
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts["confirmed"])
	assert.EqualValues(t, 1, counts["pending_payment"])

	stale, err := repo.ListStalePending(ctx, time.Now().UTC().Add(time.Minute), 10)
	require.NoError(t, err)
	assert.Len(t, stale, 1)

	stale, err = repo.ListStalePending(ctx, time.Now().UTC().Add(-time.Hour), 10)
	require.NoError(t, err)
	assert.Empty(t, stale)
}

// --------------------------------------------------
// Tenants and catalog
// --------------------------------------------------

func TestTenant_GetBySlug(t *testing.T) {
	gdb := dbtest.Open(t)
	f := dbtest.Seed(t, gdb)
	repo := NewTenantGormRepository(gdb)

	got, err := repo.GetBySlug(ctx, "  ACME ")
	require.NoError(t, err)
	assert.Equal(t, f.Tenant.ID, got.ID)

	_, err = repo.GetBySlug(ctx, "nobody")
	assert.ErrorIs(t, err, tenant.ErrNotFound)

	exists, err := repo.SlugExists(ctx, "acme")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestTenant_RegisterCreatesOwner(t *testing.T) {
	gdb := dbtest.Open(t)
	repo := NewTenantGormRepository(gdb)

	tn := &models.Tenant{Name: "Beta", Slug: "beta", Timezone: "UTC", Currency: "USD", Status: models.TenantActive}
	owner := &models.User{Name: "Owner", Email: "owner@beta.io", PasswordHash: "x", Role: "owner"}
	require.NoError(t, repo.Register(ctx, tn, owner))

	u, err := repo.GetUserByEmail(ctx, "OWNER@beta.io")
	require.NoError(t, err)
	assert.Equal(t, tn.ID, u.TenantID)
	assert.Equal(t, "beta", u.Tenant.Slug)

	_, err = repo.GetUser(ctx, uuid.New(), u.ID)
	assert.ErrorIs(t, err, tenant.ErrUserNotFound)
}

func TestCatalog_StaffForService(t *testing.T) {
	gdb := dbtest.Open(t)
	f := dbtest.Seed(t, gdb)
	repo := NewCatalogGormRepository(gdb)

	retired := models.Staff{TenantID: f.Tenant.ID, Name: "Ola", IsActive: false}
	require.NoError(t, gdb.Create(&retired).Error)
	require.NoError(t, repo.SetServiceStaff(ctx, f.Tenant.ID, f.Service.ID, []uuid.UUID{f.Staff.ID, retired.ID, f.Staff.ID}))

	active, err := repo.ListStaffForService(ctx, f.Tenant.ID, f.Service.ID, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Jane", active[0].Name)

	everyone, err := repo.ListStaffForService(ctx, f.Tenant.ID, f.Service.ID, false)
	require.NoError(t, err)
	assert.Len(t, everyone, 2)

	ok, err := repo.IsAssigned(ctx, f.Service.ID, retired.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCatalog_SetServiceStaffRejectsForeignStaff(t *testing.T) {
	gdb := dbtest.Open(t)
	f := dbtest.Seed(t, gdb)
	repo := NewCatalogGormRepository(gdb)

	err := repo.SetServiceStaff(ctx, f.Tenant.ID, f.Service.ID, []uuid.UUID{uuid.New()})
	assert.ErrorIs(t, err, catalog.ErrStaffNotFound)

	ok, err := repo.IsAssigned(ctx, f.Service.ID, f.Staff.ID)
	require.NoError(t, err)
	assert.True(t, ok, "failed replace keeps the previous assignment")
}

func TestCatalog_ServicesAndWorkingHours(t *testing.T) {
	gdb := dbtest.Open(t)
	f := dbtest.Seed(t, gdb)
	repo := NewCatalogGormRepository(gdb)

	hidden := models.Service{TenantID: f.Tenant.ID, Name: "Beard", DurationMinutes: 15}
	require.NoError(t, repo.CreateService(ctx, &hidden))

	active, err := repo.ListServices(ctx, f.Tenant.ID, true)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	_, err = repo.GetService(ctx, uuid.New(), f.Service.ID)
	assert.ErrorIs(t, err, catalog.ErrServiceNotFound)

	found, err := repo.FindService(ctx, f.Service.ID)
	require.NoError(t, err)
	assert.Equal(t, f.Tenant.ID, found.TenantID)

	date := "2024-12-25"
	require.NoError(t, repo.ReplaceWorkingHours(ctx, f.Staff.ID, []models.StaffWorkingHours{
		{Date: &date, IsClosed: true},
	}))
	rows, err := repo.ListWorkingHours(ctx, f.Staff.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].IsClosed)
}
