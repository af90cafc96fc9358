package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/binda/internal/models"
)

var (
	ErrNotFound        = errors.New("appointment not found")
	ErrSlotUnavailable = errors.New("slot no longer available")
	ErrLockNotFound    = errors.New("slot lock not found or expired")

	// ErrConcurrentUpdate means the stored status moved on after the caller
	// loaded the appointment.
	ErrConcurrentUpdate = errors.New("appointment changed concurrently")

	// ErrAttemptConflict means the attempt id belongs to another session.
	ErrAttemptConflict = errors.New("attempt id used by another session")
)

// BusyQuery selects everything that occupies a staff member's time in
// [From, To). Locks held by ExcludeSession are ignored so a customer does
// not see their own selection as taken.
type BusyQuery struct {
	TenantID       uuid.UUID
	StaffID        uuid.UUID
	From           time.Time
	To             time.Time
	Now            time.Time
	ExcludeSession string
}

type CustomerInput struct {
	Name  string
	Email string
	Phone string
}

// BookingDraft converts a held slot lock into an appointment.
type BookingDraft struct {
	TenantID  uuid.UUID
	LockID    uuid.UUID
	SessionID string
	AttemptID string
	Customer  CustomerInput
	Notes     string
	Status    Status
}

type LockRepository interface {
	// Acquire inserts lock unless an unexpired lock of another session or an
	// occupying appointment overlaps it. Expired locks of the staff member
	// and the session's own earlier locks for that staff member are removed
	// in the same transaction.
	Acquire(ctx context.Context, lock *models.SlotLock, now time.Time) error

	// Release deletes the lock only when sessionID owns it. A missing row is
	// not an error.
	Release(ctx context.Context, lockID uuid.UUID, sessionID string) (bool, error)

	GetActive(ctx context.Context, tenantID, lockID uuid.UUID, sessionID string, now time.Time) (*models.SlotLock, error)

	// FindOwned returns the lock held by sessionID, expired or not.
	FindOwned(ctx context.Context, lockID uuid.UUID, sessionID string) (*models.SlotLock, error)

	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type Repository interface {
	// -------- Availability --------
	BusyIntervals(ctx context.Context, q BusyQuery) ([]Interval, error)

	// -------- Booking --------
	FindByAttempt(ctx context.Context, tenantID uuid.UUID, attemptID string) (*models.Appointment, error)

	// CreateBooking runs in one transaction: consume the lock, re-check
	// overlap, get or create the customer and insert the appointment.
	// replayed is true when the draft's attempt id already produced an
	// appointment for the same session; that appointment is returned as is.
	CreateBooking(ctx context.Context, draft BookingDraft, now time.Time) (ap *models.Appointment, replayed bool, err error)

	// -------- State change --------
	GetAppointment(ctx context.Context, tenantID, id uuid.UUID) (*models.Appointment, error)

	// UpdateAppointment writes ap only while the stored status still equals
	// from, and returns ErrConcurrentUpdate otherwise.
	UpdateAppointment(ctx context.Context, ap *models.Appointment, from Status) error
	ListStalePending(ctx context.Context, createdBefore time.Time, limit int) ([]models.Appointment, error)

	// -------- Dashboard --------
	ListForPeriod(ctx context.Context, tenantID uuid.UUID, staffID *uuid.UUID, start, end time.Time) ([]models.Appointment, error)
	CountByStatus(ctx context.Context, tenantID uuid.UUID, start, end time.Time) (map[string]int64, error)
	ListCustomers(ctx context.Context, tenantID uuid.UUID, query string) ([]models.Customer, error)
}
