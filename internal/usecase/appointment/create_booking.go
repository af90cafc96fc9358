package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/binda/internal/domain/appointment"
	catalog "github.com/BruksfildServices01/binda/internal/domain/catalog"
	"github.com/BruksfildServices01/binda/internal/httperr"
	"github.com/BruksfildServices01/binda/internal/infra/payment"
	"github.com/BruksfildServices01/binda/internal/infra/redislock"
	"github.com/BruksfildServices01/binda/internal/models"
	"github.com/BruksfildServices01/binda/internal/policy"
	"github.com/BruksfildServices01/binda/internal/tenancy"
	"github.com/BruksfildServices01/binda/internal/usecase/tenant"
)

// ErrPaymentGateway wraps gateway failures; the booking has been cancelled.
var ErrPaymentGateway = errors.New("payment gateway failure")

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	TenantID  uuid.UUID
	LockID    uuid.UUID
	SessionID string
	AttemptID string
	Customer  domain.CustomerInput
	Notes     string
}

type BookingResult struct {
	Appointment *models.Appointment
	// Replayed is set when AttemptID matched an earlier booking.
	Replayed bool
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo     domain.Repository
	locks    domain.LockRepository
	catalog  catalog.Repository
	resolver *tenant.Resolver
	locker   redislock.Locker
	gateway  payment.Gateway
	effects  Effects

	Now func() time.Time
}

// NewCreateBooking accepts a nil gateway; every booking is then confirmed
// immediately.
func NewCreateBooking(
	repo domain.Repository,
	locks domain.LockRepository,
	cat catalog.Repository,
	resolver *tenant.Resolver,
	locker redislock.Locker,
	gateway payment.Gateway,
	effects Effects,
) *CreateBooking {
	return &CreateBooking{
		repo:     repo,
		locks:    locks,
		catalog:  cat,
		resolver: resolver,
		locker:   locker,
		gateway:  gateway,
		effects:  effects,
		Now:      time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(ctx context.Context, in CreateBookingInput) (*BookingResult, error) {
	if err := validateBooking(in); err != nil {
		return nil, err
	}

	t, err := uc.resolver.ResolveByID(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}
	tc := tenancy.Public(t, in.SessionID)
	if err := policy.Authorize(tc, t.ID, policy.Booking, policy.Create); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Replay
	// --------------------------------------------------
	if in.AttemptID != "" {
		existing, err := uc.repo.FindByAttempt(ctx, t.ID, in.AttemptID)
		if err == nil {
			if existing.SessionID != in.SessionID {
				return nil, domain.ErrAttemptConflict
			}
			ap, err := uc.repo.GetAppointment(ctx, t.ID, existing.ID)
			if err != nil {
				return nil, err
			}
			return &BookingResult{Appointment: ap, Replayed: true}, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	// --------------------------------------------------
	// Lock and service
	// --------------------------------------------------
	now := uc.Now().UTC()
	lock, err := uc.locks.GetActive(ctx, t.ID, in.LockID, in.SessionID, now)
	if err != nil {
		return nil, err
	}

	svc, err := uc.catalog.GetService(ctx, t.ID, lock.ServiceID)
	if err != nil {
		return nil, err
	}
	requiresPayment := svc.Priced() && uc.gateway != nil

	// --------------------------------------------------
	// Convert lock into appointment
	// --------------------------------------------------
	draft := domain.BookingDraft{
		TenantID:  t.ID,
		LockID:    lock.ID,
		SessionID: in.SessionID,
		AttemptID: in.AttemptID,
		Customer:  in.Customer,
		Notes:     strings.TrimSpace(in.Notes),
		Status:    domain.InitialStatus(requiresPayment),
	}

	var ap *models.Appointment
	var replayed bool
	err = uc.locker.WithLock(ctx, "staff:"+lock.StaffID.String(), func() error {
		var err error
		ap, replayed, err = uc.repo.CreateBooking(ctx, draft, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	if replayed {
		// a concurrent request with the same attempt booked first
		return &BookingResult{Appointment: ap, Replayed: true}, nil
	}

	uc.effects.booked(ctx, ap, now)

	if ap.Status != string(domain.StatusPendingPayment) {
		return &BookingResult{Appointment: ap}, nil
	}

	// --------------------------------------------------
	// Payment
	// --------------------------------------------------
	checkout, err := uc.gateway.Initialize(ctx, payment.Charge{
		AppointmentID: ap.ID,
		Title:         svc.Name,
		Amount:        svc.Price,
		Currency:      t.Currency,
		PayerEmail:    ap.Customer.Email,
	})
	if err != nil {
		uc.abandon(ctx, ap, now)
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}

	ap.PaymentReference = checkout.Reference
	ap.CheckoutURL = checkout.URL
	if err := uc.repo.UpdateAppointment(ctx, ap, domain.StatusPendingPayment); err != nil {
		return nil, err
	}

	return &BookingResult{Appointment: ap}, nil
}

// abandon cancels a booking whose payment could not be started so the slot
// frees up.
func (uc *CreateBooking) abandon(ctx context.Context, ap *models.Appointment, now time.Time) {
	from := ap.Status
	if err := domain.Cancel(ap, now); err != nil {
		uc.effects.Log.Error("cancel after payment failure", "appointment_id", ap.ID, "error", err)
		return
	}
	if err := uc.repo.UpdateAppointment(ctx, ap, domain.Status(from)); err != nil {
		uc.effects.Log.Error("cancel after payment failure", "appointment_id", ap.ID, "error", err)
		return
	}
	uc.effects.Transitioned(ctx, ap, from, nil, now)
}

func validateBooking(in CreateBookingInput) error {
	switch {
	case in.TenantID == uuid.Nil:
		return httperr.ErrBusiness("tenant_required")
	case in.LockID == uuid.Nil:
		return httperr.ErrBusiness("lock_required")
	case in.SessionID == "":
		return httperr.ErrBusiness("session_required")
	case strings.TrimSpace(in.Customer.Name) == "":
		return httperr.ErrBusiness("customer_name_required")
	case strings.TrimSpace(in.Customer.Email) == "" && strings.TrimSpace(in.Customer.Phone) == "":
		return httperr.ErrBusiness("customer_contact_required")
	case len(in.AttemptID) > 64:
		return httperr.ErrBusiness("invalid_attempt_id")
	}
	return nil
}
