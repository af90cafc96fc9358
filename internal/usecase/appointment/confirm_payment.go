package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/binda/internal/domain/appointment"
	"github.com/BruksfildServices01/binda/internal/httperr"
	"github.com/BruksfildServices01/binda/internal/infra/payment"
	"github.com/BruksfildServices01/binda/internal/models"
	"github.com/BruksfildServices01/binda/internal/policy"
	"github.com/BruksfildServices01/binda/internal/tenancy"
	"github.com/BruksfildServices01/binda/internal/usecase/tenant"
)

type ConfirmPayment struct {
	repo     domain.Repository
	resolver *tenant.Resolver
	gateway  payment.Gateway
	effects  Effects

	Now func() time.Time
}

func NewConfirmPayment(repo domain.Repository, resolver *tenant.Resolver, gateway payment.Gateway, effects Effects) *ConfirmPayment {
	return &ConfirmPayment{repo: repo, resolver: resolver, gateway: gateway, effects: effects, Now: time.Now}
}

// Execute asks the gateway about paymentID and moves the appointment:
// approved confirms it when amount and currency match the service, rejected
// or cancelled cancels it while it is still unpaid, anything else leaves it
// as it is.
func (uc *ConfirmPayment) Execute(ctx context.Context, tenantID, appointmentID uuid.UUID, paymentID string) (*models.Appointment, error) {
	if uc.gateway == nil {
		return nil, httperr.ErrBusiness("payments_disabled")
	}

	t, err := uc.resolver.ResolveByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	tc := tenancy.Public(t, "")
	if err := policy.Authorize(tc, t.ID, policy.Booking, policy.Update); err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointment(ctx, t.ID, appointmentID)
	if err != nil {
		return nil, err
	}

	v, err := uc.gateway.Verify(ctx, paymentID)
	if errors.Is(err, payment.ErrInvalidPaymentID) {
		return nil, httperr.ErrBusiness("invalid_payment_id")
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}
	if v.ExternalReference != ap.ID.String() {
		return nil, httperr.ErrBusiness("payment_mismatch")
	}

	var target domain.Status
	switch v.Status {
	case payment.StatusApproved:
		if !coversCharge(v, ap.Service.Price, t.Currency) {
			uc.effects.Log.Warn("payment does not cover booking",
				"appointment_id", ap.ID, "payment_id", paymentID,
				"amount", v.Amount.String(), "currency", v.Currency,
			)
			return nil, httperr.ErrBusiness("payment_mismatch")
		}
		target = domain.StatusConfirmed
	case payment.StatusRejected, payment.StatusCancelled:
		// a declined attempt says nothing about a booking already paid
		if ap.Status != string(domain.StatusPendingPayment) {
			return ap, nil
		}
		target = domain.StatusCancelled
	default:
		return ap, nil
	}

	now := uc.Now().UTC()
	from := ap.Status
	changed, err := domain.Transition(ap, target, now)
	if err != nil {
		return nil, err
	}
	if !changed {
		return ap, nil
	}

	ap.PaymentReference = paymentID
	if err := uc.repo.UpdateAppointment(ctx, ap, domain.Status(from)); err != nil {
		return nil, err
	}
	uc.effects.Transitioned(ctx, ap, from, nil, now)
	return ap, nil
}

func coversCharge(v *payment.Verification, price decimal.Decimal, currency string) bool {
	if v.Currency != "" && !strings.EqualFold(v.Currency, currency) {
		return false
	}
	return v.Amount.Round(2).Equal(price.Round(2))
}
