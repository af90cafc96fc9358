// Package payment initialises and verifies customer payments.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/shopspring/decimal"
)

var ErrInvalidPaymentID = errors.New("invalid payment id")

type Status string

const (
	StatusApproved  Status = "approved"
	StatusPending   Status = "pending"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

type Charge struct {
	AppointmentID uuid.UUID
	Title         string
	Amount        decimal.Decimal
	Currency      string
	PayerEmail    string
}

type Checkout struct {
	Reference string
	URL       string
}

type Verification struct {
	Status            Status
	ExternalReference string
	Amount            decimal.Decimal
	Currency          string
}

type Gateway interface {
	Initialize(ctx context.Context, c Charge) (*Checkout, error)
	Verify(ctx context.Context, paymentID string) (*Verification, error)
}

type Options struct {
	AccessToken     string
	SuccessURL      string
	FailureURL      string
	NotificationURL string
}

type MercadoPago struct {
	preferences preference.Client
	payments    mppayment.Client
	opts        Options
}

func NewMercadoPago(opts Options) (*MercadoPago, error) {
	cfg, err := config.New(opts.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	return &MercadoPago{
		preferences: preference.NewClient(cfg),
		payments:    mppayment.NewClient(cfg),
		opts:        opts,
	}, nil
}

func (m *MercadoPago) Initialize(ctx context.Context, c Charge) (*Checkout, error) {
	req := preference.Request{
		ExternalReference: c.AppointmentID.String(),
		NotificationURL:   m.opts.NotificationURL,
		Items: []preference.ItemRequest{{
			ID:         c.AppointmentID.String(),
			Title:      c.Title,
			Quantity:   1,
			UnitPrice:  c.Amount.InexactFloat64(),
			CurrencyID: c.Currency,
		}},
	}
	if c.PayerEmail != "" {
		req.Payer = &preference.PayerRequest{Email: c.PayerEmail}
	}
	if m.opts.SuccessURL != "" {
		req.BackURLs = &preference.BackURLsRequest{
			Success: m.opts.SuccessURL,
			Pending: m.opts.SuccessURL,
			Failure: m.opts.FailureURL,
		}
		req.AutoReturn = "approved"
	}

	res, err := m.preferences.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create preference: %w", err)
	}
	return &Checkout{Reference: res.ID, URL: res.InitPoint}, nil
}

func (m *MercadoPago) Verify(ctx context.Context, paymentID string) (*Verification, error) {
	id, err := strconv.Atoi(paymentID)
	if err != nil || id <= 0 {
		return nil, ErrInvalidPaymentID
	}

	res, err := m.payments.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return &Verification{
		Status:            MapStatus(res.Status),
		ExternalReference: res.ExternalReference,
		Amount:            decimal.NewFromFloat(res.TransactionAmount),
		Currency:          res.CurrencyID,
	}, nil
}

// MapStatus folds the gateway's statuses into the four the booking flow acts on.
func MapStatus(s string) Status {
	switch s {
	case "approved", "authorized":
		return StatusApproved
	case "rejected":
		return StatusRejected
	case "cancelled", "refunded", "charged_back":
		return StatusCancelled
	default:
		return StatusPending
	}
}

var _ Gateway = (*MercadoPago)(nil)
