package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/binda/internal/domain/appointment"
	"github.com/BruksfildServices01/binda/internal/models"
	"github.com/BruksfildServices01/binda/internal/policy"
	"github.com/BruksfildServices01/binda/internal/tenancy"
)

type Summary struct {
	Date   string           `json:"date"`
	Counts map[string]int64 `json:"counts"`
	Total  int64            `json:"total"`
}

type Dashboard struct {
	repo domain.Repository

	Now func() time.Time
}

func NewDashboard(repo domain.Repository) *Dashboard {
	return &Dashboard{repo: repo, Now: time.Now}
}

// Today counts the tenant's appointments for the current local day by status.
func (uc *Dashboard) Today(ctx context.Context, tc tenancy.Context) (*Summary, error) {
	if err := policy.Authorize(tc, tc.TenantID, policy.Appointment, policy.Read); err != nil {
		return nil, err
	}

	local := uc.Now().In(tc.Location())
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, tc.Location())

	counts, err := uc.repo.CountByStatus(ctx, tc.TenantID, start, start.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	s := &Summary{Date: start.Format("2006-01-02"), Counts: map[string]int64{}}
	for _, st := range []domain.Status{
		domain.StatusPendingPayment, domain.StatusConfirmed, domain.StatusCompleted,
		domain.StatusNoShow, domain.StatusCancelled,
	} {
		s.Counts[string(st)] = counts[string(st)]
		s.Total += counts[string(st)]
	}
	return s, nil
}

func (uc *Dashboard) Customers(ctx context.Context, tc tenancy.Context, query string) ([]models.Customer, error) {
	if err := policy.Authorize(tc, tc.TenantID, policy.Customer, policy.Read); err != nil {
		return nil, err
	}
	return uc.repo.ListCustomers(ctx, tc.TenantID, query)
}
