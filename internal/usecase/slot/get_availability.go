package slot

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	appointment "github.com/BruksfildServices01/binda/internal/domain/appointment"
	catalog "github.com/BruksfildServices01/binda/internal/domain/catalog"
	"github.com/BruksfildServices01/binda/internal/httperr"
	"github.com/BruksfildServices01/binda/internal/models"
	"github.com/BruksfildServices01/binda/internal/policy"
	"github.com/BruksfildServices01/binda/internal/tenancy"
	"github.com/BruksfildServices01/binda/internal/timezone"
	"github.com/BruksfildServices01/binda/internal/usecase/tenant"
)

type AvailabilityInput struct {
	ServiceID uuid.UUID
	StaffID   uuid.UUID
	Date      string
	SessionID string
}

type Availability struct {
	Date     string                 `json:"date"`
	Timezone string                 `json:"timezone"`
	Slots    []appointment.TimeSlot `json:"slots"`
}

type GetAvailability struct {
	catalog  catalog.Repository
	repo     appointment.Repository
	resolver *tenant.Resolver

	Now func() time.Time
}

func NewGetAvailability(cat catalog.Repository, repo appointment.Repository, resolver *tenant.Resolver) *GetAvailability {
	return &GetAvailability{catalog: cat, repo: repo, resolver: resolver, Now: time.Now}
}

func (uc *GetAvailability) Execute(ctx context.Context, in AvailabilityInput) (*Availability, error) {
	tg, err := eligible(ctx, uc.catalog, uc.resolver, in.ServiceID, in.StaffID)
	if err != nil {
		return nil, err
	}

	tc := tenancy.Public(tg.tenant, in.SessionID)
	if err := policy.Authorize(tc, tg.tenant.ID, policy.Availability, policy.Read); err != nil {
		return nil, err
	}

	day, err := timezone.ParseDate(in.Date, tc.Timezone)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}
	nextDay := day.AddDate(0, 0, 1)

	var (
		rows []models.StaffWorkingHours
		busy []appointment.Interval
		now  = uc.Now().UTC()
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = uc.catalog.ListWorkingHours(gctx, tg.staff.ID)
		return err
	})
	g.Go(func() error {
		var err error
		busy, err = uc.repo.BusyIntervals(gctx, appointment.BusyQuery{
			TenantID:       tg.tenant.ID,
			StaffID:        tg.staff.ID,
			From:           day,
			To:             nextDay,
			Now:            now,
			ExcludeSession: in.SessionID,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	windows := appointment.WindowsForDate(rows, day, tc.Timezone)
	notBefore := now.Add(time.Duration(tg.tenant.MinAdvanceMinutes) * time.Minute)

	return &Availability{
		Date:     day.Format("2006-01-02"),
		Timezone: tc.Timezone,
		Slots:    appointment.BuildSlots(windows, busy, tg.service.Duration(), notBefore, tc.Location()),
	}, nil
}
