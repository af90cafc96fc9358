package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/binda/internal/domain/appointment"
	"github.com/BruksfildServices01/binda/internal/dto"
	"github.com/BruksfildServices01/binda/internal/httperr"
	"github.com/BruksfildServices01/binda/internal/policy"
	"github.com/BruksfildServices01/binda/internal/tenancy"
)

type ListAppointmentsByMonth struct {
	repo domain.Repository
}

func NewListAppointmentsByMonth(repo domain.Repository) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{repo: repo}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	tc tenancy.Context,
	year int,
	month int,
	staffID *uuid.UUID,
) ([]dto.AppointmentListDTO, error) {
	if err := policy.Authorize(tc, tc.TenantID, policy.Appointment, policy.Read); err != nil {
		return nil, err
	}
	if year < 2000 || year > 2100 || month < 1 || month > 12 {
		return nil, httperr.ErrBusiness("invalid_month")
	}

	loc := tc.Location()
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)

	apps, err := uc.repo.ListForPeriod(ctx, tc.TenantID, scopeStaff(tc, staffID), start, end)
	if err != nil {
		return nil, err
	}
	return dto.NewAppointmentList(apps, tc.Timezone), nil
}
