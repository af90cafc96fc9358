package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/binda/internal/cache"
	domain "github.com/BruksfildServices01/binda/internal/domain/appointment"
	"github.com/BruksfildServices01/binda/internal/dto"
	"github.com/BruksfildServices01/binda/internal/httperr"
	"github.com/BruksfildServices01/binda/internal/policy"
	"github.com/BruksfildServices01/binda/internal/tenancy"
	"github.com/BruksfildServices01/binda/internal/timezone"
)

type ListAppointmentsByDate struct {
	repo  domain.Repository
	cache cache.Listings
}

func NewListAppointmentsByDate(repo domain.Repository, listings cache.Listings) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{repo: repo, cache: listings}
}

// Execute lists one tenant-local calendar day. Staff members only ever see
// their own column; staffID narrows the listing for everyone else.
func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	tc tenancy.Context,
	date string,
	staffID *uuid.UUID,
) ([]dto.AppointmentListDTO, error) {
	if err := policy.Authorize(tc, tc.TenantID, policy.Appointment, policy.Read); err != nil {
		return nil, err
	}

	start, err := timezone.ParseDate(date, tc.Timezone)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}
	end := start.AddDate(0, 0, 1)

	staffID = scopeStaff(tc, staffID)
	key := fmt.Sprintf("day:%s:%s:%s", start.Format("2006-01-02"), tc.Timezone, staffKey(staffID))

	var out []dto.AppointmentListDTO
	entry, hit, err := uc.cache.Get(ctx, tc.TenantID, key, &out)
	if err == nil && hit {
		return out, nil
	}

	apps, err := uc.repo.ListForPeriod(ctx, tc.TenantID, staffID, start, end)
	if err != nil {
		return nil, err
	}

	out = dto.NewAppointmentList(apps, tc.Timezone)
	// entry keeps the version read before the query
	_ = uc.cache.Set(ctx, entry, out)
	return out, nil
}

func scopeStaff(tc tenancy.Context, staffID *uuid.UUID) *uuid.UUID {
	if tc.Actor.Role == tenancy.RoleStaff {
		if tc.Actor.StaffID == nil {
			// a staff login without a staff record sees nothing
			none := uuid.Nil
			return &none
		}
		return tc.Actor.StaffID
	}
	return staffID
}

func staffKey(staffID *uuid.UUID) string {
	if staffID == nil {
		return "all"
	}
	return staffID.String()
}
