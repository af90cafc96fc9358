package slot

import (
	"context"

	"github.com/google/uuid"

	catalog "github.com/BruksfildServices01/binda/internal/domain/catalog"
	"github.com/BruksfildServices01/binda/internal/models"
	"github.com/BruksfildServices01/binda/internal/usecase/tenant"
)

// target is a bookable (tenant, service, staff) triple.
type target struct {
	tenant  *models.Tenant
	service *models.Service
	staff   *models.Staff
}

// eligible resolves the tenant from the service and checks that the service
// and staff member are active, belong to it and are linked. Every failure
// looks like a missing service or staff member.
func eligible(ctx context.Context, repo catalog.Repository, resolver *tenant.Resolver, serviceID, staffID uuid.UUID) (*target, error) {
	svc, err := repo.FindService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive || svc.DurationMinutes <= 0 {
		return nil, catalog.ErrServiceNotFound
	}

	t, err := resolver.ResolveByID(ctx, svc.TenantID)
	if err != nil {
		return nil, err
	}

	staff, err := repo.GetStaff(ctx, t.ID, staffID)
	if err != nil {
		return nil, err
	}
	if !staff.IsActive {
		return nil, catalog.ErrStaffNotFound
	}

	ok, err := repo.IsAssigned(ctx, svc.ID, staff.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, catalog.ErrStaffNotFound
	}

	return &target{tenant: t, service: svc, staff: staff}, nil
}
