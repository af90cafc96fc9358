package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/binda/internal/domain/catalog"
	"github.com/BruksfildServices01/binda/internal/models"
	"github.com/BruksfildServices01/binda/internal/policy"
	"github.com/BruksfildServices01/binda/internal/tenancy"
	"github.com/BruksfildServices01/binda/internal/usecase/tenant"
)

// Public serves the booking page: only active rows of active tenants.
type Public struct {
	repo     domain.Repository
	resolver *tenant.Resolver
}

func NewPublic(repo domain.Repository, resolver *tenant.Resolver) *Public {
	return &Public{repo: repo, resolver: resolver}
}

// Services lists the tenant's active services ordered by name.
func (uc *Public) Services(ctx context.Context, tc tenancy.Context) ([]models.Service, error) {
	if err := policy.Authorize(tc, tc.TenantID, policy.Catalog, policy.Read); err != nil {
		return nil, err
	}
	return uc.repo.ListServices(ctx, tc.TenantID, true)
}

// StaffForService resolves the owning tenant from the service and lists the
// active staff assigned to it. Inactive services and tenants look missing.
func (uc *Public) StaffForService(ctx context.Context, serviceID uuid.UUID, sessionID string) ([]models.Staff, error) {
	svc, err := uc.repo.FindService(ctx, serviceID)
	if errors.Is(err, domain.ErrServiceNotFound) {
		return nil, domain.ErrServiceNotFound
	}
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, domain.ErrServiceNotFound
	}

	t, err := uc.resolver.ResolveByID(ctx, svc.TenantID)
	if err != nil {
		return nil, err
	}

	tc := tenancy.Public(t, sessionID)
	if err := policy.Authorize(tc, svc.TenantID, policy.Catalog, policy.Read); err != nil {
		return nil, err
	}
	return uc.repo.ListStaffForService(ctx, t.ID, svc.ID, true)
}
