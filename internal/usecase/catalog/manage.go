package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/binda/internal/audit"
	"github.com/BruksfildServices01/binda/internal/cache"
	appointment "github.com/BruksfildServices01/binda/internal/domain/appointment"
	domain "github.com/BruksfildServices01/binda/internal/domain/catalog"
	"github.com/BruksfildServices01/binda/internal/httperr"
	"github.com/BruksfildServices01/binda/internal/models"
	"github.com/BruksfildServices01/binda/internal/policy"
	"github.com/BruksfildServices01/binda/internal/tenancy"
)

type ServiceInput struct {
	Name            *string
	Description     *string
	DurationMinutes *int
	Price           *decimal.Decimal
	IsActive        *bool
}

type StaffInput struct {
	Name     *string
	Email    *string
	IsActive *bool
}

// Manage is the dashboard side of the catalog.
type Manage struct {
	repo  domain.Repository
	cache cache.Listings
	audit audit.Recorder
}

func NewManage(repo domain.Repository, listings cache.Listings, rec audit.Recorder) *Manage {
	return &Manage{repo: repo, cache: listings, audit: rec}
}

// ======================================================
// SERVICES
// ======================================================

func (uc *Manage) ListServices(ctx context.Context, tc tenancy.Context) ([]models.Service, error) {
	if err := policy.Authorize(tc, tc.TenantID, policy.Catalog, policy.Read); err != nil {
		return nil, err
	}
	return uc.repo.ListServices(ctx, tc.TenantID, false)
}

func (uc *Manage) CreateService(ctx context.Context, tc tenancy.Context, in ServiceInput) (*models.Service, error) {
	if err := policy.Authorize(tc, tc.TenantID, policy.Catalog, policy.Create); err != nil {
		return nil, err
	}

	s := &models.Service{TenantID: tc.TenantID, Price: decimal.Zero, IsActive: true}
	if err := applyService(s, in); err != nil {
		return nil, err
	}
	if s.Name == "" {
		return nil, httperr.ErrBusiness("name_required")
	}
	if s.DurationMinutes <= 0 {
		return nil, httperr.ErrBusiness("invalid_duration")
	}

	if err := uc.repo.CreateService(ctx, s); err != nil {
		return nil, err
	}
	uc.record(tc, "service_created", "service", s.ID)
	return s, nil
}

func (uc *Manage) UpdateService(ctx context.Context, tc tenancy.Context, id uuid.UUID, in ServiceInput) (*models.Service, error) {
	s, err := uc.repo.GetService(ctx, tc.TenantID, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(tc, s.TenantID, policy.Catalog, policy.Update); err != nil {
		return nil, err
	}

	if err := applyService(s, in); err != nil {
		return nil, err
	}
	if s.Name == "" {
		return nil, httperr.ErrBusiness("name_required")
	}

	if err := uc.repo.SaveService(ctx, s); err != nil {
		return nil, err
	}
	_ = uc.cache.Invalidate(ctx, tc.TenantID)
	uc.record(tc, "service_updated", "service", s.ID)
	return s, nil
}

func applyService(s *models.Service, in ServiceInput) error {
	if in.Name != nil {
		s.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		s.Description = strings.TrimSpace(*in.Description)
	}
	if in.DurationMinutes != nil {
		if *in.DurationMinutes <= 0 {
			return httperr.ErrBusiness("invalid_duration")
		}
		s.DurationMinutes = *in.DurationMinutes
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return httperr.ErrBusiness("invalid_price")
		}
		s.Price = in.Price.Round(2)
	}
	if in.IsActive != nil {
		s.IsActive = *in.IsActive
	}
	return nil
}

// SetServiceStaff replaces the staff who perform the service.
func (uc *Manage) SetServiceStaff(ctx context.Context, tc tenancy.Context, serviceID uuid.UUID, staffIDs []uuid.UUID) ([]models.Staff, error) {
	s, err := uc.repo.GetService(ctx, tc.TenantID, serviceID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(tc, s.TenantID, policy.Catalog, policy.Update); err != nil {
		return nil, err
	}

	if err := uc.repo.SetServiceStaff(ctx, tc.TenantID, s.ID, staffIDs); err != nil {
		return nil, err
	}
	uc.record(tc, "service_staff_updated", "service", s.ID)
	return uc.repo.ListStaffForService(ctx, tc.TenantID, s.ID, false)
}

// ======================================================
// STAFF
// ======================================================

func (uc *Manage) ListStaff(ctx context.Context, tc tenancy.Context) ([]models.Staff, error) {
	if err := policy.Authorize(tc, tc.TenantID, policy.Catalog, policy.Read); err != nil {
		return nil, err
	}
	return uc.repo.ListStaff(ctx, tc.TenantID, false)
}

func (uc *Manage) CreateStaff(ctx context.Context, tc tenancy.Context, in StaffInput) (*models.Staff, error) {
	if err := policy.Authorize(tc, tc.TenantID, policy.Catalog, policy.Create); err != nil {
		return nil, err
	}

	s := &models.Staff{TenantID: tc.TenantID, IsActive: true}
	applyStaff(s, in)
	if s.Name == "" {
		return nil, httperr.ErrBusiness("name_required")
	}

	if err := uc.repo.CreateStaff(ctx, s); err != nil {
		return nil, err
	}
	uc.record(tc, "staff_created", "staff", s.ID)
	return s, nil
}

func (uc *Manage) UpdateStaff(ctx context.Context, tc tenancy.Context, id uuid.UUID, in StaffInput) (*models.Staff, error) {
	s, err := uc.repo.GetStaff(ctx, tc.TenantID, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(tc, s.TenantID, policy.Catalog, policy.Update); err != nil {
		return nil, err
	}

	applyStaff(s, in)
	if s.Name == "" {
		return nil, httperr.ErrBusiness("name_required")
	}

	if err := uc.repo.SaveStaff(ctx, s); err != nil {
		return nil, err
	}
	_ = uc.cache.Invalidate(ctx, tc.TenantID)
	uc.record(tc, "staff_updated", "staff", s.ID)
	return s, nil
}

func applyStaff(s *models.Staff, in StaffInput) {
	if in.Name != nil {
		s.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		s.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.IsActive != nil {
		s.IsActive = *in.IsActive
	}
}

// ======================================================
// WORKING HOURS
// ======================================================

func (uc *Manage) WorkingHours(ctx context.Context, tc tenancy.Context, staffID uuid.UUID) ([]models.StaffWorkingHours, error) {
	s, err := uc.repo.GetStaff(ctx, tc.TenantID, staffID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(tc, s.TenantID, policy.WorkingHours, policy.Read); err != nil {
		return nil, err
	}
	return uc.repo.ListWorkingHours(ctx, s.ID)
}

func (uc *Manage) ReplaceWorkingHours(ctx context.Context, tc tenancy.Context, staffID uuid.UUID, rows []models.StaffWorkingHours) ([]models.StaffWorkingHours, error) {
	s, err := uc.repo.GetStaff(ctx, tc.TenantID, staffID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(tc, s.TenantID, policy.WorkingHours, policy.Update); err != nil {
		return nil, err
	}
	if err := appointment.ValidateWorkingHours(rows); err != nil {
		return nil, err
	}

	if err := uc.repo.ReplaceWorkingHours(ctx, s.ID, rows); err != nil {
		return nil, err
	}
	uc.record(tc, "working_hours_updated", "staff", s.ID)
	return uc.repo.ListWorkingHours(ctx, s.ID)
}

func (uc *Manage) record(tc tenancy.Context, action, entity string, id uuid.UUID) {
	uc.audit.Dispatch(audit.Event{
		TenantID: tc.TenantID,
		UserID:   tc.Actor.UserID,
		Action:   action,
		Entity:   entity,
		EntityID: &id,
	})
}
