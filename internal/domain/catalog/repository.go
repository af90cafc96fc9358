package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/binda/internal/models"
)

var (
	ErrServiceNotFound = errors.New("service not found")
	ErrStaffNotFound   = errors.New("staff not found")
)

type Repository interface {
	// -------- Services --------
	ListServices(ctx context.Context, tenantID uuid.UUID, activeOnly bool) ([]models.Service, error)
	GetService(ctx context.Context, tenantID, id uuid.UUID) (*models.Service, error)
	// FindService looks a service up without a tenant; public endpoints
	// learn the tenant from it.
	FindService(ctx context.Context, id uuid.UUID) (*models.Service, error)
	CreateService(ctx context.Context, s *models.Service) error
	SaveService(ctx context.Context, s *models.Service) error

	// -------- Staff --------
	ListStaff(ctx context.Context, tenantID uuid.UUID, activeOnly bool) ([]models.Staff, error)
	GetStaff(ctx context.Context, tenantID, id uuid.UUID) (*models.Staff, error)
	CreateStaff(ctx context.Context, s *models.Staff) error
	SaveStaff(ctx context.Context, s *models.Staff) error

	// -------- Junction --------
	ListStaffForService(ctx context.Context, tenantID, serviceID uuid.UUID, activeOnly bool) ([]models.Staff, error)
	IsAssigned(ctx context.Context, serviceID, staffID uuid.UUID) (bool, error)
	SetServiceStaff(ctx context.Context, tenantID, serviceID uuid.UUID, staffIDs []uuid.UUID) error

	// -------- Working hours --------
	ListWorkingHours(ctx context.Context, staffID uuid.UUID) ([]models.StaffWorkingHours, error)
	ReplaceWorkingHours(ctx context.Context, staffID uuid.UUID, rows []models.StaffWorkingHours) error
}
