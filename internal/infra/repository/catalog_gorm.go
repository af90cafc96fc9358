package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/binda/internal/domain/catalog"
	"github.com/BruksfildServices01/binda/internal/models"
)

type CatalogGormRepository struct {
	db *gorm.DB
}

func NewCatalogGormRepository(db *gorm.DB) *CatalogGormRepository {
	return &CatalogGormRepository{db: db}
}

// --------------------------------------------------
// Services
// --------------------------------------------------

func (r *CatalogGormRepository) ListServices(ctx context.Context, tenantID uuid.UUID, activeOnly bool) ([]models.Service, error) {
	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var services []models.Service
	if err := q.Order("name ASC").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *CatalogGormRepository) GetService(ctx context.Context, tenantID, id uuid.UUID) (*models.Service, error) {
	var s models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&s).Error; err != nil {
		return nil, notFound(err, domain.ErrServiceNotFound)
	}
	return &s, nil
}

func (r *CatalogGormRepository) FindService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var s models.Service
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, notFound(err, domain.ErrServiceNotFound)
	}
	return &s, nil
}

func (r *CatalogGormRepository) CreateService(ctx context.Context, s *models.Service) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *CatalogGormRepository) SaveService(ctx context.Context, s *models.Service) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// --------------------------------------------------
// Staff
// --------------------------------------------------

func (r *CatalogGormRepository) ListStaff(ctx context.Context, tenantID uuid.UUID, activeOnly bool) ([]models.Staff, error) {
	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var staff []models.Staff
	if err := q.Order("name ASC").Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

func (r *CatalogGormRepository) GetStaff(ctx context.Context, tenantID, id uuid.UUID) (*models.Staff, error) {
	var s models.Staff
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&s).Error; err != nil {
		return nil, notFound(err, domain.ErrStaffNotFound)
	}
	return &s, nil
}

func (r *CatalogGormRepository) CreateStaff(ctx context.Context, s *models.Staff) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *CatalogGormRepository) SaveStaff(ctx context.Context, s *models.Staff) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// --------------------------------------------------
// Junction
// --------------------------------------------------

func (r *CatalogGormRepository) ListStaffForService(ctx context.Context, tenantID, serviceID uuid.UUID, activeOnly bool) ([]models.Staff, error) {
	q := r.db.WithContext(ctx).
		Joins("JOIN service_staff ON service_staff.staff_id = staff.id").
		Where("service_staff.service_id = ? AND staff.tenant_id = ?", serviceID, tenantID)
	if activeOnly {
		q = q.Where("staff.is_active = ?", true)
	}

	var staff []models.Staff
	if err := q.Order("staff.name ASC").Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

func (r *CatalogGormRepository) IsAssigned(ctx context.Context, serviceID, staffID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ServiceStaff{}).
		Where("service_id = ? AND staff_id = ?", serviceID, staffID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *CatalogGormRepository) SetServiceStaff(ctx context.Context, tenantID, serviceID uuid.UUID, staffIDs []uuid.UUID) error {
	unique := make(map[uuid.UUID]struct{}, len(staffIDs))
	for _, id := range staffIDs {
		unique[id] = struct{}{}
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(unique) > 0 {
			ids := make([]uuid.UUID, 0, len(unique))
			for id := range unique {
				ids = append(ids, id)
			}

			var count int64
			if err := tx.Model(&models.Staff{}).
				Where("tenant_id = ? AND id IN ?", tenantID, ids).
				Count(&count).Error; err != nil {
				return err
			}
			if int(count) != len(ids) {
				return domain.ErrStaffNotFound
			}
		}

		if err := tx.Where("service_id = ?", serviceID).Delete(&models.ServiceStaff{}).Error; err != nil {
			return err
		}

		for id := range unique {
			if err := tx.Create(&models.ServiceStaff{ServiceID: serviceID, StaffID: id}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// --------------------------------------------------
// Working hours
// --------------------------------------------------

func (r *CatalogGormRepository) ListWorkingHours(ctx context.Context, staffID uuid.UUID) ([]models.StaffWorkingHours, error) {
	var rows []models.StaffWorkingHours
	if err := r.db.WithContext(ctx).
		Where("staff_id = ?", staffID).
		Order("weekday ASC, date ASC, open_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CatalogGormRepository) ReplaceWorkingHours(ctx context.Context, staffID uuid.UUID, rows []models.StaffWorkingHours) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("staff_id = ?", staffID).Delete(&models.StaffWorkingHours{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		for i := range rows {
			rows[i].ID = uuid.Nil
			rows[i].StaffID = staffID
		}
		return tx.Create(&rows).Error
	})
}

// Compile-time check
var _ domain.Repository = (*CatalogGormRepository)(nil)
