package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/binda/internal/domain/tenant"
	"github.com/BruksfildServices01/binda/internal/models"
)

type TenantGormRepository struct {
	db *gorm.DB
}

func NewTenantGormRepository(db *gorm.DB) *TenantGormRepository {
	return &TenantGormRepository{db: db}
}

// --------------------------------------------------
// Tenant
// --------------------------------------------------

func (r *TenantGormRepository) GetBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	var t models.Tenant
	err := r.db.WithContext(ctx).
		Where("slug = ?", strings.ToLower(strings.TrimSpace(slug))).
		First(&t).Error
	if err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &t, nil
}

func (r *TenantGormRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	var t models.Tenant
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &t, nil
}

func (r *TenantGormRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Tenant{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *TenantGormRepository) Save(ctx context.Context, t *models.Tenant) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *TenantGormRepository) Register(ctx context.Context, t *models.Tenant, owner *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(t).Error; err != nil {
			return err
		}
		owner.TenantID = t.ID
		return tx.Omit("Tenant").Create(owner).Error
	})
}

// --------------------------------------------------
// Users
// --------------------------------------------------

func (r *TenantGormRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).
		Preload("Tenant").
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error; err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return &u, nil
}

func (r *TenantGormRepository) GetUser(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).
		Preload("Tenant").
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&u).Error; err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return &u, nil
}

// notFound swaps gorm's not-found error for the domain sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// Compile-time check
var _ domain.Repository = (*TenantGormRepository)(nil)
