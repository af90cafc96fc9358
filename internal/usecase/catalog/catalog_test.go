package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/binda/internal/audit"
	"github.com/BruksfildServices01/binda/internal/cache"
	"github.com/BruksfildServices01/binda/internal/dbtest"
	domain "github.com/BruksfildServices01/binda/internal/domain/catalog"
	"github.com/BruksfildServices01/binda/internal/httperr"
	"github.com/BruksfildServices01/binda/internal/infra/repository"
	"github.com/BruksfildServices01/binda/internal/models"
	"github.com/BruksfildServices01/binda/internal/policy"
	"github.com/BruksfildServices01/binda/internal/tenancy"
	"github.com/BruksfildServices01/binda/internal/usecase/tenant"
)

func setup(t *testing.T) (*gorm.DB, dbtest.Fixture, *Public, *Manage) {
	gdb := dbtest.Open(t)
	fx := dbtest.Seed(t, gdb)
	repo := repository.NewCatalogGormRepository(gdb)
	resolver := tenant.NewResolver(repository.NewTenantGormRepository(gdb))
	return gdb, fx, NewPublic(repo, resolver), NewManage(repo, cache.Nop{}, audit.Nop{})
}

func ptr[T any](v T) *T { return &v }

func TestPublic_ServicesAndStaff(t *testing.T) {
	gdb, fx, pub, _ := setup(t)
	ctx := context.Background()

	require.NoError(t, gdb.Create(&models.Service{TenantID: fx.Tenant.ID, Name: "Beard", DurationMinutes: 15, Price: decimal.Zero, IsActive: true}).Error)
	hidden := models.Service{TenantID: fx.Tenant.ID, Name: "Archived", DurationMinutes: 15, Price: decimal.Zero, IsActive: true}
	require.NoError(t, gdb.Create(&hidden).Error)
	require.NoError(t, gdb.Model(&hidden).Update("is_active", false).Error)

	services, err := pub.Services(ctx, tenancy.Public(&fx.Tenant, "s1"))
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, "Beard", services[0].Name)
	assert.Equal(t, "Haircut", services[1].Name)

	staff, err := pub.StaffForService(ctx, fx.Service.ID, "s1")
	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.Equal(t, fx.Staff.ID, staff[0].ID)

	_, err = pub.StaffForService(ctx, hidden.ID, "s1")
	assert.ErrorIs(t, err, domain.ErrServiceNotFound)

	_, err = pub.StaffForService(ctx, uuid.New(), "s1")
	assert.ErrorIs(t, err, domain.ErrServiceNotFound)

	require.NoError(t, gdb.Model(&models.Tenant{}).Where("id = ?", fx.Tenant.ID).Update("status", models.TenantInactive).Error)
	_, err = pub.StaffForService(ctx, fx.Service.ID, "s1")
	assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
}

func TestManage_ServiceLifecycle(t *testing.T) {
	_, fx, _, m := setup(t)
	ctx := context.Background()
	admin := tenancy.New(&fx.Tenant, tenancy.Actor{Role: tenancy.RoleAdmin})
	staffRole := tenancy.New(&fx.Tenant, tenancy.Actor{Role: tenancy.RoleStaff})

	price := decimal.RequireFromString("5000.456")
	s, err := m.CreateService(ctx, admin, ServiceInput{Name: ptr(" Colour "), DurationMinutes: ptr(90), Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "Colour", s.Name)
	assert.True(t, s.Price.Equal(decimal.RequireFromString("5000.46")))
	assert.True(t, s.IsActive)

	_, err = m.CreateService(ctx, admin, ServiceInput{Name: ptr("Zero"), DurationMinutes: ptr(0)})
	assert.True(t, httperr.IsBusiness(err, "invalid_duration"))

	_, err = m.CreateService(ctx, staffRole, ServiceInput{Name: ptr("Nope"), DurationMinutes: ptr(30)})
	assert.ErrorIs(t, err, policy.ErrForbidden)

	updated, err := m.UpdateService(ctx, admin, s.ID, ServiceInput{IsActive: ptr(false)})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	all, err := m.ListServices(ctx, staffRole)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestManage_StaffJunctionAndHours(t *testing.T) {
	gdb, fx, _, m := setup(t)
	ctx := context.Background()
	owner := tenancy.New(&fx.Tenant, tenancy.Actor{Role: tenancy.RoleOwner})

	bob, err := m.CreateStaff(ctx, owner, StaffInput{Name: ptr("Bob"), Email: ptr("BOB@acme.test")})
	require.NoError(t, err)
	assert.Equal(t, "bob@acme.test", bob.Email)

	assigned, err := m.SetServiceStaff(ctx, owner, fx.Service.ID, []uuid.UUID{fx.Staff.ID, bob.ID, bob.ID})
	require.NoError(t, err)
	assert.Len(t, assigned, 2)

	other := models.Tenant{Name: "Other", Slug: "other", Timezone: "UTC", Currency: "USD", Status: models.TenantActive}
	require.NoError(t, gdb.Create(&other).Error)
	foreign := models.Staff{TenantID: other.ID, Name: "Eve", IsActive: true}
	require.NoError(t, gdb.Create(&foreign).Error)

	_, err = m.SetServiceStaff(ctx, owner, fx.Service.ID, []uuid.UUID{foreign.ID})
	assert.ErrorIs(t, err, domain.ErrStaffNotFound)

	rows := []models.StaffWorkingHours{
		{Weekday: ptr(1), OpenTime: "08:00", CloseTime: "12:00"},
		{Date: ptr("2025-12-25"), IsClosed: true},
	}
	saved, err := m.ReplaceWorkingHours(ctx, owner, bob.ID, rows)
	require.NoError(t, err)
	assert.Len(t, saved, 2)

	_, err = m.ReplaceWorkingHours(ctx, owner, bob.ID, []models.StaffWorkingHours{{Weekday: ptr(1), OpenTime: "12:00", CloseTime: "08:00"}})
	assert.True(t, httperr.IsBusiness(err, "close_before_open"))

	_, err = m.WorkingHours(ctx, owner, foreign.ID)
	assert.ErrorIs(t, err, domain.ErrStaffNotFound)
}
