package tenant

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/binda/internal/audit"
	"github.com/BruksfildServices01/binda/internal/cache"
	"github.com/BruksfildServices01/binda/internal/dbtest"
	"github.com/BruksfildServices01/binda/internal/httperr"
	"github.com/BruksfildServices01/binda/internal/infra/assets"
	"github.com/BruksfildServices01/binda/internal/infra/repository"
	"github.com/BruksfildServices01/binda/internal/models"
	"github.com/BruksfildServices01/binda/internal/policy"
	"github.com/BruksfildServices01/binda/internal/tenancy"
)

func TestResolver_ActiveOnly(t *testing.T) {
	gdb := dbtest.Open(t)
	fx := dbtest.Seed(t, gdb)
	r := NewResolver(repository.NewTenantGormRepository(gdb))
	ctx := context.Background()

	got, err := r.ResolveBySlug(ctx, " ACME ")
	require.NoError(t, err)
	assert.Equal(t, fx.Tenant.ID, got.ID)

	_, err = r.ResolveBySlug(ctx, "nope")
	assert.ErrorIs(t, err, ErrTenantNotFound)

	require.NoError(t, gdb.Model(&models.Tenant{}).Where("id = ?", fx.Tenant.ID).Update("status", models.TenantInactive).Error)

	_, err = r.ResolveBySlug(ctx, "acme")
	assert.ErrorIs(t, err, ErrTenantNotFound)
	_, err = r.ResolveByID(ctx, fx.Tenant.ID)
	assert.ErrorIs(t, err, ErrTenantNotFound)
	_, err = r.ResolveByID(ctx, uuid.Nil)
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestRegisterAndLogin(t *testing.T) {
	gdb := dbtest.Open(t)
	repo := repository.NewTenantGormRepository(gdb)
	ctx := context.Background()

	reg := NewRegister(repo, audit.Nop{})
	reg.EmailCheck = func(context.Context, string) bool { return true }

	in := RegisterInput{TenantName: "Bola Cuts", Slug: "bola-cuts", Name: "Bola", Email: "Bola@Example.com", Password: "secret123"}
	tn, owner, err := reg.Execute(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "Africa/Lagos", tn.Timezone)
	assert.Equal(t, "NGN", tn.Currency)
	assert.Equal(t, "owner", owner.Role)
	assert.Equal(t, "bola@example.com", owner.Email)

	_, _, err = reg.Execute(ctx, in)
	assert.True(t, httperr.IsBusiness(err, "slug_already_exists"))

	in.Slug = "Bad Slug"
	_, _, err = reg.Execute(ctx, in)
	assert.True(t, httperr.IsBusiness(err, "invalid_slug"))

	login := NewLogin(repo)
	u, lt, err := login.Execute(ctx, "BOLA@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, owner.ID, u.ID)
	assert.Equal(t, tn.ID, lt.ID)

	_, _, err = login.Execute(ctx, "bola@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = login.Execute(ctx, "ghost@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func settingsFixture(t *testing.T) (*Settings, dbtest.Fixture, *assets.MemoryStore) {
	gdb := dbtest.Open(t)
	fx := dbtest.Seed(t, gdb)
	store := assets.NewMemoryStore()
	return NewSettings(repository.NewTenantGormRepository(gdb), cache.Nop{}, audit.Nop{}, store), fx, store
}

func TestSettings_UpdateRules(t *testing.T) {
	uc, fx, _ := settingsFixture(t)
	ctx := context.Background()
	owner := tenancy.New(&fx.Tenant, tenancy.Actor{Role: tenancy.RoleOwner})
	admin := tenancy.New(&fx.Tenant, tenancy.Actor{Role: tenancy.RoleAdmin})

	tz := "Europe/London"
	mins := 60
	got, err := uc.Update(ctx, owner, SettingsInput{Timezone: &tz, MinAdvanceMinutes: &mins})
	require.NoError(t, err)
	assert.Equal(t, "Europe/London", got.Timezone)
	assert.Equal(t, 60, got.MinAdvanceMinutes)

	bad := "Nowhere/City"
	_, err = uc.Update(ctx, owner, SettingsInput{Timezone: &bad})
	assert.True(t, httperr.IsBusiness(err, "invalid_timezone"))

	_, err = uc.Update(ctx, admin, SettingsInput{Timezone: &tz})
	assert.ErrorIs(t, err, policy.ErrForbidden)

	read, err := uc.Get(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, "Europe/London", read.Timezone)
}

func TestSettings_UploadLogo(t *testing.T) {
	uc, fx, store := settingsFixture(t)
	owner := tenancy.New(&fx.Tenant, tenancy.Actor{Role: tenancy.RoleOwner})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1024, 256))))

	got, err := uc.UploadLogo(context.Background(), owner, &buf)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got.LogoURL, "memory://tenants/"+fx.Tenant.ID.String()+"/logo-"))
	assert.Len(t, store.Objects, 1)

	_, err = uc.UploadLogo(context.Background(), owner, strings.NewReader("nope"))
	assert.True(t, httperr.IsBusiness(err, "invalid_image"))
}
