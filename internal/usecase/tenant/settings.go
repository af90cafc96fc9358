package tenant

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/binda/internal/audit"
	"github.com/BruksfildServices01/binda/internal/cache"
	domain "github.com/BruksfildServices01/binda/internal/domain/tenant"
	"github.com/BruksfildServices01/binda/internal/httperr"
	"github.com/BruksfildServices01/binda/internal/infra/assets"
	"github.com/BruksfildServices01/binda/internal/models"
	"github.com/BruksfildServices01/binda/internal/policy"
	"github.com/BruksfildServices01/binda/internal/tenancy"
	"github.com/BruksfildServices01/binda/internal/timezone"
	"github.com/BruksfildServices01/binda/internal/validators"
)

const logoMaxSide = 512

// ErrStorageDisabled is returned by logo uploads when no object store is configured.
var ErrStorageDisabled = httperr.ErrBusiness("storage_not_configured")

type SettingsInput struct {
	Name              *string
	Timezone          *string
	Currency          *string
	MinAdvanceMinutes *int
	Status            *string
}

type Settings struct {
	repo   domain.Repository
	cache  cache.Listings
	audit  audit.Recorder
	assets assets.Store
}

// NewSettings accepts a nil store; logo uploads then fail with ErrStorageDisabled.
func NewSettings(repo domain.Repository, listings cache.Listings, rec audit.Recorder, store assets.Store) *Settings {
	return &Settings{repo: repo, cache: listings, audit: rec, assets: store}
}

func (uc *Settings) Get(ctx context.Context, tc tenancy.Context) (*models.Tenant, error) {
	if err := policy.Authorize(tc, tc.TenantID, policy.Settings, policy.Read); err != nil {
		return nil, err
	}
	return uc.repo.GetByID(ctx, tc.TenantID)
}

func (uc *Settings) Update(ctx context.Context, tc tenancy.Context, in SettingsInput) (*models.Tenant, error) {
	if err := policy.Authorize(tc, tc.TenantID, policy.Settings, policy.Update); err != nil {
		return nil, err
	}

	t, err := uc.repo.GetByID(ctx, tc.TenantID)
	if err != nil {
		return nil, err
	}

	zoneChanged := false

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, httperr.ErrBusiness("name_required")
		}
		t.Name = name
	}
	if in.Timezone != nil {
		if !timezone.IsValid(*in.Timezone) {
			return nil, httperr.ErrBusiness("invalid_timezone")
		}
		zoneChanged = *in.Timezone != t.Timezone
		t.Timezone = *in.Timezone
	}
	if in.Currency != nil {
		cur := strings.ToUpper(strings.TrimSpace(*in.Currency))
		if !validators.IsCurrency(cur) {
			return nil, httperr.ErrBusiness("invalid_currency")
		}
		t.Currency = cur
	}
	if in.MinAdvanceMinutes != nil {
		if *in.MinAdvanceMinutes < 0 {
			return nil, httperr.ErrBusiness("invalid_min_advance")
		}
		t.MinAdvanceMinutes = *in.MinAdvanceMinutes
	}
	if in.Status != nil {
		switch *in.Status {
		case models.TenantActive, models.TenantInactive:
			t.Status = *in.Status
		default:
			return nil, httperr.ErrBusiness("invalid_status")
		}
	}

	if err := uc.repo.Save(ctx, t); err != nil {
		return nil, err
	}

	if zoneChanged {
		// cached listings are rendered in the old zone
		_ = uc.cache.Invalidate(ctx, t.ID)
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: t.ID,
		UserID:   tc.Actor.UserID,
		Action:   "settings_updated",
		Entity:   "tenant",
		EntityID: &t.ID,
	})

	return t, nil
}

// UploadLogo stores the image as WebP and records its public URL.
func (uc *Settings) UploadLogo(ctx context.Context, tc tenancy.Context, r io.Reader) (*models.Tenant, error) {
	if err := policy.Authorize(tc, tc.TenantID, policy.Settings, policy.Update); err != nil {
		return nil, err
	}
	if uc.assets == nil {
		return nil, ErrStorageDisabled
	}

	body, err := assets.Transcode(r, logoMaxSide)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_image")
	}

	t, err := uc.repo.GetByID(ctx, tc.TenantID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("tenants/%s/logo-%s.webp", t.ID, uuid.NewString())
	url, err := uc.assets.Put(ctx, key, body, assets.ContentTypeWebP)
	if err != nil {
		return nil, err
	}

	t.LogoURL = url
	if err := uc.repo.Save(ctx, t); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: t.ID,
		UserID:   tc.Actor.UserID,
		Action:   "logo_uploaded",
		Entity:   "tenant",
		EntityID: &t.ID,
	})

	return t, nil
}
