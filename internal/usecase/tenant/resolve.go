package tenant

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/binda/internal/domain/tenant"
	"github.com/BruksfildServices01/binda/internal/models"
)

// ErrTenantNotFound covers both missing and inactive tenants so callers
// cannot learn whether a slug exists.
var ErrTenantNotFound = errors.New("tenant not found")

type Resolver struct {
	repo domain.Repository
}

func NewResolver(repo domain.Repository) *Resolver {
	return &Resolver{repo: repo}
}

func (r *Resolver) ResolveBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, ErrTenantNotFound
	}
	t, err := r.repo.GetBySlug(ctx, slug)
	return active(t, err)
}

func (r *Resolver) ResolveByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	if id == uuid.Nil {
		return nil, ErrTenantNotFound
	}
	t, err := r.repo.GetByID(ctx, id)
	return active(t, err)
}

func active(t *models.Tenant, err error) (*models.Tenant, error) {
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, err
	}
	if !t.IsActive() {
		return nil, ErrTenantNotFound
	}
	return t, nil
}
