package tenant

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/binda/internal/models"
)

var (
	ErrNotFound     = errors.New("tenant not found")
	ErrUserNotFound = errors.New("user not found")
)

type Repository interface {
	// -------- Tenant --------
	GetBySlug(ctx context.Context, slug string) (*models.Tenant, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Save(ctx context.Context, t *models.Tenant) error

	// Register creates the tenant together with its owner account.
	Register(ctx context.Context, t *models.Tenant, owner *models.User) error

	// -------- Users --------
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUser(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error)
}
