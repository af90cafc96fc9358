package tenant

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/binda/internal/audit"
	domain "github.com/BruksfildServices01/binda/internal/domain/tenant"
	"github.com/BruksfildServices01/binda/internal/httperr"
	"github.com/BruksfildServices01/binda/internal/models"
	"github.com/BruksfildServices01/binda/internal/tenancy"
	"github.com/BruksfildServices01/binda/internal/timezone"
	"github.com/BruksfildServices01/binda/internal/validators"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// ======================================================
// REGISTER
// ======================================================

type RegisterInput struct {
	TenantName string
	Slug       string
	Timezone   string
	Currency   string

	Name     string
	Email    string
	Password string
}

type Register struct {
	repo  domain.Repository
	audit audit.Recorder

	// EmailCheck verifies the address domain; DNS lookups by default.
	EmailCheck func(ctx context.Context, email string) bool
}

func NewRegister(repo domain.Repository, rec audit.Recorder) *Register {
	return &Register{repo: repo, audit: rec, EmailCheck: validators.IsEmailDomainValid}
}

func (uc *Register) Execute(ctx context.Context, in RegisterInput) (*models.Tenant, *models.User, error) {
	slug := strings.ToLower(strings.TrimSpace(in.Slug))
	if !validators.IsSlug(slug) {
		return nil, nil, httperr.ErrBusiness("invalid_slug")
	}

	tz := strings.TrimSpace(in.Timezone)
	if tz == "" {
		tz = timezone.DefaultTimezone
	}
	if !timezone.IsValid(tz) {
		return nil, nil, httperr.ErrBusiness("invalid_timezone")
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "NGN"
	}
	if !validators.IsCurrency(currency) {
		return nil, nil, httperr.ErrBusiness("invalid_currency")
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if uc.EmailCheck != nil && !uc.EmailCheck(ctx, email) {
		return nil, nil, httperr.ErrBusiness("invalid_email_domain")
	}

	exists, err := uc.repo.SlugExists(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, httperr.ErrBusiness("slug_already_exists")
	}

	if _, err := uc.repo.GetUserByEmail(ctx, email); err == nil {
		return nil, nil, httperr.ErrBusiness("email_already_exists")
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	t := &models.Tenant{
		Name:     strings.TrimSpace(in.TenantName),
		Slug:     slug,
		Timezone: tz,
		Currency: currency,
		Status:   models.TenantActive,
	}
	owner := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hashed),
		Role:         string(tenancy.RoleOwner),
	}

	if err := uc.repo.Register(ctx, t, owner); err != nil {
		if httperr.IsUniqueViolation(err) {
			return nil, nil, httperr.ErrBusiness("slug_already_exists")
		}
		return nil, nil, err
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: t.ID,
		UserID:   &owner.ID,
		Action:   "tenant_registered",
		Entity:   "tenant",
		EntityID: &t.ID,
	})

	return t, owner, nil
}

// ======================================================
// LOGIN
// ======================================================

type Login struct {
	repo domain.Repository
}

func NewLogin(repo domain.Repository) *Login {
	return &Login{repo: repo}
}

// Execute checks the password and returns the user with its tenant. Users of
// inactive tenants may still sign in to reactivate them.
func (uc *Login) Execute(ctx context.Context, email, password string) (*models.User, *models.Tenant, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := uc.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	t, err := uc.repo.GetByID(ctx, user.TenantID)
	if err != nil {
		return nil, nil, err
	}
	return user, t, nil
}
