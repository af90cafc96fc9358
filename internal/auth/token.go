// Package auth issues and verifies dashboard session tokens.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/binda/internal/models"
	"github.com/BruksfildServices01/binda/internal/tenancy"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"`
	StaffID  string `json:"staff_id,omitempty"`
	jwt.RegisteredClaims
}

// Actor turns verified claims into the acting principal and its tenant id.
func (c *Claims) Actor() (uuid.UUID, tenancy.Actor, error) {
	tenantID, err := uuid.Parse(c.TenantID)
	if err != nil {
		return uuid.Nil, tenancy.Actor{}, ErrInvalidToken
	}
	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, tenancy.Actor{}, ErrInvalidToken
	}
	role, ok := tenancy.ParseRole(c.Role)
	if !ok {
		return uuid.Nil, tenancy.Actor{}, ErrInvalidToken
	}

	actor := tenancy.Actor{Role: role, UserID: &userID}
	if c.StaffID != "" {
		staffID, err := uuid.Parse(c.StaffID)
		if err != nil {
			return uuid.Nil, tenancy.Actor{}, ErrInvalidToken
		}
		actor.StaffID = &staffID
	}
	return tenantID, actor, nil
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (i *Issuer) Issue(u *models.User) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(i.ttl)

	claims := Claims{
		TenantID: u.TenantID.String(),
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	if u.StaffID != nil {
		claims.StaffID = u.StaffID.String()
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	return signed, exp, err
}

// Refresh re-signs claims with a fresh expiry.
func (i *Issuer) Refresh(c *Claims) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(i.ttl)

	next := *c
	next.IssuedAt = jwt.NewNumericDate(now)
	next.ExpiresAt = jwt.NewNumericDate(exp)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, next).SignedString(i.secret)
	return signed, exp, err
}

func (i *Issuer) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
