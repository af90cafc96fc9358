// Package tenancy carries the resolved tenant and the acting principal
// through every use case and repository call.
package tenancy

import (
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/binda/internal/models"
	"github.com/BruksfildServices01/binda/internal/timezone"
)

type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleStaff  Role = "staff"
	RolePublic Role = "public"
)

func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleOwner, RoleAdmin, RoleStaff:
		return r, true
	}
	return "", false
}

// Actor is whoever issued the request. Public actors carry only a session id.
type Actor struct {
	Role      Role
	UserID    *uuid.UUID
	StaffID   *uuid.UUID
	SessionID string
}

type Context struct {
	TenantID uuid.UUID
	Timezone string
	Currency string
	Actor    Actor
}

func New(t *models.Tenant, actor Actor) Context {
	return Context{
		TenantID: t.ID,
		Timezone: t.Timezone,
		Currency: t.Currency,
		Actor:    actor,
	}
}

func Public(t *models.Tenant, sessionID string) Context {
	return New(t, Actor{Role: RolePublic, SessionID: sessionID})
}

// System is used by background jobs acting on behalf of a tenant.
func System(t *models.Tenant) Context {
	return New(t, Actor{Role: RoleOwner})
}

func (c Context) Location() *time.Location {
	return timezone.Location(c.Timezone)
}
