// Package policy decides whether an actor may perform an action on a
// resource of a tenant. Every use case asks before touching storage.
package policy

import (
	"errors"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/binda/internal/tenancy"
)

var ErrForbidden = errors.New("forbidden")

type Resource string

const (
	Catalog      Resource = "catalog"
	WorkingHours Resource = "working_hours"
	Availability Resource = "availability"
	SlotLock     Resource = "slot_lock"
	Booking      Resource = "booking"
	Appointment  Resource = "appointment"
	Customer     Resource = "customer"
	Settings     Resource = "settings"
	AuditLog     Resource = "audit_log"
)

type Action string

const (
	Read   Action = "read"
	Create Action = "create"
	Update Action = "update"
	Delete Action = "delete"
)

type grant int

const (
	deny grant = iota
	allow
	// allowOwn requires the resource to belong to the actor's staff id
	allowOwn
)

type rules map[Resource]map[Action]grant

func all() map[Action]grant {
	return map[Action]grant{Read: allow, Create: allow, Update: allow, Delete: allow}
}

var table = map[tenancy.Role]rules{
	tenancy.RoleOwner: {
		Catalog: all(), WorkingHours: all(), Availability: all(), SlotLock: all(),
		Booking: all(), Appointment: all(), Customer: all(), Settings: all(), AuditLog: all(),
	},
	tenancy.RoleAdmin: {
		Catalog: all(), WorkingHours: all(), Availability: all(), SlotLock: all(),
		Booking: all(), Appointment: all(), Customer: all(), AuditLog: all(),
		Settings: {Read: allow},
	},
	tenancy.RoleStaff: {
		Catalog:      {Read: allow},
		WorkingHours: {Read: allow},
		Availability: {Read: allow},
		Appointment:  {Read: allow, Update: allowOwn},
		Customer:     {Read: allow},
		Settings:     {Read: allow},
	},
	tenancy.RolePublic: {
		Catalog:      {Read: allow},
		Availability: {Read: allow},
		SlotLock:     {Create: allow, Delete: allow},
		Booking:      {Create: allow, Update: allow},
	},
}

// Authorize checks a tenant-wide capability.
func Authorize(tc tenancy.Context, resourceTenant uuid.UUID, res Resource, act Action) error {
	return check(tc, resourceTenant, res, act, nil)
}

// AuthorizeOwned is Authorize for resources assigned to one staff member.
func AuthorizeOwned(tc tenancy.Context, resourceTenant uuid.UUID, res Resource, act Action, staffID uuid.UUID) error {
	return check(tc, resourceTenant, res, act, &staffID)
}

func check(tc tenancy.Context, resourceTenant uuid.UUID, res Resource, act Action, owner *uuid.UUID) error {
	if tc.TenantID == uuid.Nil || tc.TenantID != resourceTenant {
		return ErrForbidden
	}

	switch table[tc.Actor.Role][res][act] {
	case allow:
		return nil
	case allowOwn:
		if owner != nil && tc.Actor.StaffID != nil && *tc.Actor.StaffID == *owner {
			return nil
		}
	}
	return ErrForbidden
}
