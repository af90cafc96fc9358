package models

import (
	"time"

	"github.com/google/uuid"
)

type SlotLock struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	SessionID string    `gorm:"size:64;not null;index" json:"session_id"`
	StaffID   uuid.UUID `gorm:"type:uuid;not null;index:idx_slot_locks_staff_window" json:"staff_id"`
	ServiceID uuid.UUID `gorm:"type:uuid;not null" json:"service_id"`

	SlotStart time.Time `gorm:"not null;index:idx_slot_locks_staff_window" json:"slot_start"`
	SlotEnd   time.Time `gorm:"not null" json:"slot_end"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
}

func (l *SlotLock) Expired(now time.Time) bool {
	return !l.ExpiresAt.After(now)
}
