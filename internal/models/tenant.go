package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TenantActive   = "active"
	TenantInactive = "inactive"
)

type Tenant struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name              string    `gorm:"size:100;not null" json:"name"`
	Slug              string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Timezone          string    `gorm:"size:64;not null" json:"timezone"`
	Currency          string    `gorm:"size:3;not null" json:"currency"`
	Status            string    `gorm:"size:20;not null;index" json:"status"`
	MinAdvanceMinutes int       `gorm:"not null" json:"min_advance_minutes"`
	LogoURL           string    `gorm:"size:512" json:"logo_url"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (t *Tenant) IsActive() bool {
	return t.Status == TenantActive
}
