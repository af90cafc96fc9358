package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer books through the public flow and has no login.
type Customer struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Email string `gorm:"size:100;index" json:"email"`
	Phone string `gorm:"size:20;index" json:"phone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
