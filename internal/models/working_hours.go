package models

import (
	"time"

	"github.com/google/uuid"
)

// StaffWorkingHours is one open interval in tenant-local wall-clock time.
// Weekday rows repeat every week; a Date row (YYYY-MM-DD) overrides every
// weekday row for that calendar day.
type StaffWorkingHours struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StaffID uuid.UUID `gorm:"type:uuid;not null;index" json:"staff_id"`

	Weekday *int    `json:"weekday"`
	Date    *string `gorm:"size:10" json:"date"`

	OpenTime  string `gorm:"size:5" json:"open_time"`
	CloseTime string `gorm:"size:5" json:"close_time"`
	IsClosed  bool   `json:"is_closed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
