package models

import (
	"time"

	"github.com/google/uuid"
)

type Appointment struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_appointments_attempt" json:"tenant_id"`

	ServiceID uuid.UUID `gorm:"type:uuid;not null" json:"service_id"`
	Service   Service   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"service"`

	StaffID uuid.UUID `gorm:"type:uuid;not null;index:idx_appointments_staff_time" json:"staff_id"`
	Staff   Staff     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"staff"`

	CustomerID uuid.UUID `gorm:"type:uuid;not null" json:"customer_id"`
	Customer   Customer  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"customer"`

	StartTime time.Time `gorm:"not null;index:idx_appointments_staff_time" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	Status string `gorm:"size:20;not null;index" json:"status"`
	Notes  string `gorm:"type:text" json:"notes"`

	// AttemptID is the client-generated booking attempt id; replays return
	// the appointment created by the first attempt.
	AttemptID *string `gorm:"size:64;uniqueIndex:idx_appointments_attempt" json:"-"`
	SessionID string  `gorm:"size:64" json:"-"`

	PaymentReference string `gorm:"size:128" json:"payment_reference,omitempty"`
	CheckoutURL      string `gorm:"size:512" json:"checkout_url,omitempty"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
