package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/binda/internal/models"
)

// BookingDTO is what the public booking flow gets back. CheckoutURL is set
// while the appointment waits for payment.
type BookingDTO struct {
	ID          uuid.UUID `json:"id"`
	Status      string    `json:"status"`
	ServiceID   uuid.UUID `json:"service_id"`
	StaffID     uuid.UUID `json:"staff_id"`
	StartUTC    time.Time `json:"start_utc"`
	EndUTC      time.Time `json:"end_utc"`
	CheckoutURL string    `json:"checkout_url,omitempty"`
	Replayed    bool      `json:"replayed"`
}

func NewBooking(ap *models.Appointment, replayed bool) BookingDTO {
	return BookingDTO{
		ID:          ap.ID,
		Status:      ap.Status,
		ServiceID:   ap.ServiceID,
		StaffID:     ap.StaffID,
		StartUTC:    ap.StartTime.UTC(),
		EndUTC:      ap.EndTime.UTC(),
		CheckoutURL: ap.CheckoutURL,
		Replayed:    replayed,
	}
}
