package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/binda/internal/models"
	"github.com/BruksfildServices01/binda/internal/timezone"
)

// AppointmentListDTO is one dashboard row. Start and End are rendered in
// the tenant's zone; the *_utc fields carry the stored instants.
type AppointmentListDTO struct {
	ID            uuid.UUID `json:"id"`
	Start         string    `json:"start"`
	End           string    `json:"end"`
	StartUTC      time.Time `json:"start_utc"`
	EndUTC        time.Time `json:"end_utc"`
	Status        string    `json:"status"`
	Notes         string    `json:"notes"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	CustomerEmail string    `json:"customer_email"`
	ServiceName   string    `json:"service_name"`
	StaffID       uuid.UUID `json:"staff_id"`
	StaffName     string    `json:"staff_name"`
}

func NewAppointmentList(apps []models.Appointment, tz string) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(apps))
	for _, ap := range apps {
		out = append(out, AppointmentListDTO{
			ID:            ap.ID,
			Start:         timezone.ToTenantTime(ap.StartTime, tz).Format(time.RFC3339),
			End:           timezone.ToTenantTime(ap.EndTime, tz).Format(time.RFC3339),
			StartUTC:      ap.StartTime.UTC(),
			EndUTC:        ap.EndTime.UTC(),
			Status:        ap.Status,
			Notes:         ap.Notes,
			CustomerName:  ap.Customer.Name,
			CustomerPhone: ap.Customer.Phone,
			CustomerEmail: ap.Customer.Email,
			ServiceName:   ap.Service.Name,
			StaffID:       ap.StaffID,
			StaffName:     ap.Staff.Name,
		})
	}
	return out
}
