package appointment

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/binda/internal/audit"
	"github.com/BruksfildServices01/binda/internal/cache"
	"github.com/BruksfildServices01/binda/internal/events"
	"github.com/BruksfildServices01/binda/internal/metrics"
	"github.com/BruksfildServices01/binda/internal/models"
)

// Effects are the side effects every appointment write shares: listing
// invalidation, audit trail, metrics and the domain event. None of them can
// fail the write.
type Effects struct {
	Cache     cache.Listings
	Audit     audit.Recorder
	Publisher events.Publisher
	Log       *slog.Logger
}

func (e Effects) booked(ctx context.Context, ap *models.Appointment, now time.Time) {
	metrics.Bookings.WithLabelValues(ap.Status).Inc()
	e.invalidate(ctx, ap.TenantID)
	e.Audit.Dispatch(audit.Event{
		TenantID: ap.TenantID,
		Action:   "appointment_booked",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]string{"status": ap.Status},
	})
	e.publish(ctx, events.Event{
		Type:          events.TypeBooked,
		TenantID:      ap.TenantID,
		AppointmentID: ap.ID,
		StaffID:       ap.StaffID,
		Status:        ap.Status,
		StartTime:     ap.StartTime,
		OccurredAt:    now,
	})
}

// Transitioned records a status change; userID is nil for system actors.
func (e Effects) Transitioned(ctx context.Context, ap *models.Appointment, from string, userID *uuid.UUID, now time.Time) {
	metrics.StatusTransitions.WithLabelValues(from, ap.Status).Inc()
	e.invalidate(ctx, ap.TenantID)
	e.Audit.Dispatch(audit.Event{
		TenantID: ap.TenantID,
		UserID:   userID,
		Action:   "appointment_" + ap.Status,
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]string{"from": from, "to": ap.Status},
	})
	e.publish(ctx, events.Event{
		Type:          events.TypeStatusChanged,
		TenantID:      ap.TenantID,
		AppointmentID: ap.ID,
		StaffID:       ap.StaffID,
		Status:        ap.Status,
		PreviousState: from,
		StartTime:     ap.StartTime,
		OccurredAt:    now,
	})
}

func (e Effects) invalidate(ctx context.Context, tenantID uuid.UUID) {
	if err := e.Cache.Invalidate(ctx, tenantID); err != nil {
		e.Log.Warn("listing invalidation failed", "tenant_id", tenantID, "error", err)
	}
}

func (e Effects) publish(ctx context.Context, ev events.Event) {
	if err := e.Publisher.Publish(ctx, ev); err != nil {
		e.Log.Warn("event publish failed", "type", ev.Type, "appointment_id", ev.AppointmentID, "error", err)
	}
}
