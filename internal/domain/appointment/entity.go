package appointment

import (
	"time"

	"github.com/BruksfildServices01/binda/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Transition moves ap to the target status and stamps the matching
// timestamp. Asking for the current status is a no-op and reports
// changed=false.
func Transition(ap *models.Appointment, to Status, now time.Time) (changed bool, err error) {
	from, err := ParseStatus(ap.Status)
	if err != nil {
		return false, err
	}
	if _, err := ParseStatus(string(to)); err != nil {
		return false, err
	}
	if from == to {
		return false, nil
	}
	if !CanTransition(from, to) {
		return false, &TransitionError{From: from, To: to}
	}

	now = now.UTC()
	ap.Status = string(to)
	switch to {
	case StatusConfirmed:
		ap.ConfirmedAt = &now
	case StatusCancelled:
		ap.CancelledAt = &now
	case StatusCompleted, StatusNoShow:
		ap.CompletedAt = &now
	}
	return true, nil
}

func Cancel(ap *models.Appointment, now time.Time) error {
	_, err := Transition(ap, StatusCancelled, now)
	return err
}

func Confirm(ap *models.Appointment, now time.Time) error {
	_, err := Transition(ap, StatusConfirmed, now)
	return err
}

// InitialStatus is pending_payment when the booking must be paid first.
func InitialStatus(requiresPayment bool) Status {
	if requiresPayment {
		return StatusPendingPayment
	}
	return StatusConfirmed
}
