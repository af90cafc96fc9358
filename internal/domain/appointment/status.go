package appointment

import (
	"errors"
	"fmt"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPendingPayment Status = "pending_payment"
	StatusConfirmed      Status = "confirmed"
	StatusCompleted      Status = "completed"
	StatusNoShow         Status = "no_show"
	StatusCancelled      Status = "cancelled"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnknownStatus     = errors.New("unknown appointment status")
)

// TransitionError names the rejected move.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("appointment cannot move from %s to %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// allowed[from][to]. Terminal states have no row.
var allowed = map[Status]map[Status]bool{
	StatusPendingPayment: {
		StatusConfirmed: true,
		StatusCancelled: true,
	},
	StatusConfirmed: {
		StatusCompleted: true,
		StatusNoShow:    true,
		StatusCancelled: true,
	},
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPendingPayment, StatusConfirmed, StatusCompleted, StatusNoShow, StatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

func CanTransition(from, to Status) bool {
	return allowed[from][to]
}

func (s Status) Terminal() bool {
	return len(allowed[s]) == 0
}

// Occupying statuses hold the staff member's time.
func (s Status) Occupying() bool {
	return s == StatusPendingPayment || s == StatusConfirmed
}

// OccupyingStatuses is the SQL-friendly form of Occupying.
func OccupyingStatuses() []string {
	return []string{string(StatusPendingPayment), string(StatusConfirmed)}
}
