package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/binda/internal/domain/appointment"
	"github.com/BruksfildServices01/binda/internal/models"
	"github.com/BruksfildServices01/binda/internal/policy"
	"github.com/BruksfildServices01/binda/internal/tenancy"
)

type UpdateStatus struct {
	repo    domain.Repository
	effects Effects

	Now func() time.Time
}

func NewUpdateStatus(repo domain.Repository, effects Effects) *UpdateStatus {
	return &UpdateStatus{repo: repo, effects: effects, Now: time.Now}
}

// Execute applies the transition and, when notes is non-nil, replaces the
// appointment's notes. Asking for the current status only updates notes.
func (uc *UpdateStatus) Execute(
	ctx context.Context,
	tc tenancy.Context,
	appointmentID uuid.UUID,
	status string,
	notes *string,
) (*models.Appointment, error) {
	to, err := domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointment(ctx, tc.TenantID, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeOwned(tc, ap.TenantID, policy.Appointment, policy.Update, ap.StaffID); err != nil {
		return nil, err
	}

	now := uc.Now().UTC()
	from := ap.Status
	changed, err := domain.Transition(ap, to, now)
	if err != nil {
		return nil, err
	}

	if notes != nil {
		ap.Notes = *notes
	}
	if !changed && notes == nil {
		return ap, nil
	}

	if err := uc.repo.UpdateAppointment(ctx, ap, domain.Status(from)); err != nil {
		return nil, err
	}

	if changed {
		uc.effects.Transitioned(ctx, ap, from, tc.Actor.UserID, now)
	} else {
		uc.effects.invalidate(ctx, ap.TenantID)
	}
	return ap, nil
}
