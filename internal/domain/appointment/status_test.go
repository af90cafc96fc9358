package appointment

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/binda/internal/models"
)

func TestCanTransition_Table(t *testing.T) {
	all := []Status{StatusPendingPayment, StatusConfirmed, StatusCompleted, StatusNoShow, StatusCancelled}
	legal := map[[2]Status]bool{
		{StatusPendingPayment, StatusConfirmed}: true,
		{StatusPendingPayment, StatusCancelled}: true,
		{StatusConfirmed, StatusCompleted}:      true,
		{StatusConfirmed, StatusNoShow}:         true,
		{StatusConfirmed, StatusCancelled}:      true,
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, legal[[2]Status{from, to}], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusNoShow.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusConfirmed.Terminal())
	assert.False(t, StatusPendingPayment.Terminal())
}

func TestTransition_CancelledToCompletedRejected(t *testing.T) {
	ap := &models.Appointment{Status: string(StatusCancelled)}

	changed, err := Transition(ap, StatusCompleted, time.Now())

	require.Error(t, err)
	assert.False(t, changed)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	var te *TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, StatusCancelled, te.From)
	assert.Equal(t, StatusCompleted, te.To)
	assert.Equal(t, string(StatusCancelled), ap.Status)
	assert.Nil(t, ap.CompletedAt)
}

func TestTransition_StampsTimestamps(t *testing.T) {
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.FixedZone("WAT", 3600))
	ap := &models.Appointment{Status: string(StatusPendingPayment)}

	changed, err := Transition(ap, StatusConfirmed, now)
	require.NoError(t, err)
	assert.True(t, changed)
	require.NotNil(t, ap.ConfirmedAt)
	assert.Equal(t, time.UTC, ap.ConfirmedAt.Location())

	require.NoError(t, Cancel(ap, now))
	assert.Equal(t, string(StatusCancelled), ap.Status)
	require.NotNil(t, ap.CancelledAt)
}

func TestTransition_SameStateIsNoop(t *testing.T) {
	ap := &models.Appointment{Status: string(StatusConfirmed)}

	changed, err := Transition(ap, StatusConfirmed, time.Now())

	require.NoError(t, err)
	assert.False(t, changed)
	assert.Nil(t, ap.ConfirmedAt)
}

func TestTransition_UnknownStatus(t *testing.T) {
	ap := &models.Appointment{Status: string(StatusConfirmed)}
	_, err := Transition(ap, Status("archived"), time.Now())
	assert.ErrorIs(t, err, ErrUnknownStatus)

	_, err = ParseStatus("scheduled")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, StatusPendingPayment, InitialStatus(true))
	assert.Equal(t, StatusConfirmed, InitialStatus(false))
}
