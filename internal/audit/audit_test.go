package audit

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/binda/internal/dbtest"
	"github.com/BruksfildServices01/binda/internal/logging"
)

func TestDispatcher_WritesAndLists(t *testing.T) {
	gdb := dbtest.Open(t)
	fx := dbtest.Seed(t, gdb)
	logger := New(gdb)

	d := NewDispatcher(logger, logging.Discard())
	apID := uuid.New()
	d.Dispatch(Event{TenantID: fx.Tenant.ID, Action: "appointment.cancelled", Entity: "appointment", EntityID: &apID, Metadata: map[string]string{"from": "confirmed"}})
	d.Dispatch(Event{TenantID: fx.Tenant.ID, Action: "service.created", Entity: "service"})
	d.Dispatch(Event{TenantID: uuid.New(), Action: "service.created", Entity: "service"})
	d.Close()

	rows, total, err := logger.List(context.Background(), fx.Tenant.ID, Filter{})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, int64(2), total)

	rows, total, err = logger.List(context.Background(), fx.Tenant.ID, Filter{Entity: "appointment"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, apID, *rows[0].EntityID)
	assert.JSONEq(t, `{"from":"confirmed"}`, rows[0].Metadata)

	rows, total, err = logger.List(context.Background(), fx.Tenant.ID, Filter{Page: 2, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, rows, 1)
}
