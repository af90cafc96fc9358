package tenancy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/binda/internal/models"
)

func TestNew(t *testing.T) {
	tenant := &models.Tenant{ID: uuid.New(), Timezone: "Africa/Lagos", Currency: "NGN"}

	tc := Public(tenant, "sess-1")

	assert.Equal(t, tenant.ID, tc.TenantID)
	assert.Equal(t, RolePublic, tc.Actor.Role)
	assert.Equal(t, "sess-1", tc.Actor.SessionID)
	assert.Equal(t, "Africa/Lagos", tc.Location().String())
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole("admin")
	assert.True(t, ok)
	assert.Equal(t, RoleAdmin, r)

	_, ok = ParseRole("public")
	assert.False(t, ok, "public is never a dashboard role")
}
