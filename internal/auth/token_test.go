package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/binda/internal/models"
	"github.com/BruksfildServices01/binda/internal/tenancy"
)

func TestIssueAndParse(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	staffID := uuid.New()
	u := &models.User{ID: uuid.New(), TenantID: uuid.New(), StaffID: &staffID, Role: "staff"}

	tok, exp, err := iss.Issue(u)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := iss.Parse(tok)
	require.NoError(t, err)

	tenantID, actor, err := claims.Actor()
	require.NoError(t, err)
	assert.Equal(t, u.TenantID, tenantID)
	assert.Equal(t, tenancy.RoleStaff, actor.Role)
	assert.Equal(t, u.ID, *actor.UserID)
	assert.Equal(t, staffID, *actor.StaffID)
}

func TestParse_RejectsWrongSecretAndExpired(t *testing.T) {
	u := &models.User{ID: uuid.New(), TenantID: uuid.New(), Role: "owner"}

	tok, _, err := NewIssuer("a", time.Hour).Issue(u)
	require.NoError(t, err)
	_, err = NewIssuer("b", time.Hour).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	old := NewIssuer("a", time.Minute)
	old.now = func() time.Time { return time.Now().Add(-time.Hour) }
	tok, _, err = old.Issue(u)
	require.NoError(t, err)
	_, err = NewIssuer("a", time.Minute).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestActor_RejectsPublicRole(t *testing.T) {
	c := &Claims{TenantID: uuid.NewString(), Role: "public"}
	c.Subject = uuid.NewString()
	_, _, err := c.Actor()
	assert.ErrorIs(t, err, ErrInvalidToken)
}
