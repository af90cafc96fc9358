package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/binda/internal/auth"
	domain "github.com/BruksfildServices01/binda/internal/domain/tenant"
	"github.com/BruksfildServices01/binda/internal/httperr"
	"github.com/BruksfildServices01/binda/internal/tenancy"
)

const (
	ContextTenant = "tenantContext"
	ContextClaims = "claims"
)

// AuthMiddleware verifies the bearer token and stores the caller's
// TenantContext. The tenant always comes from the token, never the host.
func AuthMiddleware(issuer *auth.Issuer, tenants domain.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearer(c.GetHeader("Authorization"))
		if !ok {
			httperr.Unauthorized(c, "missing_authorization_header", "Authentication required")
			return
		}

		claims, err := issuer.Parse(token)
		if err != nil {
			httperr.Unauthorized(c, "invalid_token", "Invalid or expired session")
			return
		}

		tenantID, actor, err := claims.Actor()
		if err != nil {
			httperr.Unauthorized(c, "invalid_token_payload", "Invalid or expired session")
			return
		}

		t, err := tenants.GetByID(c.Request.Context(), tenantID)
		if err != nil {
			httperr.Unauthorized(c, "invalid_token_payload", "Invalid or expired session")
			return
		}

		c.Set(ContextClaims, claims)
		c.Set(ContextTenant, tenancy.New(t, actor))
		c.Next()
	}
}

// TenantContext returns what AuthMiddleware stored.
func TenantContext(c *gin.Context) (tenancy.Context, bool) {
	v, ok := c.Get(ContextTenant)
	if !ok {
		return tenancy.Context{}, false
	}
	tc, ok := v.(tenancy.Context)
	return tc, ok
}

func bearer(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
