package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/binda/internal/auth"
)

const HeaderSessionToken = "X-Session-Token"

// SessionRefresh hands out a fresh token in X-Session-Token when the
// caller's valid token expires within window. Invalid tokens are ignored
// here; AuthMiddleware rejects them where auth is required.
func SessionRefresh(issuer *auth.Issuer, window time.Duration, now func() time.Time) gin.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(c *gin.Context) {
		token, ok := bearer(c.GetHeader("Authorization"))
		if ok {
			if claims, err := issuer.Parse(token); err == nil && claims.ExpiresAt != nil {
				if claims.ExpiresAt.Time.Sub(now()) < window {
					if fresh, _, err := issuer.Refresh(claims); err == nil {
						c.Header(HeaderSessionToken, fresh)
					}
				}
			}
		}
		c.Next()
	}
}
