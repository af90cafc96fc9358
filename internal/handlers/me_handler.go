package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/binda/internal/domain/tenant"
	"github.com/BruksfildServices01/binda/internal/httperr"
)

type MeHandler struct {
	tenants domain.Repository
	log     *slog.Logger
}

func NewMeHandler(tenants domain.Repository, log *slog.Logger) *MeHandler {
	return &MeHandler{tenants: tenants, log: log}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	tc, ok := actor(c)
	if !ok {
		return
	}
	if tc.Actor.UserID == nil {
		httperr.Unauthorized(c, "unauthenticated", "Authentication required")
		return
	}

	ctx := c.Request.Context()
	user, err := h.tenants.GetUser(ctx, tc.TenantID, *tc.Actor.UserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		// account removed after the token was issued
		httperr.Unauthorized(c, "user_not_found", "Invalid or expired session")
		return
	}
	if err != nil {
		respond(c, h.log, err)
		return
	}

	t, err := h.tenants.GetByID(ctx, tc.TenantID)
	if err != nil {
		respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   newUserView(user),
		"tenant": newTenantView(t),
	})
}
