package handlers

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/binda/internal/httpresp"
	"github.com/BruksfildServices01/binda/internal/usecase/appointment"
)

type DashboardHandler struct {
	dashboard *appointment.Dashboard
	log       *slog.Logger
}

func NewDashboardHandler(dashboard *appointment.Dashboard, log *slog.Logger) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, log: log}
}

func (h *DashboardHandler) Today(c *gin.Context) {
	tc, ok := actor(c)
	if !ok {
		return
	}
	s, err := h.dashboard.Today(c.Request.Context(), tc)
	if err != nil {
		respond(c, h.log, err)
		return
	}
	httpresp.OK(c, s)
}

// Customers searches by name, email or phone with ?query=.
func (h *DashboardHandler) Customers(c *gin.Context) {
	tc, ok := actor(c)
	if !ok {
		return
	}
	out, err := h.dashboard.Customers(c.Request.Context(), tc, strings.TrimSpace(c.Query("query")))
	if err != nil {
		respond(c, h.log, err)
		return
	}
	httpresp.List(c, out)
}
