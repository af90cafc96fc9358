package handlers

import (
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/binda/internal/audit"
	"github.com/BruksfildServices01/binda/internal/httpresp"
	"github.com/BruksfildServices01/binda/internal/policy"
	"github.com/BruksfildServices01/binda/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	logs *audit.Logger
	log  *slog.Logger
}

func NewAuditLogsHandler(logs *audit.Logger, log *slog.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{logs: logs, log: log}
}

// List pages through the tenant's audit trail. from and to are tenant-local
// calendar days; to is inclusive.
func (h *AuditLogsHandler) List(c *gin.Context) {
	tc, ok := actor(c)
	if !ok {
		return
	}
	if err := policy.Authorize(tc, tc.TenantID, policy.AuditLog, policy.Read); err != nil {
		respond(c, h.log, err)
		return
	}

	f := audit.Filter{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
	}
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	if v := c.Query("from"); v != "" {
		if from, err := timezone.ParseDate(v, tc.Timezone); err == nil {
			f.From = &from
		}
	}
	if v := c.Query("to"); v != "" {
		if to, err := timezone.ParseDate(v, tc.Timezone); err == nil {
			end := to.AddDate(0, 0, 1)
			f.To = &end
		}
	}
	f.Normalize()

	rows, total, err := h.logs.List(c.Request.Context(), tc.TenantID, f)
	if err != nil {
		respond(c, h.log, err)
		return
	}

	httpresp.Page(c, rows, f.Page, f.Limit, total)
}

