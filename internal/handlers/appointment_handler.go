package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/binda/internal/httperr"
	"github.com/BruksfildServices01/binda/internal/httpresp"
	"github.com/BruksfildServices01/binda/internal/timezone"
	"github.com/BruksfildServices01/binda/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	byDate  *appointment.ListAppointmentsByDate
	byMonth *appointment.ListAppointmentsByMonth
	status  *appointment.UpdateStatus
	log     *slog.Logger
}

func NewAppointmentHandler(
	byDate *appointment.ListAppointmentsByDate,
	byMonth *appointment.ListAppointmentsByMonth,
	status *appointment.UpdateStatus,
	log *slog.Logger,
) *AppointmentHandler {
	return &AppointmentHandler{byDate: byDate, byMonth: byMonth, status: status, log: log}
}

// ======================================================
// REQUESTS
// ======================================================

type UpdateStatusRequest struct {
	Status string  `json:"status" binding:"required"`
	Notes  *string `json:"notes" binding:"omitempty,max=1000"`
}

// staffFilter reads the optional staffId query parameter.
func staffFilter(c *gin.Context) (*uuid.UUID, bool) {
	raw := c.Query("staffId")
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		httperr.BadRequest(c, "invalid_staff_id", "staffId must be a UUID")
		return nil, false
	}
	return &id, true
}

// ======================================================
// LIST BY DATE
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	tc, ok := actor(c)
	if !ok {
		return
	}
	staffID, ok := staffFilter(c)
	if !ok {
		return
	}

	date := c.Query("date")
	if date == "" {
		date = timezone.NowIn(tc.Timezone).Format("2006-01-02")
	}

	out, err := h.byDate.Execute(c.Request.Context(), tc, date, staffID)
	if err != nil {
		respond(c, h.log, err)
		return
	}
	httpresp.List(c, out)
}

// ======================================================
// LIST BY MONTH
// ======================================================

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	tc, ok := actor(c)
	if !ok {
		return
	}
	staffID, ok := staffFilter(c)
	if !ok {
		return
	}

	now := timezone.NowIn(tc.Timezone)
	year, month := now.Year(), int(now.Month())
	if v := c.Query("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			httperr.BadRequest(c, "invalid_month", "Invalid year")
			return
		}
		year = n
	}
	if v := c.Query("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			httperr.BadRequest(c, "invalid_month", "Invalid month")
			return
		}
		month = n
	}

	out, err := h.byMonth.Execute(c.Request.Context(), tc, year, month, staffID)
	if err != nil {
		respond(c, h.log, err)
		return
	}
	httpresp.List(c, out)
}

// ======================================================
// UPDATE STATUS
// ======================================================

// UpdateStatus reports failures as {success:false, error, error_code}.
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	tc, ok := actor(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.WriteFailure(c, http.StatusBadRequest, "invalid_id", "Invalid id")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.WriteFailure(c, http.StatusBadRequest, "invalid_request", "status is required")
		return
	}

	ap, err := h.status.Execute(c.Request.Context(), tc, id, req.Status, req.Notes)
	if err != nil {
		respondFailure(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"id":      ap.ID,
		"status":  ap.Status,
		"notes":   ap.Notes,
	})
}
