package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/binda/internal/httperr"
	"github.com/BruksfildServices01/binda/internal/httpresp"
	"github.com/BruksfildServices01/binda/internal/models"
	"github.com/BruksfildServices01/binda/internal/usecase/catalog"
)

type WorkingHoursHandler struct {
	manage *catalog.Manage
	log    *slog.Logger
}

func NewWorkingHoursHandler(manage *catalog.Manage, log *slog.Logger) *WorkingHoursHandler {
	return &WorkingHoursHandler{manage: manage, log: log}
}

// WorkingHoursRow is either a weekly row (weekday 0..6, Sunday first) or a
// one-day override (date YYYY-MM-DD).
type WorkingHoursRow struct {
	Weekday   *int    `json:"weekday" binding:"omitempty,min=0,max=6"`
	Date      *string `json:"date"`
	OpenTime  string  `json:"open_time" binding:"omitempty,hhmm"`
	CloseTime string  `json:"close_time" binding:"omitempty,hhmm"`
	IsClosed  bool    `json:"is_closed"`
}

type WorkingHoursUpdateRequest struct {
	Hours []WorkingHoursRow `json:"hours" binding:"required,dive"`
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	tc, ok := actor(c)
	if !ok {
		return
	}
	staffID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	rows, err := h.manage.WorkingHours(c.Request.Context(), tc, staffID)
	if err != nil {
		respond(c, h.log, err)
		return
	}
	httpresp.List(c, rows)
}

// Update replaces the staff member's whole schedule.
func (h *WorkingHoursHandler) Update(c *gin.Context) {
	tc, ok := actor(c)
	if !ok {
		return
	}
	staffID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid working hours")
		return
	}

	rows := make([]models.StaffWorkingHours, 0, len(req.Hours))
	for _, r := range req.Hours {
		rows = append(rows, models.StaffWorkingHours{
			StaffID:   staffID,
			Weekday:   r.Weekday,
			Date:      r.Date,
			OpenTime:  r.OpenTime,
			CloseTime: r.CloseTime,
			IsClosed:  r.IsClosed,
		})
	}

	saved, err := h.manage.ReplaceWorkingHours(c.Request.Context(), tc, staffID, rows)
	if err != nil {
		respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": saved})
}
