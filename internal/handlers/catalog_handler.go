package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/binda/internal/httperr"
	"github.com/BruksfildServices01/binda/internal/httpresp"
	"github.com/BruksfildServices01/binda/internal/usecase/catalog"
)

// ======================================================
// HANDLER
// ======================================================

type CatalogHandler struct {
	manage *catalog.Manage
	log    *slog.Logger
}

func NewCatalogHandler(manage *catalog.Manage, log *slog.Logger) *CatalogHandler {
	return &CatalogHandler{manage: manage, log: log}
}

// ======================================================
// REQUESTS
// ======================================================

// ServiceRequest is used for both create and partial update; absent fields
// keep their current value on update.
type ServiceRequest struct {
	Name            *string          `json:"name" binding:"omitempty,max=100"`
	Description     *string          `json:"description" binding:"omitempty,max=255"`
	DurationMinutes *int             `json:"duration_minutes"`
	Price           *decimal.Decimal `json:"price"`
	IsActive        *bool            `json:"is_active"`
}

func (r ServiceRequest) input() catalog.ServiceInput {
	return catalog.ServiceInput{
		Name:            r.Name,
		Description:     r.Description,
		DurationMinutes: r.DurationMinutes,
		Price:           r.Price,
		IsActive:        r.IsActive,
	}
}

type StaffRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=100"`
	Email    *string `json:"email" binding:"omitempty,email,max=100"`
	IsActive *bool   `json:"is_active"`
}

func (r StaffRequest) input() catalog.StaffInput {
	return catalog.StaffInput{Name: r.Name, Email: r.Email, IsActive: r.IsActive}
}

type ServiceStaffRequest struct {
	StaffIDs []uuid.UUID `json:"staff_ids" binding:"required"`
}

// ======================================================
// SERVICES
// ======================================================

func (h *CatalogHandler) ListServices(c *gin.Context) {
	tc, ok := actor(c)
	if !ok {
		return
	}
	out, err := h.manage.ListServices(c.Request.Context(), tc)
	if err != nil {
		respond(c, h.log, err)
		return
	}
	httpresp.List(c, out)
}

func (h *CatalogHandler) CreateService(c *gin.Context) {
	tc, ok := actor(c)
	if !ok {
		return
	}
	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid service")
		return
	}

	s, err := h.manage.CreateService(c.Request.Context(), tc, req.input())
	if err != nil {
		respond(c, h.log, err)
		return
	}
	httpresp.Created(c, s)
}

func (h *CatalogHandler) UpdateService(c *gin.Context) {
	tc, ok := actor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid service")
		return
	}

	s, err := h.manage.UpdateService(c.Request.Context(), tc, id, req.input())
	if err != nil {
		respond(c, h.log, err)
		return
	}
	httpresp.OK(c, s)
}

// SetServiceStaff replaces the set of staff who perform the service.
func (h *CatalogHandler) SetServiceStaff(c *gin.Context) {
	tc, ok := actor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req ServiceStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "staff_ids is required")
		return
	}

	staff, err := h.manage.SetServiceStaff(c.Request.Context(), tc, id, req.StaffIDs)
	if err != nil {
		respond(c, h.log, err)
		return
	}
	httpresp.List(c, staff)
}

// ======================================================
// STAFF
// ======================================================

func (h *CatalogHandler) ListStaff(c *gin.Context) {
	tc, ok := actor(c)
	if !ok {
		return
	}
	out, err := h.manage.ListStaff(c.Request.Context(), tc)
	if err != nil {
		respond(c, h.log, err)
		return
	}
	httpresp.List(c, out)
}

func (h *CatalogHandler) CreateStaff(c *gin.Context) {
	tc, ok := actor(c)
	if !ok {
		return
	}
	var req StaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid staff member")
		return
	}

	s, err := h.manage.CreateStaff(c.Request.Context(), tc, req.input())
	if err != nil {
		respond(c, h.log, err)
		return
	}
	httpresp.Created(c, s)
}

func (h *CatalogHandler) UpdateStaff(c *gin.Context) {
	tc, ok := actor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req StaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid staff member")
		return
	}

	s, err := h.manage.UpdateStaff(c.Request.Context(), tc, id, req.input())
	if err != nil {
		respond(c, h.log, err)
		return
	}
	httpresp.OK(c, s)
}
