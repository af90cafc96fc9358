package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/binda/internal/httperr"
	"github.com/BruksfildServices01/binda/internal/models"
	"github.com/BruksfildServices01/binda/internal/tenancy"
	"github.com/BruksfildServices01/binda/internal/usecase/catalog"
	"github.com/BruksfildServices01/binda/internal/usecase/slot"
	"github.com/BruksfildServices01/binda/internal/usecase/tenant"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	resolver     *tenant.Resolver
	catalog      *catalog.Public
	availability *slot.GetAvailability
	log          *slog.Logger
}

func NewPublicHandler(
	resolver *tenant.Resolver,
	cat *catalog.Public,
	availability *slot.GetAvailability,
	log *slog.Logger,
) *PublicHandler {
	return &PublicHandler{resolver: resolver, catalog: cat, availability: availability, log: log}
}

////////////////////////////////////////////////////////
// VIEWS
////////////////////////////////////////////////////////

type publicTenant struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Slug     string    `json:"slug"`
	Timezone string    `json:"timezone"`
	Currency string    `json:"currency"`
	Status   string    `json:"status"`
	LogoURL  string    `json:"logo_url,omitempty"`
}

type publicService struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	DurationMinutes int             `json:"duration_minutes"`
	Price           decimal.Decimal `json:"price"`
}

type publicStaff struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

////////////////////////////////////////////////////////
// TENANT
////////////////////////////////////////////////////////

func (h *PublicHandler) GetTenant(c *gin.Context) {
	t, err := h.resolver.ResolveBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, publicTenant{
		ID:       t.ID,
		Name:     t.Name,
		Slug:     t.Slug,
		Timezone: t.Timezone,
		Currency: t.Currency,
		Status:   t.Status,
		LogoURL:  t.LogoURL,
	})
}

////////////////////////////////////////////////////////
// CATALOG
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	raw := c.Query("tenantId")
	if raw == "" {
		httperr.BadRequest(c, "tenant_id_required", "tenantId is required")
		return
	}
	tenantID, err := uuid.Parse(raw)
	if err != nil {
		httperr.BadRequest(c, "invalid_tenant_id", "tenantId must be a UUID")
		return
	}

	t, err := h.resolver.ResolveByID(c.Request.Context(), tenantID)
	if err != nil {
		respond(c, h.log, err)
		return
	}

	services, err := h.catalog.Services(c.Request.Context(), tenancy.Public(t, c.Query("sessionId")))
	if err != nil {
		respond(c, h.log, err)
		return
	}

	out := make([]publicService, 0, len(services))
	for _, s := range services {
		out = append(out, publicService{
			ID:              s.ID,
			Name:            s.Name,
			Description:     s.Description,
			DurationMinutes: s.DurationMinutes,
			Price:           s.Price,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (h *PublicHandler) ListStaff(c *gin.Context) {
	raw := c.Query("serviceId")
	if raw == "" {
		httperr.BadRequest(c, "service_id_required", "serviceId is required")
		return
	}
	serviceID, err := uuid.Parse(raw)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "serviceId must be a UUID")
		return
	}

	staff, err := h.catalog.StaffForService(c.Request.Context(), serviceID, c.Query("sessionId"))
	if err != nil {
		respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, staffView(staff))
}

func staffView(staff []models.Staff) []publicStaff {
	out := make([]publicStaff, 0, len(staff))
	for _, s := range staff {
		out = append(out, publicStaff{ID: s.ID, Name: s.Name})
	}
	return out
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

type availabilityQuery struct {
	ServiceID string `form:"serviceId" binding:"required,uuid"`
	StaffID   string `form:"staffId" binding:"required,uuid"`
	Date      string `form:"date" binding:"required"`
	SessionID string `form:"sessionId"`
}

func (h *PublicHandler) Availability(c *gin.Context) {
	var q availabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.BadRequest(c, "invalid_request", "serviceId, staffId and date are required")
		return
	}

	res, err := h.availability.Execute(c.Request.Context(), slot.AvailabilityInput{
		ServiceID: uuid.MustParse(q.ServiceID),
		StaffID:   uuid.MustParse(q.StaffID),
		Date:      q.Date,
		SessionID: q.SessionID,
	})
	if err != nil {
		respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
