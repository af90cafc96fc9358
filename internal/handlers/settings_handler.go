package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/binda/internal/httperr"
	"github.com/BruksfildServices01/binda/internal/httpresp"
	"github.com/BruksfildServices01/binda/internal/usecase/tenant"
)

const maxLogoBytes = 5 << 20

type SettingsHandler struct {
	settings *tenant.Settings
	log      *slog.Logger
}

func NewSettingsHandler(settings *tenant.Settings, log *slog.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settings, log: log}
}

type SettingsRequest struct {
	Name              *string `json:"name" binding:"omitempty,max=100"`
	Timezone          *string `json:"timezone" binding:"omitempty,timezone"`
	Currency          *string `json:"currency" binding:"omitempty,currency"`
	MinAdvanceMinutes *int    `json:"min_advance_minutes" binding:"omitempty,min=0,max=10080"`
	Status            *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

func (h *SettingsHandler) Get(c *gin.Context) {
	tc, ok := actor(c)
	if !ok {
		return
	}
	t, err := h.settings.Get(c.Request.Context(), tc)
	if err != nil {
		respond(c, h.log, err)
		return
	}
	httpresp.OK(c, newTenantView(t))
}

func (h *SettingsHandler) Update(c *gin.Context) {
	tc, ok := actor(c)
	if !ok {
		return
	}
	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid settings")
		return
	}

	t, err := h.settings.Update(c.Request.Context(), tc, tenant.SettingsInput{
		Name:              req.Name,
		Timezone:          req.Timezone,
		Currency:          req.Currency,
		MinAdvanceMinutes: req.MinAdvanceMinutes,
		Status:            req.Status,
	})
	if err != nil {
		respond(c, h.log, err)
		return
	}
	httpresp.OK(c, newTenantView(t))
}

// UploadLogo takes a multipart "logo" field holding a JPEG, PNG or WebP image.
func (h *SettingsHandler) UploadLogo(c *gin.Context) {
	tc, ok := actor(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxLogoBytes)
	fh, err := c.FormFile("logo")
	if err != nil {
		httperr.BadRequest(c, "logo_required", "A logo file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		httperr.BadRequest(c, "logo_required", "A logo file is required")
		return
	}
	defer f.Close()

	t, err := h.settings.UploadLogo(c.Request.Context(), tc, f)
	if err != nil {
		respond(c, h.log, err)
		return
	}
	httpresp.OK(c, newTenantView(t))
}
