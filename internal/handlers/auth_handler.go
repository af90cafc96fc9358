package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/binda/internal/auth"
	"github.com/BruksfildServices01/binda/internal/httperr"
	"github.com/BruksfildServices01/binda/internal/models"
	"github.com/BruksfildServices01/binda/internal/usecase/tenant"
)

type AuthHandler struct {
	register *tenant.Register
	login    *tenant.Login
	issuer   *auth.Issuer
	log      *slog.Logger
}

func NewAuthHandler(register *tenant.Register, login *tenant.Login, issuer *auth.Issuer, log *slog.Logger) *AuthHandler {
	return &AuthHandler{register: register, login: login, issuer: issuer, log: log}
}

// --------- Requests ---------

type RegisterRequest struct {
	TenantName string `json:"tenant_name" binding:"required,max=100"`
	TenantSlug string `json:"tenant_slug" binding:"required,slug"`
	Timezone   string `json:"timezone" binding:"omitempty,timezone"`
	Currency   string `json:"currency" binding:"omitempty,currency"`

	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Views ---------

type userView struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	StaffID  *string `json:"staff_id,omitempty"`
	TenantID string  `json:"tenant_id"`
}

type tenantView struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Slug              string `json:"slug"`
	Timezone          string `json:"timezone"`
	Currency          string `json:"currency"`
	Status            string `json:"status"`
	MinAdvanceMinutes int    `json:"min_advance_minutes"`
	LogoURL           string `json:"logo_url,omitempty"`
}

func newUserView(u *models.User) userView {
	v := userView{
		ID:       u.ID.String(),
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		TenantID: u.TenantID.String(),
	}
	if u.StaffID != nil {
		s := u.StaffID.String()
		v.StaffID = &s
	}
	return v
}

func newTenantView(t *models.Tenant) tenantView {
	return tenantView{
		ID:                t.ID.String(),
		Name:              t.Name,
		Slug:              t.Slug,
		Timezone:          t.Timezone,
		Currency:          t.Currency,
		Status:            t.Status,
		MinAdvanceMinutes: t.MinAdvanceMinutes,
		LogoURL:           t.LogoURL,
	}
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid registration data")
		return
	}

	t, u, err := h.register.Execute(c.Request.Context(), tenant.RegisterInput{
		TenantName: req.TenantName,
		Slug:       req.TenantSlug,
		Timezone:   req.Timezone,
		Currency:   req.Currency,
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
	})
	if err != nil {
		respond(c, h.log, err)
		return
	}

	h.session(c, http.StatusCreated, u, t)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Email and password are required")
		return
	}

	u, t, err := h.login.Execute(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respond(c, h.log, err)
		return
	}

	h.session(c, http.StatusOK, u, t)
}

func (h *AuthHandler) session(c *gin.Context, status int, u *models.User, t *models.Tenant) {
	token, expires, err := h.issuer.Issue(u)
	if err != nil {
		h.log.Error("issue token", "user_id", u.ID, "error", err)
		httperr.Internal(c, "failed_to_generate_token", "Internal server error")
		return
	}

	c.JSON(status, gin.H{
		"token":      token,
		"expires_at": expires.UTC().Format(time.RFC3339),
		"user":       newUserView(u),
		"tenant":     newTenantView(t),
	})
}
