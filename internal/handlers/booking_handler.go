package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/binda/internal/domain/appointment"
	"github.com/BruksfildServices01/binda/internal/dto"
	"github.com/BruksfildServices01/binda/internal/httperr"
	"github.com/BruksfildServices01/binda/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	create  *appointment.CreateBooking
	confirm *appointment.ConfirmPayment
	log     *slog.Logger
}

func NewBookingHandler(create *appointment.CreateBooking, confirm *appointment.ConfirmPayment, log *slog.Logger) *BookingHandler {
	return &BookingHandler{create: create, confirm: confirm, log: log}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	TenantID  string          `json:"tenantId" binding:"required,uuid"`
	LockID    string          `json:"lockId" binding:"required,uuid"`
	SessionID string          `json:"sessionId" binding:"required,max=128"`
	AttemptID string          `json:"attemptId" binding:"omitempty,max=64"`
	Customer  CustomerRequest `json:"customer"`
	Notes     string          `json:"notes" binding:"max=1000"`
}

// CustomerRequest needs an email or a phone; the use case enforces that.
type CustomerRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Email string `json:"email" binding:"omitempty,email,max=100"`
	Phone string `json:"phone" binding:"omitempty,max=20"`
}

type VerifyPaymentRequest struct {
	TenantID      string `json:"tenantId" binding:"required,uuid"`
	AppointmentID string `json:"appointmentId" binding:"required,uuid"`
	PaymentID     string `json:"paymentId" binding:"required"`
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid booking request")
		return
	}

	res, err := h.create.Execute(c.Request.Context(), appointment.CreateBookingInput{
		TenantID:  uuid.MustParse(req.TenantID),
		LockID:    uuid.MustParse(req.LockID),
		SessionID: req.SessionID,
		AttemptID: req.AttemptID,
		Customer: domain.CustomerInput{
			Name:  req.Customer.Name,
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		},
		Notes: req.Notes,
	})
	if err != nil {
		respond(c, h.log, err)
		return
	}

	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, dto.NewBooking(res.Appointment, res.Replayed))
}

// ======================================================
// PAYMENT
// ======================================================

func (h *BookingHandler) VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "tenantId, appointmentId and paymentId are required")
		return
	}

	ap, err := h.confirm.Execute(
		c.Request.Context(),
		uuid.MustParse(req.TenantID),
		uuid.MustParse(req.AppointmentID),
		req.PaymentID,
	)
	if err != nil {
		respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBooking(ap, false))
}
