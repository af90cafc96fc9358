package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/binda/internal/domain/appointment"
	catalog "github.com/BruksfildServices01/binda/internal/domain/catalog"
	tenantdomain "github.com/BruksfildServices01/binda/internal/domain/tenant"
	"github.com/BruksfildServices01/binda/internal/httperr"
	"github.com/BruksfildServices01/binda/internal/infra/redislock"
	"github.com/BruksfildServices01/binda/internal/middleware"
	"github.com/BruksfildServices01/binda/internal/policy"
	"github.com/BruksfildServices01/binda/internal/tenancy"
	"github.com/BruksfildServices01/binda/internal/usecase/appointment"
	"github.com/BruksfildServices01/binda/internal/usecase/tenant"
)

// respond maps use-case errors onto the JSON error contract. Anything it
// does not recognise is logged and reported as a bare 500.
func respond(c *gin.Context, log *slog.Logger, err error) {
	status, code, message := classify(c, log, err)
	httperr.Write(c, status, code, message)
}

// respondFailure is respond for endpoints whose contract carries
// success:false next to the error.
func respondFailure(c *gin.Context, log *slog.Logger, err error) {
	status, code, message := classify(c, log, err)
	httperr.WriteFailure(c, status, code, message)
}

func classify(c *gin.Context, log *slog.Logger, err error) (int, string, string) {
	var be httperr.BusinessError
	var te *domain.TransitionError

	switch {
	case errors.Is(err, tenant.ErrTenantNotFound), errors.Is(err, tenantdomain.ErrNotFound):
		return http.StatusNotFound, "tenant_not_found", "Tenant not found"
	case errors.Is(err, catalog.ErrServiceNotFound):
		return http.StatusNotFound, "service_not_found", "Service not found"
	case errors.Is(err, catalog.ErrStaffNotFound):
		return http.StatusNotFound, "staff_not_found", "Staff not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "appointment_not_found", "Appointment not found"
	case errors.Is(err, domain.ErrLockNotFound):
		return http.StatusNotFound, "lock_not_found", "Slot lock not found or expired"
	case errors.Is(err, domain.ErrSlotUnavailable):
		return http.StatusConflict, "slot_unavailable", "Slot no longer available"
	case errors.Is(err, domain.ErrConcurrentUpdate):
		return http.StatusConflict, "appointment_changed", "Appointment was changed by another request"
	case errors.Is(err, domain.ErrAttemptConflict):
		return http.StatusConflict, "attempt_conflict", "Attempt id already used"
	case errors.As(err, &te):
		return http.StatusConflict, "invalid_transition", "Cannot change status from " + string(te.From) + " to " + string(te.To)
	case errors.Is(err, domain.ErrUnknownStatus):
		return http.StatusBadRequest, "invalid_status", "Unknown status"
	case errors.Is(err, policy.ErrForbidden):
		return http.StatusForbidden, "forbidden", "Not allowed"
	case errors.Is(err, tenant.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials", "Invalid email or password"
	case errors.Is(err, redislock.ErrBusy):
		return http.StatusServiceUnavailable, "busy", "Try again shortly"
	case errors.Is(err, appointment.ErrPaymentGateway):
		log.Error("payment gateway failure", "path", c.FullPath(), "error", err)
		return http.StatusBadGateway, "payment_gateway_error", "Payment provider unavailable"
	case errors.As(err, &be):
		return be.Status(), be.Code, be.Message()
	default:
		log.Error("request failed", "path", c.FullPath(), "error", err)
		return http.StatusInternalServerError, "internal_error", "Internal server error"
	}
}

// actor returns the authenticated TenantContext or writes a 401.
func actor(c *gin.Context) (tenancy.Context, bool) {
	tc, ok := middleware.TenantContext(c)
	if !ok {
		httperr.Unauthorized(c, "unauthenticated", "Authentication required")
	}
	return tc, ok
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.BadRequest(c, "invalid_"+name, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
