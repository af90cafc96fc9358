package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/binda/internal/httperr"
	"github.com/BruksfildServices01/binda/internal/usecase/slot"
)

type SlotHandler struct {
	acquire *slot.AcquireLock
	release *slot.ReleaseLock
	log     *slog.Logger
}

func NewSlotHandler(acquire *slot.AcquireLock, release *slot.ReleaseLock, log *slog.Logger) *SlotHandler {
	return &SlotHandler{acquire: acquire, release: release, log: log}
}

type LockRequest struct {
	ServiceID string `json:"serviceId" binding:"required,uuid"`
	StaffID   string `json:"staffId" binding:"required,uuid"`
	Start     string `json:"start" binding:"required"`
	SessionID string `json:"sessionId" binding:"required,max=128"`
}

type UnlockRequest struct {
	LockID    string `json:"lockId"`
	SessionID string `json:"sessionId"`
}

type lockResponse struct {
	LockID    uuid.UUID `json:"lockId"`
	SlotStart time.Time `json:"slotStart"`
	SlotEnd   time.Time `json:"slotEnd"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h *SlotHandler) Lock(c *gin.Context) {
	var req LockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "serviceId, staffId, start and sessionId are required")
		return
	}

	lock, err := h.acquire.Execute(c.Request.Context(), slot.AcquireInput{
		ServiceID: uuid.MustParse(req.ServiceID),
		StaffID:   uuid.MustParse(req.StaffID),
		Start:     req.Start,
		SessionID: req.SessionID,
	})
	if err != nil {
		respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, lockResponse{
		LockID:    lock.ID,
		SlotStart: lock.SlotStart.UTC(),
		SlotEnd:   lock.SlotEnd.UTC(),
		ExpiresAt: lock.ExpiresAt.UTC(),
	})
}

// Unlock always answers success once the delete ran; callers cannot tell a
// released lock from one that was already gone.
func (h *SlotHandler) Unlock(c *gin.Context) {
	var req UnlockRequest
	_ = c.ShouldBindJSON(&req)
	if req.LockID == "" || req.SessionID == "" {
		httperr.BadRequest(c, "missing_fields", "lockId and sessionId are required")
		return
	}

	lockID, err := uuid.Parse(req.LockID)
	if err != nil {
		// no such row can exist
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	if err := h.release.Execute(c.Request.Context(), lockID, req.SessionID); err != nil {
		httperr.Internal(c, "internal_error", "Internal server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
