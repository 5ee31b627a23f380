package handlers

import (
	"net/http"

	"slotwise/models"
	"slotwise/services/wizard"

	"github.com/gin-gonic/gin"
)

// RescheduleHandler exposes the reschedule flow for existing bookings.
type RescheduleHandler struct {
	Service wizard.RescheduleService
}

func NewRescheduleHandler(svc wizard.RescheduleService) *RescheduleHandler {
	return &RescheduleHandler{Service: svc}
}

// Load opens a reschedule session against an existing booking.
func (h *RescheduleHandler) Load(c *gin.Context) {
	var input struct {
		BookingID string `json:"bookingId" binding:"required"`
		UserID    string `json:"userId" binding:"required"`
		Timezone  string `json:"timezone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Service.Load(c.Request.Context(), input.BookingID, input.UserID, input.Timezone)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// SelectDate picks a new calendar date for the booking.
func (h *RescheduleHandler) SelectDate(c *gin.Context) {
	sessionID := c.Param("sessionID")
	var input struct {
		Date string `json:"date" binding:"required"` // DD-MON-YYYY
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Service.SelectDate(c.Request.Context(), sessionID, input.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// SelectSlot stages the replacement slot for confirmation.
func (h *RescheduleHandler) SelectSlot(c *gin.Context) {
	sessionID := c.Param("sessionID")
	var input struct {
		Slot models.Slot `json:"slot" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Service.SelectSlot(c.Request.Context(), sessionID, input.Slot)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// Confirm commits the reschedule. The session in the response reflects
// where the flow landed: success, or back on the time step after a
// failed commit with the staged slot intact.
func (h *RescheduleHandler) Confirm(c *gin.Context) {
	sessionID := c.Param("sessionID")

	session, err := h.Service.Confirm(c.Request.Context(), sessionID)
	if err != nil {
		if session != nil {
			c.JSON(http.StatusBadGateway, gin.H{
				"error":   "reschedule failed",
				"details": err.Error(),
				"session": session,
			})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// Cancel abandons the reschedule; the original booking is untouched.
func (h *RescheduleHandler) Cancel(c *gin.Context) {
	sessionID := c.Param("sessionID")

	if err := h.Service.Cancel(c.Request.Context(), sessionID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": true})
}
