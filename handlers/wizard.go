package handlers

import (
	"net/http"

	"slotwise/models"
	"slotwise/services/wizard"

	"github.com/gin-gonic/gin"
)

// WizardHandler exposes the booking wizard over HTTP. Every response
// carries the full session so the client can re-enter at any step.
type WizardHandler struct {
	Service wizard.WizardService
}

func NewWizardHandler(svc wizard.WizardService) *WizardHandler {
	return &WizardHandler{Service: svc}
}

// StartSession creates a new booking wizard session.
func (h *WizardHandler) StartSession(c *gin.Context) {
	var input struct {
		AgentID  string `json:"agentId" binding:"required"`
		UserID   string `json:"userId"`
		Timezone string `json:"timezone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Service.StartSession(c.Request.Context(), input.AgentID, input.UserID, input.Timezone)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// SelectDate picks a calendar date and returns the session with the
// slots for that date attached.
func (h *WizardHandler) SelectDate(c *gin.Context) {
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

// SelectSlot pins one of the offered slots.
func (h *WizardHandler) SelectSlot(c *gin.Context) {
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

// SubmitDetails validates and stores the customer form; free agents are
// booked immediately, paid agents receive a payment client secret.
func (h *WizardHandler) SubmitDetails(c *gin.Context) {
	sessionID := c.Param("sessionID")
	var input wizard.DetailsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Service.SubmitDetails(c.Request.Context(), sessionID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// CompletePayment checks the payment intent and finalizes the booking.
func (h *WizardHandler) CompletePayment(c *gin.Context) {
	sessionID := c.Param("sessionID")

	session, err := h.Service.CompletePayment(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// Back moves the wizard one step toward date selection.
func (h *WizardHandler) Back(c *gin.Context) {
	sessionID := c.Param("sessionID")

	session, err := h.Service.Back(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// CancelSession discards the wizard session and its draft.
func (h *WizardHandler) CancelSession(c *gin.Context) {
	sessionID := c.Param("sessionID")

	if err := h.Service.CancelSession(c.Request.Context(), sessionID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": true})
}
