package handlers

import (
	"net/http"

	settingsRepo "slotwise/database/repository/settings"
	"slotwise/models"
	"slotwise/services/scheduling"

	"github.com/gin-gonic/gin"
)

// SlotHandler serves sessionless slot listings plus the admin settings
// surface for an agent.
type SlotHandler struct {
	Fetcher  *scheduling.Fetcher
	Settings settingsRepo.SettingsRepository
}

func NewSlotHandler(fetcher *scheduling.Fetcher, settings settingsRepo.SettingsRepository) *SlotHandler {
	return &SlotHandler{Fetcher: fetcher, Settings: settings}
}

// GetSlots lists bookable slots for one agent and date, localized to the
// requested timezone. GET /api/agents/:agentID/slots?date=..&timezone=..
func (h *SlotHandler) GetSlots(c *gin.Context) {
	agentID := c.Param("agentID")
	date := c.Query("date")
	timezone := c.Query("timezone")
	if date == "" || timezone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date and timezone query parameters are required"})
		return
	}

	settings, err := h.Settings.GetByAgentID(c.Request.Context(), agentID)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.Fetcher.FetchSlots(c.Request.Context(), settings, date, timezone)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"slots":             result.Slots,
		"businessLocalOnly": result.BusinessLocalOnly,
	})
}

// GetSettings returns the agent's scheduling configuration.
func (h *SlotHandler) GetSettings(c *gin.Context) {
	agentID := c.Param("agentID")

	settings, err := h.Settings.GetByAgentID(c.Request.Context(), agentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettings replaces the agent's scheduling configuration.
func (h *SlotHandler) UpdateSettings(c *gin.Context) {
	agentID := c.Param("agentID")
	var settings models.AppointmentSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	settings.AgentID = agentID

	if settings.MeetingDuration <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "meetingDuration must be positive"})
		return
	}
	if settings.BufferTime < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bufferTime must not be negative"})
		return
	}
	if settings.Timezone != "" {
		if _, err := scheduling.LoadZone(settings.Timezone); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown timezone", "details": err.Error()})
			return
		}
	}
	for _, l := range settings.Locations {
		if !l.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown location kind", "details": string(l)})
			return
		}
	}

	if err := h.Settings.Upsert(c.Request.Context(), settings); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}
