package routes

import (
	"net/http"
	"time"

	"slotwise/handlers"
	"slotwise/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterWizardRoutes sets up the endpoints for the booking wizard.
func RegisterWizardRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	wizardGroup := r.Group("/api/wizard")
	{
		wizardGroup.POST("/session", hb.Wizard.StartSession)
		wizardGroup.PUT("/session/:sessionID/date", hb.Wizard.SelectDate)
		wizardGroup.PUT("/session/:sessionID/slot", hb.Wizard.SelectSlot)
		wizardGroup.PUT("/session/:sessionID/details", hb.Wizard.SubmitDetails)
		wizardGroup.POST("/session/:sessionID/payment", hb.Wizard.CompletePayment)
		wizardGroup.POST("/session/:sessionID/back", hb.Wizard.Back)
		wizardGroup.DELETE("/session/:sessionID", hb.Wizard.CancelSession)
	}
}

// RegisterRescheduleRoutes sets up the endpoints for rescheduling
// existing bookings.
func RegisterRescheduleRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	reschedGroup := r.Group("/api/reschedule")
	{
		reschedGroup.POST("", hb.Reschedule.Load)
		reschedGroup.PUT("/:sessionID/date", hb.Reschedule.SelectDate)
		reschedGroup.PUT("/:sessionID/slot", hb.Reschedule.SelectSlot)
		reschedGroup.POST("/:sessionID/confirm", hb.Reschedule.Confirm)
		reschedGroup.DELETE("/:sessionID", hb.Reschedule.Cancel)
	}
}

// RegisterAgentRoutes registers the sessionless slot listing and the
// admin settings surface.
func RegisterAgentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	agentGroup := r.Group("/api/agents")
	{
		agentGroup.GET("/:agentID/slots", hb.Slots.GetSlots)
		agentGroup.GET("/:agentID/settings", hb.Slots.GetSettings)
		agentGroup.PUT("/:agentID/settings", hb.Slots.UpdateSettings)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetHealthStatus())
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterWizardRoutes(r, hb)
	RegisterRescheduleRoutes(r, hb)
	RegisterAgentRoutes(r, hb)
	RegisterHealthRoute(r)
}
