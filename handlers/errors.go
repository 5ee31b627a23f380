package handlers

import (
	"errors"
	"net/http"

	bookingRepo "slotwise/database/repository/booking"
	settingsRepo "slotwise/database/repository/settings"
	"slotwise/services/scheduling"
	"slotwise/services/wizard"
	"slotwise/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps the domain error taxonomy onto HTTP statuses.
// Validation problems are the caller's to fix; session loss is a 404;
// upstream failures surface as 502 with the step left unchanged.
func respondError(c *gin.Context, err error) {
	var (
		validationErr *wizard.ValidationError
		tzErr         *scheduling.TimezoneResolutionError
		settingsErr   *wizard.SettingsLoadError
		submitErr     *wizard.SubmissionError
	)

	switch {
	case errors.As(err, &validationErr):
		utils.JSONError(c, http.StatusBadRequest, "validation failed", validationErr.Error())
	case errors.As(err, &tzErr):
		utils.JSONError(c, http.StatusBadRequest, "invalid timezone", tzErr.Error())
	case errors.Is(err, wizard.ErrSessionNotFound):
		utils.JSONError(c, http.StatusNotFound, "session not found or expired", "")
	case errors.Is(err, wizard.ErrInvalidTransition):
		utils.JSONError(c, http.StatusConflict, "action not valid for current step", "")
	case errors.Is(err, bookingRepo.ErrBookingNotFound):
		utils.JSONError(c, http.StatusNotFound, "booking not found", "")
	case errors.Is(err, settingsRepo.ErrSettingsNotFound):
		utils.JSONError(c, http.StatusNotFound, "agent has no appointment settings", "")
	case errors.Is(err, bookingRepo.ErrSlotTaken):
		utils.JSONError(c, http.StatusConflict, "slot was just booked by someone else", "")
	case errors.As(err, &settingsErr):
		utils.JSONError(c, http.StatusBadGateway, "could not load appointment settings", settingsErr.Error())
	case errors.As(err, &submitErr):
		utils.JSONError(c, http.StatusBadGateway, "submission failed", submitErr.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
	}
}
