// File: services/wizard/reschedule.go
package wizard

import (
	"context"

	"slotwise/models"
	"slotwise/services/scheduling"
	"slotwise/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Load fetches the existing booking and its owning agent's settings.
// Failure here is terminal for the session: there is nothing to render
// a reschedule flow against.
func (s *DefaultRescheduleService) Load(ctx context.Context, bookingID, userID, customerZone string) (*models.RescheduleSession, error) {
	booking, err := s.Bookings.GetForReschedule(ctx, bookingID, userID)
	if err != nil {
		return nil, &SettingsLoadError{AgentID: "", Err: err}
	}
	settings, err := s.SettingsRepo.GetByAgentID(ctx, booking.AgentID)
	if err != nil {
		return nil, &SettingsLoadError{AgentID: booking.AgentID, Err: err}
	}

	session := &models.RescheduleSession{
		SessionID:    uuid.New().String(),
		BookingID:    bookingID,
		UserID:       userID,
		CustomerZone: customerZone,
		Step:         models.RescheduleStepDate,
		Settings:     settings,
		Booking:      booking,
		CreatedAt:    s.Clock.Now(),
	}
	if err := s.Store.SaveReschedule(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SelectDate mirrors the booking wizard's date selection, including the
// stale-fetch correlation guard.
func (s *DefaultRescheduleService) SelectDate(ctx context.Context, sessionID, date string) (*models.RescheduleSession, error) {
	session, err := s.Store.GetReschedule(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step == models.RescheduleStepSuccess {
		// Success is terminal; a committed reschedule cannot re-enter
		// the flow.
		return nil, ErrInvalidTransition
	}

	resolver := scheduling.NewResolver(session.Settings, s.Clock)
	day, err := scheduling.ParseWireDate(date, resolver.BusinessLocation())
	if err != nil {
		return nil, &ValidationError{Field: "date", Reason: err.Error()}
	}
	if !resolver.IsBookable(day) {
		return nil, &ValidationError{Field: "date", Reason: "date is not bookable"}
	}

	if !models.EqualWireDates(session.SelectedDate, date) {
		session.NewSlot = nil
	}
	session.SelectedDate = date
	session.Step = models.RescheduleStepTime
	session.Slots = nil
	if err := s.Store.SaveReschedule(ctx, session); err != nil {
		return nil, err
	}

	result, err := s.Fetcher.FetchSlots(ctx, session.Settings, date, session.CustomerZone)
	if err != nil {
		return nil, &ValidationError{Field: "date", Reason: err.Error()}
	}

	current, err := s.Store.GetReschedule(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !models.EqualWireDates(current.SelectedDate, date) {
		utils.GetLogger().Debug("dropping stale slot fetch",
			zap.String("sessionId", sessionID),
			zap.String("fetchedDate", date),
			zap.String("currentDate", current.SelectedDate))
		return current, nil
	}
	current.Slots = result.Slots
	current.BusinessLocalOnly = result.BusinessLocalOnly
	if err := s.Store.SaveReschedule(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

// SelectSlot stages the new slot and moves to the confirm step, where
// the old and new slots are shown side by side before anything mutates.
func (s *DefaultRescheduleService) SelectSlot(ctx context.Context, sessionID string, slot models.Slot) (*models.RescheduleSession, error) {
	session, err := s.Store.GetReschedule(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step == models.RescheduleStepSuccess || session.SelectedDate == "" {
		return nil, ErrInvalidTransition
	}

	pinned, ok := findSlot(session.Slots, slot)
	if !ok {
		return nil, &ValidationError{Field: "slot", Reason: "slot is not in the offered list"}
	}
	session.NewSlot = &pinned
	session.Step = models.RescheduleStepConfirm
	if err := s.Store.SaveReschedule(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Confirm commits the reschedule. On failure the user is returned to
// the time step with the newly chosen slot preserved, so a retry does
// not mean re-picking it.
func (s *DefaultRescheduleService) Confirm(ctx context.Context, sessionID string) (*models.RescheduleSession, error) {
	session, err := s.Store.GetReschedule(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step != models.RescheduleStepConfirm || session.NewSlot == nil {
		return nil, ErrInvalidTransition
	}

	start, end, wireDate, err := businessLocalTimes(session.NewSlot, session.SelectedDate,
		session.CustomerZone, session.Settings, session.BusinessLocalOnly)
	if err != nil {
		session.Step = models.RescheduleStepTime
		s.Store.SaveReschedule(ctx, session)
		return session, &SubmissionError{Op: "reschedule", Err: err}
	}

	req := models.RescheduleRequest{
		BookingID:    session.BookingID,
		UserID:       session.UserID,
		Date:         wireDate,
		StartTime:    start,
		EndTime:      end,
		Location:     session.Booking.Location,
		UserTimezone: session.CustomerZone,
		Notes:        session.Booking.Notes,
	}
	if err := s.Bookings.Reschedule(ctx, req); err != nil {
		session.Step = models.RescheduleStepTime
		s.Store.SaveReschedule(ctx, session)
		return session, &SubmissionError{Op: "reschedule", Err: err}
	}

	session.Step = models.RescheduleStepSuccess
	if err := s.Store.SaveReschedule(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Cancel discards the reschedule session; the booking keeps its
// original slot.
func (s *DefaultRescheduleService) Cancel(ctx context.Context, sessionID string) error {
	return s.Store.DeleteReschedule(ctx, sessionID)
}
