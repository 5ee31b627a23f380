// File: services/wizard/submit.go
package wizard

import (
	"context"
	"fmt"
	"time"

	"slotwise/models"
	"slotwise/services/scheduling"
	"slotwise/utils"

	"go.uber.org/zap"
)

// submit freezes the draft into an immutable BookingRequest and creates
// the booking. The pinned slot is converted back from customer-local to
// business-local time (the inverse of the display conversion) because
// the backend persists and cross-checks bookings in the agent's zone.
// On failure the session's step is left unchanged and nothing partial
// is recorded.
func (s *DefaultWizardService) submit(ctx context.Context, session *models.WizardSession) error {
	start, end, wireDate, err := businessLocalTimes(session.Draft.SelectedSlot, session.Draft.SelectedDate,
		session.CustomerZone, session.Settings, session.BusinessLocalOnly)
	if err != nil {
		return &SubmissionError{Op: "booking", Err: err}
	}

	phone, err := NormalizePhone(session.Draft.Phone, s.PhoneRegion)
	if err != nil {
		return err
	}

	req := models.BookingRequest{
		AgentID:      session.AgentID,
		UserID:       session.UserID,
		Email:        session.Draft.Email,
		Date:         wireDate,
		StartTime:    start,
		EndTime:      end,
		Location:     session.Draft.Location,
		Name:         session.Draft.Name,
		Phone:        phone,
		Notes:        session.Draft.Notes,
		UserTimezone: session.CustomerZone,
	}

	booking, err := s.Bookings.Create(ctx, req)
	if err != nil {
		return &SubmissionError{Op: "booking", Err: err}
	}
	session.BookingID = booking.ID

	if s.Reminders != nil {
		if err := s.Reminders.ScheduleReminder(ctx, *booking, session.Draft.SelectedSlot.StartAt); err != nil {
			utils.GetLogger().Warn("failed to schedule booking reminder",
				zap.String("bookingId", booking.ID), zap.Error(err))
		}
	}
	return nil
}

// businessLocalTimes maps a customer-local slot back into the agent's
// zone. When the session is already business-local (unresolvable
// customer zone) the times pass through untouched.
func businessLocalTimes(slot *models.Slot, selectedDate, customerZone string, settings *models.AppointmentSettings, businessLocalOnly bool) (start, end, wireDate string, err error) {
	if slot == nil {
		return "", "", "", fmt.Errorf("no slot selected")
	}
	if businessLocalOnly {
		return slot.StartTime, slot.EndTime, selectedDate, nil
	}

	businessLoc, err := scheduling.LoadZone(settings.Timezone)
	if err != nil {
		return "", "", "", err
	}

	if !slot.StartAt.IsZero() {
		// Both endpoints derive from the start instant. Converting the
		// end as a wall clock on the start's date would put it on the
		// wrong day for a slot that crosses customer-local midnight.
		startBiz := slot.StartAt.In(businessLoc)
		endBiz := slot.StartAt.Add(slotLength(slot, settings)).In(businessLoc)
		return startBiz.Format("15:04"), endBiz.Format("15:04"), scheduling.FormatWireDate(startBiz), nil
	}

	// No recorded instant: convert the wall clocks on the selected
	// business date. Correct whenever the slot stays within one day.
	conversionDate, err := scheduling.ParseWireDate(selectedDate, businessLoc)
	if err != nil {
		return "", "", "", err
	}
	start, err = scheduling.ToOtherZone(slot.StartTime, conversionDate, customerZone, settings.Timezone)
	if err != nil {
		return "", "", "", err
	}
	end, err = scheduling.ToOtherZone(slot.EndTime, conversionDate, customerZone, settings.Timezone)
	if err != nil {
		return "", "", "", err
	}
	return start, end, scheduling.FormatWireDate(businessDayOf(slot, conversionDate, customerZone, businessLoc)), nil
}

// slotLength reads the slot's span off its wall clocks, treating an end
// at or before the start as crossing midnight.
func slotLength(slot *models.Slot, settings *models.AppointmentSettings) time.Duration {
	startMin, err1 := scheduling.ParseClock(slot.StartTime)
	endMin, err2 := scheduling.ParseClock(slot.EndTime)
	if err1 != nil || err2 != nil {
		return time.Duration(settings.MeetingDuration) * time.Minute
	}
	span := endMin - startMin
	if span <= 0 {
		span += 24 * 60
	}
	return time.Duration(span) * time.Minute
}

func businessDayOf(slot *models.Slot, conversionDate time.Time, customerZone string, businessLoc *time.Location) time.Time {
	minutes, err := scheduling.ParseClock(slot.StartTime)
	if err != nil {
		return conversionDate
	}
	customerLoc, err := scheduling.LoadZone(customerZone)
	if err != nil {
		return conversionDate
	}
	instant := time.Date(conversionDate.Year(), conversionDate.Month(), conversionDate.Day(),
		minutes/60, minutes%60, 0, 0, customerLoc)
	return instant.In(businessLoc)
}
