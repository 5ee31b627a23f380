// File: services/wizard/wizard.go
package wizard

import (
	"context"
	"math"

	"slotwise/models"
	"slotwise/services/scheduling"
	"slotwise/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StartSession fetches the agent's settings once, caches them in a new
// session, and parks the wizard on the date step.
func (s *DefaultWizardService) StartSession(ctx context.Context, agentID, userID, customerZone string) (*models.WizardSession, error) {
	settings, err := s.SettingsRepo.GetByAgentID(ctx, agentID)
	if err != nil {
		return nil, &SettingsLoadError{AgentID: agentID, Err: err}
	}

	session := &models.WizardSession{
		SessionID:    uuid.New().String(),
		AgentID:      agentID,
		UserID:       userID,
		CustomerZone: customerZone,
		Step:         models.StepDate,
		Settings:     settings,
		CreatedAt:    s.Clock.Now(),
	}
	if err := s.Store.SaveBooking(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SelectDate validates the date, stamps it on the session as the
// correlation key, then fetches slots. If a different date was selected
// while the fetch was in flight, the late result is dropped instead of
// overwriting the newer selection.
func (s *DefaultWizardService) SelectDate(ctx context.Context, sessionID, date string) (*models.WizardSession, error) {
	session, err := s.Store.GetBooking(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step == models.StepConfirmation {
		// Confirmation is terminal; a booked session cannot re-enter
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

	if !models.EqualWireDates(session.Draft.SelectedDate, date) {
		// A new date invalidates the pinned slot; everything entered on
		// later steps is kept.
		session.Draft.SelectedSlot = nil
	}
	session.Draft.SelectedDate = date
	session.Step = models.StepTime
	session.Slots = nil
	if err := s.Store.SaveBooking(ctx, session); err != nil {
		return nil, err
	}

	result, err := s.Fetcher.FetchSlots(ctx, session.Settings, date, session.CustomerZone)
	if err != nil {
		return nil, &ValidationError{Field: "date", Reason: err.Error()}
	}

	// Correlation guard: re-read the session and only attach the slots if
	// this date is still the selected one.
	current, err := s.Store.GetBooking(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !models.EqualWireDates(current.Draft.SelectedDate, date) {
		utils.GetLogger().Debug("dropping stale slot fetch",
			zap.String("sessionId", sessionID),
			zap.String("fetchedDate", date),
			zap.String("currentDate", current.Draft.SelectedDate))
		return current, nil
	}
	current.Slots = result.Slots
	current.BusinessLocalOnly = result.BusinessLocalOnly
	if err := s.Store.SaveBooking(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

// SelectSlot pins one of the previously fetched slots to the draft.
func (s *DefaultWizardService) SelectSlot(ctx context.Context, sessionID string, slot models.Slot) (*models.WizardSession, error) {
	session, err := s.Store.GetBooking(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step == models.StepConfirmation || session.Draft.SelectedDate == "" {
		return nil, ErrInvalidTransition
	}

	pinned, ok := findSlot(session.Slots, slot)
	if !ok {
		return nil, &ValidationError{Field: "slot", Reason: "slot is not in the offered list"}
	}
	session.Draft.SelectedSlot = &pinned
	session.Step = models.StepDetails
	if err := s.Store.SaveBooking(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SubmitDetails validates the form synchronously — no network call is
// made on a validation failure. Free agents submit immediately and land
// on confirmation; paid agents get a payment intent and move to payment.
func (s *DefaultWizardService) SubmitDetails(ctx context.Context, sessionID string, input DetailsInput) (*models.WizardSession, error) {
	session, err := s.Store.GetBooking(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step == models.StepConfirmation || session.Draft.SelectedSlot == nil {
		return nil, ErrInvalidTransition
	}

	if err := ValidateName(input.Name); err != nil {
		return nil, err
	}
	if err := ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	if err := ValidatePhone(input.Phone, s.PhoneRegion); err != nil {
		return nil, err
	}
	if err := s.validateLocation(session, input.Location); err != nil {
		return nil, err
	}

	session.Draft.Name = input.Name
	session.Draft.Email = input.Email
	session.Draft.Phone = input.Phone
	session.Draft.Notes = input.Notes
	session.Draft.Location = input.Location

	if session.Settings.Price.IsFree {
		if err := s.submit(ctx, session); err != nil {
			s.Store.SaveBooking(ctx, session)
			return session, err
		}
		session.Step = models.StepConfirmation
		if err := s.Store.SaveBooking(ctx, session); err != nil {
			return nil, err
		}
		return session, nil
	}

	amount := int64(math.Round(session.Settings.Price.Amount * 100))
	ref, err := s.Payments.CreateIntent(ctx, amount, session.Settings.Price.Currency, map[string]string{
		"agentId":   session.AgentID,
		"sessionId": session.SessionID,
		"date":      session.Draft.SelectedDate,
		"startTime": session.Draft.SelectedSlot.StartTime,
	})
	if err != nil {
		s.Store.SaveBooking(ctx, session)
		return session, &SubmissionError{Op: "payment setup", Err: err}
	}
	session.PaymentIntentID = ref.ID
	session.PaymentClientSecret = ref.ClientSecret
	session.Step = models.StepPayment
	if err := s.Store.SaveBooking(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// CompletePayment verifies the provider-side intent and, only on a
// succeeded intent, submits the booking and advances to confirmation.
// Any provider failure keeps the wizard on payment; retry is manual.
func (s *DefaultWizardService) CompletePayment(ctx context.Context, sessionID string) (*models.WizardSession, error) {
	session, err := s.Store.GetBooking(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step != models.StepPayment || session.PaymentIntentID == "" {
		return nil, ErrInvalidTransition
	}

	ok, err := s.Payments.IntentSucceeded(ctx, session.PaymentIntentID)
	if err != nil {
		return session, &SubmissionError{Op: "payment", Err: err}
	}
	if !ok {
		return session, &SubmissionError{Op: "payment", Err: errPaymentNotCompleted}
	}

	if err := s.submit(ctx, session); err != nil {
		s.Store.SaveBooking(ctx, session)
		return session, err
	}
	session.Step = models.StepConfirmation
	if err := s.Store.SaveBooking(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Back moves one step toward date. Data entered on later steps stays in
// the draft, so moving forward again restores it.
func (s *DefaultWizardService) Back(ctx context.Context, sessionID string) (*models.WizardSession, error) {
	session, err := s.Store.GetBooking(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch session.Step {
	case models.StepTime:
		session.Step = models.StepDate
	case models.StepDetails:
		session.Step = models.StepTime
	case models.StepPayment:
		session.Step = models.StepDetails
	case models.StepDate:
		// already at the first step
	default:
		return nil, ErrInvalidTransition
	}
	if err := s.Store.SaveBooking(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// CancelSession discards the draft. A booking submitted earlier in the
// session is untouched.
func (s *DefaultWizardService) CancelSession(ctx context.Context, sessionID string) error {
	return s.Store.DeleteBooking(ctx, sessionID)
}

func (s *DefaultWizardService) validateLocation(session *models.WizardSession, location models.LocationKind) error {
	if !location.Valid() {
		return &ValidationError{Field: "location", Reason: "unknown location kind"}
	}
	if len(session.Settings.Locations) == 0 {
		return nil
	}
	for _, l := range session.Settings.Locations {
		if l == location {
			return nil
		}
	}
	return &ValidationError{Field: "location", Reason: "location not offered by this agent"}
}

func findSlot(slots []models.Slot, want models.Slot) (models.Slot, bool) {
	for _, s := range slots {
		if s.Same(want) {
			return s, true
		}
	}
	return models.Slot{}, false
}
