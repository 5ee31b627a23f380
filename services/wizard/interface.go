package wizard

import (
	"context"
	"time"

	bookingRepo "slotwise/database/repository/booking"
	settingsRepo "slotwise/database/repository/settings"
	"slotwise/models"
	"slotwise/services/scheduling"
	"slotwise/utils"
)

// DetailsInput is the customer form on the details step.
type DetailsInput struct {
	Name     string              `json:"name"`
	Email    string              `json:"email"`
	Phone    string              `json:"phone,omitempty"`
	Notes    string              `json:"notes,omitempty"`
	Location models.LocationKind `json:"location"`
}

// WizardService drives the booking step sequence
// date → time → details → (payment) → confirmation.
type WizardService interface {
	StartSession(ctx context.Context, agentID, userID, customerZone string) (*models.WizardSession, error)
	SelectDate(ctx context.Context, sessionID, date string) (*models.WizardSession, error)
	SelectSlot(ctx context.Context, sessionID string, slot models.Slot) (*models.WizardSession, error)
	SubmitDetails(ctx context.Context, sessionID string, input DetailsInput) (*models.WizardSession, error)
	CompletePayment(ctx context.Context, sessionID string) (*models.WizardSession, error)
	Back(ctx context.Context, sessionID string) (*models.WizardSession, error)
	CancelSession(ctx context.Context, sessionID string) error
}

// RescheduleService drives the reduced flow on an existing booking:
// loading → date → time → confirm → success.
type RescheduleService interface {
	Load(ctx context.Context, bookingID, userID, customerZone string) (*models.RescheduleSession, error)
	SelectDate(ctx context.Context, sessionID, date string) (*models.RescheduleSession, error)
	SelectSlot(ctx context.Context, sessionID string, slot models.Slot) (*models.RescheduleSession, error)
	Confirm(ctx context.Context, sessionID string) (*models.RescheduleSession, error)
	Cancel(ctx context.Context, sessionID string) error
}

// ReminderScheduler queues an appointment reminder once a booking is
// confirmed. Failures are logged, never surfaced to the customer.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, booking models.Booking, startAt time.Time) error
}

// DefaultWizardService implements WizardService.
type DefaultWizardService struct {
	SettingsRepo settingsRepo.SettingsRepository
	Bookings     bookingRepo.BookingRepository
	Fetcher      *scheduling.Fetcher
	Store        *SessionStore
	Payments     PaymentProvider
	Reminders    ReminderScheduler
	Clock        utils.Clock
	PhoneRegion  string
}

// DefaultRescheduleService implements RescheduleService.
type DefaultRescheduleService struct {
	SettingsRepo settingsRepo.SettingsRepository
	Bookings     bookingRepo.BookingRepository
	Fetcher      *scheduling.Fetcher
	Store        *SessionStore
	Clock        utils.Clock
}
