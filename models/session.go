package models

import "time"

// WizardStep identifies a booking wizard state.
type WizardStep string

const (
	StepDate         WizardStep = "date"
	StepTime         WizardStep = "time"
	StepDetails      WizardStep = "details"
	StepPayment      WizardStep = "payment"
	StepConfirmation WizardStep = "confirmation"
)

// RescheduleStep identifies a reschedule wizard state.
type RescheduleStep string

const (
	RescheduleStepLoading RescheduleStep = "loading"
	RescheduleStepDate    RescheduleStep = "date"
	RescheduleStepTime    RescheduleStep = "time"
	RescheduleStepConfirm RescheduleStep = "confirm"
	RescheduleStepSuccess RescheduleStep = "success"
)

// WizardSession holds the full state of one booking wizard between HTTP
// calls. Settings are fetched once when the session starts and cached
// here for the session's lifetime. The draft survives backward
// navigation so forward re-navigation restores prior selections.
type WizardSession struct {
	SessionID    string     `json:"sessionId"`
	AgentID      string     `json:"agentId"`
	UserID       string     `json:"userId,omitempty"`
	CustomerZone string     `json:"customerZone"` // IANA id
	Step         WizardStep `json:"step"`

	Settings *AppointmentSettings `json:"settings"`
	Draft    BookingDraft         `json:"draft"`

	// Slots last fetched for Draft.SelectedDate. Draft.SelectedDate doubles
	// as the correlation key guarding against a stale fetch for a
	// previously-selected date overwriting these.
	Slots []Slot `json:"slots,omitempty"`

	// BusinessLocalOnly is set when the customer's timezone could not be
	// resolved and slot times are raw business-local.
	BusinessLocalOnly bool `json:"businessLocalOnly,omitempty"`

	PaymentIntentID     string    `json:"paymentIntentId,omitempty"`
	PaymentClientSecret string    `json:"paymentClientSecret,omitempty"`
	BookingID           string    `json:"bookingId,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
}

// RescheduleSession holds the state of one reschedule wizard.
type RescheduleSession struct {
	SessionID    string         `json:"sessionId"`
	BookingID    string         `json:"bookingId"`
	UserID       string         `json:"userId"`
	CustomerZone string         `json:"customerZone"`
	Step         RescheduleStep `json:"step"`

	Settings *AppointmentSettings `json:"settings"`
	Booking  *Booking             `json:"booking"` // the commitment being moved

	SelectedDate string `json:"selectedDate,omitempty"`
	NewSlot      *Slot  `json:"newSlot,omitempty"` // customer-local
	Slots        []Slot `json:"slots,omitempty"`

	BusinessLocalOnly bool      `json:"businessLocalOnly,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}
