package models

import "time"

// BookingDraft accumulates wizard input. It lives only inside a wizard
// session and is discarded on completion or cancellation.
type BookingDraft struct {
	SelectedDate string       `json:"selectedDate,omitempty"` // DD-MON-YYYY
	SelectedSlot *Slot        `json:"selectedSlot,omitempty"` // customer-local
	Location     LocationKind `json:"location,omitempty"`
	Name         string       `json:"name,omitempty"`
	Email        string       `json:"email,omitempty"`
	Phone        string       `json:"phone,omitempty"`
	Notes        string       `json:"notes,omitempty"`
}

// BookingRequest is the immutable submission payload. StartTime/EndTime
// are business-local: the backend persists and cross-checks bookings in
// the agent's timezone.
type BookingRequest struct {
	AgentID      string       `bson:"agentId" json:"agentId"`
	UserID       string       `bson:"userId" json:"userId"`
	Email        string       `bson:"email" json:"email"`
	Date         string       `bson:"date" json:"date"` // DD-MON-YYYY
	StartTime    string       `bson:"startTime" json:"startTime"`
	EndTime      string       `bson:"endTime" json:"endTime"`
	Location     LocationKind `bson:"location" json:"location"`
	Name         string       `bson:"name" json:"name"`
	Phone        string       `bson:"phone,omitempty" json:"phone,omitempty"` // E.164
	Notes        string       `bson:"notes,omitempty" json:"notes,omitempty"`
	UserTimezone string       `bson:"userTimezone" json:"userTimezone"`
}

// Booking is the persisted entity, owned by the backend after creation.
type Booking struct {
	ID           string       `bson:"id" json:"id"`
	AgentID      string       `bson:"agentId" json:"agentId"`
	UserID       string       `bson:"userId" json:"userId"`
	Email        string       `bson:"email" json:"email"`
	Date         string       `bson:"date" json:"date"`
	StartTime    string       `bson:"startTime" json:"startTime"` // business-local
	EndTime      string       `bson:"endTime" json:"endTime"`
	Location     LocationKind `bson:"location" json:"location"`
	Name         string       `bson:"name" json:"name"`
	Phone        string       `bson:"phone,omitempty" json:"phone,omitempty"`
	Notes        string       `bson:"notes,omitempty" json:"notes,omitempty"`
	UserTimezone string       `bson:"userTimezone" json:"userTimezone"`
	CreatedAt    time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time    `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// RescheduleRequest mutates an existing booking's slot.
type RescheduleRequest struct {
	BookingID    string       `json:"bookingId"`
	UserID       string       `json:"userId"`
	Date         string       `json:"date"`
	StartTime    string       `json:"startTime"` // business-local
	EndTime      string       `json:"endTime"`
	Location     LocationKind `json:"location"`
	UserTimezone string       `json:"userTimezone"`
	Notes        string       `json:"notes,omitempty"`
}
