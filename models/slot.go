package models

import (
	"strings"
	"time"
)

// Slot is an ephemeral bookable interval of exactly meetingDuration
// minutes. Times are "HH:MM"; once a slot leaves the scheduling layer it
// is expressed in the customer's local time. Slots are never persisted —
// they are regenerated on every date selection.
type Slot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Available bool   `json:"available"`

	// StartAt is the concrete instant the slot begins. It survives the
	// session round-trip so past-slot filtering, ordering and the inverse
	// business-local conversion at submission never re-derive the instant
	// from wall-clock strings.
	StartAt time.Time `json:"startAt,omitempty" bson:"-"`
}

// Same reports whether two slots denote the same interval.
func (s Slot) Same(other Slot) bool {
	return s.StartTime == other.StartTime && s.EndTime == other.EndTime
}

// EqualWireDates compares two DD-MON-YYYY dates ignoring month casing.
func EqualWireDates(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
