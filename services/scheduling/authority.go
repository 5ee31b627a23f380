package scheduling

import (
	"context"
	"fmt"

	"slotwise/models"
	"slotwise/utils"

	"go.uber.org/zap"
)

// SettingsLookup loads an agent's appointment settings.
type SettingsLookup interface {
	GetByAgentID(ctx context.Context, agentID string) (*models.AppointmentSettings, error)
}

// BookedLookup lists business-local intervals already taken by confirmed
// bookings on a date.
type BookedLookup interface {
	BookedWindows(ctx context.Context, agentID, date string) ([]models.TimeWindow, error)
}

// AuthoritativeSlotService is the server-side slot listing: generated
// from settings like the local path, but with already-booked intervals
// excluded. Double-booking prevention lives here, not in the fetcher.
type AuthoritativeSlotService struct {
	Settings SettingsLookup
	Booked   BookedLookup
	Clock    utils.Clock
	Logger   *zap.Logger
}

func NewAuthoritativeSlotService(settings SettingsLookup, booked BookedLookup, clock utils.Clock) *AuthoritativeSlotService {
	return &AuthoritativeSlotService{
		Settings: settings,
		Booked:   booked,
		Clock:    clock,
		Logger:   utils.GetLogger(),
	}
}

// AvailableSlots implements SlotSource.
func (a *AuthoritativeSlotService) AvailableSlots(ctx context.Context, agentID, date, customerZone string) ([]models.Slot, error) {
	settings, err := a.Settings.GetByAgentID(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("load settings for agent %s: %w", agentID, err)
	}

	resolver := NewResolver(settings, a.Clock)
	businessLoc := resolver.BusinessLocation()
	day, err := ParseWireDate(date, businessLoc)
	if err != nil {
		return nil, err
	}
	if !resolver.IsBookable(day) {
		return nil, nil
	}

	booked, err := a.Booked.BookedWindows(ctx, agentID, date)
	if err != nil {
		return nil, fmt.Errorf("load booked windows: %w", err)
	}

	var out []models.Slot
	for _, window := range resolver.BookableWindows(day) {
		for _, w := range Stride(window, settings.MeetingDuration, settings.BufferTime) {
			if overlapsAny(w, booked) {
				continue
			}
			slot, err := Localize(w, day, businessLoc, customerZone)
			if err != nil {
				return nil, err
			}
			out = append(out, slot)
		}
	}

	a.Logger.Debug("authoritative slots computed",
		zap.String("agentId", agentID),
		zap.String("date", date),
		zap.Int("count", len(out)),
		zap.Int("booked", len(booked)))
	return out, nil
}

// overlapsAny reports whether the half-open window w intersects any
// booked interval: [a,b) overlaps [c,d) iff a < d && c < b.
func overlapsAny(w models.TimeWindow, booked []models.TimeWindow) bool {
	start, err := ParseClock(w.StartTime)
	if err != nil {
		return false
	}
	end, err := ParseClock(w.EndTime)
	if err != nil {
		return false
	}
	for _, b := range booked {
		bStart, err := ParseClock(b.StartTime)
		if err != nil {
			continue
		}
		bEnd, err := ParseClock(b.EndTime)
		if err != nil {
			continue
		}
		if start < bEnd && bStart < end {
			return true
		}
	}
	return false
}

var _ SlotSource = (*AuthoritativeSlotService)(nil)
