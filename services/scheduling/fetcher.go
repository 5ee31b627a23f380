package scheduling

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"slotwise/models"
	"slotwise/utils"

	"go.uber.org/zap"
)

// SlotSource is the authoritative slot-listing backend. It owns
// already-booked exclusions; returned slots are customer-localized.
type SlotSource interface {
	AvailableSlots(ctx context.Context, agentID, date, customerZone string) ([]models.Slot, error)
}

// SlotFetchError wraps a backend failure. It is never surfaced to the
// customer: the fetcher logs it and degrades to local generation.
type SlotFetchError struct {
	AgentID string
	Date    string
	Err     error
}

func (e *SlotFetchError) Error() string {
	return fmt.Sprintf("slot fetch for agent %s on %s failed: %v", e.AgentID, e.Date, e.Err)
}

func (e *SlotFetchError) Unwrap() error {
	return e.Err
}

// FetchResult carries the displayable slots. BusinessLocalOnly is set
// when the customer timezone could not be resolved and times are raw
// business-local, to be shown with a disclaimer.
type FetchResult struct {
	Slots             []models.Slot
	BusinessLocalOnly bool
}

// Fetcher orchestrates slot retrieval: modified-hours overrides always
// generate locally (they encode admin intent for that exact date); all
// other dates ask the authoritative source first and fall back to local
// generation when it errors or comes back empty. Availability over
// consistency — the fallback may show an already-booked slot while the
// backend is down, which the booking submission still rejects.
type Fetcher struct {
	Source SlotSource
	Clock  utils.Clock
	Logger *zap.Logger
}

func NewFetcher(source SlotSource, clock utils.Clock) *Fetcher {
	return &Fetcher{Source: source, Clock: clock, Logger: utils.GetLogger()}
}

// FetchSlots returns the bookable slots for one date in the customer's
// local time, past slots filtered out and the rest sorted ascending.
func (f *Fetcher) FetchSlots(ctx context.Context, settings *models.AppointmentSettings, date, customerZone string) (FetchResult, error) {
	resolver := NewResolver(settings, f.Clock)
	day, err := ParseWireDate(date, resolver.BusinessLocation())
	if err != nil {
		return FetchResult{}, err
	}
	if !resolver.IsBookable(day) {
		return FetchResult{}, nil
	}

	var result FetchResult
	if o, ok := settings.OverrideFor(date); ok && !o.AllDay {
		result = f.generateLocally(resolver, settings, day, customerZone)
	} else {
		slots, srcErr := f.Source.AvailableSlots(ctx, settings.AgentID, date, customerZone)
		switch {
		case srcErr != nil:
			fetchErr := &SlotFetchError{AgentID: settings.AgentID, Date: date, Err: srcErr}
			f.Logger.Warn("authoritative slot fetch failed, generating locally",
				zap.String("agentId", settings.AgentID),
				zap.String("date", date),
				zap.Error(fetchErr))
			result = f.generateLocally(resolver, settings, day, customerZone)
		case len(slots) == 0:
			result = f.generateLocally(resolver, settings, day, customerZone)
		default:
			for i := range slots {
				slots[i].Available = true
			}
			result = FetchResult{Slots: slots}
		}
	}

	f.stampInstants(result.Slots, day, settings, customerZone, result.BusinessLocalOnly)
	result.Slots = f.dropPast(result.Slots)
	sort.Slice(result.Slots, func(i, j int) bool {
		return result.Slots[i].StartAt.Before(result.Slots[j].StartAt)
	})
	return result, nil
}

// generateLocally expands the resolved windows through the generator.
// When the customer timezone cannot be resolved the slots are regenerated
// in business-local time and flagged.
func (f *Fetcher) generateLocally(resolver *Resolver, settings *models.AppointmentSettings, day time.Time, customerZone string) FetchResult {
	slots, err := f.expand(resolver, settings, day, customerZone)
	var tzErr *TimezoneResolutionError
	if errors.As(err, &tzErr) {
		f.Logger.Warn("customer timezone unresolvable, showing business-local times",
			zap.String("agentId", settings.AgentID),
			zap.String("timezone", tzErr.Zone))
		slots, err = f.expand(resolver, settings, day, settings.Timezone)
		if err == nil {
			return FetchResult{Slots: slots, BusinessLocalOnly: true}
		}
	}
	if err != nil {
		f.Logger.Error("local slot generation failed",
			zap.String("agentId", settings.AgentID), zap.Error(err))
		return FetchResult{}
	}
	return FetchResult{Slots: slots}
}

func (f *Fetcher) expand(resolver *Resolver, settings *models.AppointmentSettings, day time.Time, customerZone string) ([]models.Slot, error) {
	var out []models.Slot
	for _, w := range resolver.BookableWindows(day) {
		slots, err := GenerateSlots(w, settings.MeetingDuration, settings.BufferTime, day, settings.Timezone, customerZone)
		if err != nil {
			return nil, err
		}
		out = append(out, slots...)
	}
	return out, nil
}

// stampInstants backfills StartAt for slots arriving without one, e.g.
// from a remote source that only ships wall-clock strings.
func (f *Fetcher) stampInstants(slots []models.Slot, day time.Time, settings *models.AppointmentSettings, customerZone string, businessLocal bool) {
	zone := customerZone
	if businessLocal {
		zone = settings.Timezone
	}
	loc, err := LoadZone(zone)
	if err != nil {
		loc = time.UTC
	}
	for i := range slots {
		if !slots[i].StartAt.IsZero() {
			continue
		}
		minutes, err := ParseClock(slots[i].StartTime)
		if err != nil {
			continue
		}
		slots[i].StartAt = time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, loc)
	}
}

// dropPast excludes slots whose start is not strictly after the current
// instant. Future dates pass untouched; on "today" this trims the
// morning as the day progresses.
func (f *Fetcher) dropPast(slots []models.Slot) []models.Slot {
	now := f.Clock.Now()
	kept := slots[:0]
	for _, s := range slots {
		if s.StartAt.After(now) {
			kept = append(kept, s)
		}
	}
	return kept
}
