package scheduling

import (
	"time"

	"slotwise/models"
	"slotwise/utils"

	"go.uber.org/zap"
)

// Last-resort window used when no weekly rule matches a date at all, so
// a misconfigured agent never shows an empty calendar to a customer.
var defaultWindow = models.TimeWindow{StartTime: "09:00", EndTime: "17:00"}

// Resolver decides whether a date is bookable and which business-local
// windows apply, from the weekly rules and date-specific overrides.
type Resolver struct {
	settings *models.AppointmentSettings
	clock    utils.Clock
	logger   *zap.Logger
}

// NewResolver constructs a resolver for one agent's settings.
func NewResolver(settings *models.AppointmentSettings, clock utils.Clock) *Resolver {
	return &Resolver{
		settings: settings,
		clock:    clock,
		logger:   utils.GetLogger(),
	}
}

// BusinessLocation resolves the agent's timezone, degrading to UTC when
// the configured identifier is broken.
func (r *Resolver) BusinessLocation() *time.Location {
	loc, err := LoadZone(r.settings.Timezone)
	if err != nil {
		r.logger.Warn("agent timezone unresolvable, using UTC",
			zap.String("agentId", r.settings.AgentID),
			zap.String("timezone", r.settings.Timezone))
		return time.UTC
	}
	return loc
}

// isPast reports whether date falls strictly before "today" at day
// granularity, evaluated in the business timezone.
func (r *Resolver) isPast(date time.Time) bool {
	loc := r.BusinessLocation()
	now := r.clock.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	return day.Before(today)
}

// IsBookable applies the availability policy in priority order: past
// dates, then all-day overrides, then modified-hours overrides, then the
// weekly rule, then the misconfiguration fallback.
func (r *Resolver) IsBookable(date time.Time) bool {
	return len(r.ResolveWindows(date)) > 0
}

// ResolveWindows returns the raw business-local windows for a date, or
// nil when the date is not bookable. A modified-hours override replaces
// the weekly rule's windows outright — the two are never unioned.
func (r *Resolver) ResolveWindows(date time.Time) []models.TimeWindow {
	if r.isPast(date) {
		return nil
	}

	wire := FormatWireDate(date)
	if o, ok := r.settings.OverrideFor(wire); ok {
		if o.AllDay {
			return nil
		}
		return []models.TimeWindow{{StartTime: o.StartTime, EndTime: o.EndTime}}
	}

	if rule, ok := r.settings.RuleFor(WeekdayName(date)); ok {
		if !rule.Available || len(rule.TimeSlots) == 0 {
			return nil
		}
		windows := make([]models.TimeWindow, len(rule.TimeSlots))
		copy(windows, rule.TimeSlots)
		return windows
	}

	r.logger.Warn("no weekly rule matched date, using fallback window",
		zap.String("agentId", r.settings.AgentID),
		zap.String("date", wire),
		zap.String("weekday", WeekdayName(date)))
	return []models.TimeWindow{defaultWindow}
}

// BookableWindows is ResolveWindows plus lunch-break subtraction when
// the agent has marked the lunch break as enforced.
func (r *Resolver) BookableWindows(date time.Time) []models.TimeWindow {
	windows := r.ResolveWindows(date)
	if r.settings.LunchBreak.Enforced {
		windows = SubtractLunch(windows, r.settings.LunchBreak)
	}
	return windows
}
