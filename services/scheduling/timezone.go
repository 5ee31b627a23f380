package scheduling

import (
	"fmt"
	"time"
)

// TimezoneResolutionError reports an IANA identifier that could not be
// resolved. Callers fall back to displaying raw business-local times
// with a visible caveat.
type TimezoneResolutionError struct {
	Zone string
	Err  error
}

func (e *TimezoneResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve timezone %q: %v", e.Zone, e.Err)
}

func (e *TimezoneResolutionError) Unwrap() error {
	return e.Err
}

// LoadZone resolves an IANA timezone identifier.
func LoadZone(zone string) (*time.Location, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, &TimezoneResolutionError{Zone: zone, Err: err}
	}
	return loc, nil
}

// ToOtherZone converts a wall-clock "HH:MM" on a specific calendar date
// from one zone to another. The date matters: conversions straddling a
// DST transition map the same business time to different customer times
// on different dates, so callers must pass the date being rendered and
// never cache an offset.
func ToOtherZone(clock string, date time.Time, fromZone, toZone string) (string, error) {
	minutes, err := ParseClock(clock)
	if err != nil {
		return "", err
	}
	fromLoc, err := LoadZone(fromZone)
	if err != nil {
		return "", err
	}
	toLoc, err := LoadZone(toZone)
	if err != nil {
		return "", err
	}
	instant := time.Date(date.Year(), date.Month(), date.Day(), minutes/60, minutes%60, 0, 0, fromLoc)
	return instant.In(toLoc).Format("15:04"), nil
}
