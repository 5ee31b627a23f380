package scheduling

import (
	"fmt"
	"strings"
	"time"
)

// Wire dates are DD-MON-YYYY with an uppercase three-letter month
// (e.g. 05-JAN-2025); wall-clock times are zero-padded 24-hour HH:MM.
const wireDateLayout = "02-Jan-2006"

// FormatWireDate renders a date in the wire format.
func FormatWireDate(t time.Time) string {
	return strings.ToUpper(t.Format(wireDateLayout))
}

// ParseWireDate parses a DD-MON-YYYY date in the given location. Month
// casing is normalized before parsing, so "05-JAN-2025" and
// "05-Jan-2025" are both accepted.
func ParseWireDate(s string, loc *time.Location) (time.Time, error) {
	raw := strings.TrimSpace(s)
	if len(raw) != len(wireDateLayout) {
		return time.Time{}, fmt.Errorf("invalid date %q: want DD-MON-YYYY", s)
	}
	month := raw[3:6]
	norm := raw[:3] + strings.ToUpper(month[:1]) + strings.ToLower(month[1:]) + raw[6:]
	t, err := time.ParseInLocation(wireDateLayout, norm, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// WeekdayName returns the full weekday name ("Sunday".."Saturday") used
// as the availability rule key.
func WeekdayName(t time.Time) string {
	return t.Weekday().String()
}

// ParseClock converts "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as zero-padded "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
