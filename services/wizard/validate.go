package wizard

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

// ValidateName requires a non-empty customer name.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Reason: "name is required"}
	}
	return nil
}

// ValidateEmail checks against a standard address pattern.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return &ValidationError{Field: "email", Reason: "not a valid email address"}
	}
	return nil
}

// ValidatePhone gates an optional phone number with country-aware
// validation. Empty input passes; non-empty input must parse as a valid
// number, using defaultRegion when no international prefix is given.
func ValidatePhone(raw, defaultRegion string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	num, err := phonenumbers.Parse(raw, defaultRegion)
	if err != nil {
		return &ValidationError{Field: "phone", Reason: "cannot parse phone number"}
	}
	if !phonenumbers.IsValidNumber(num) {
		return &ValidationError{Field: "phone", Reason: "not a valid phone number"}
	}
	return nil
}

// NormalizePhone renders a validated phone number in full international
// (E.164) form for transmission. Empty input stays empty.
func NormalizePhone(raw, defaultRegion string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	num, err := phonenumbers.Parse(raw, defaultRegion)
	if err != nil {
		return "", &ValidationError{Field: "phone", Reason: "cannot parse phone number"}
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// DetectCountry guesses the region of a free-text phone number. This is
// a best-effort display heuristic, deliberately decoupled from
// ValidatePhone, which remains the authoritative gate.
func DetectCountry(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "+") {
		return "", false
	}
	num, err := phonenumbers.Parse(raw, "")
	if err != nil {
		return "", false
	}
	region := phonenumbers.GetRegionCodeForNumber(num)
	if region == "" || region == "ZZ" {
		return "", false
	}
	return region, true
}
