package models

// TimeWindow is a half-open business-local interval [StartTime, EndTime),
// both as zero-padded 24-hour "HH:MM" strings.
type TimeWindow struct {
	StartTime string `bson:"startTime" json:"startTime"`
	EndTime   string `bson:"endTime" json:"endTime"`
}

// AvailabilityRule is the recurring weekly rule for one weekday.
// TimeSlots is empty when Available is false. Multiple disjoint windows
// per day are permitted (split shifts); windows must not overlap.
type AvailabilityRule struct {
	Day       string       `bson:"day" json:"day"` // "Sunday" .. "Saturday"
	Available bool         `bson:"available" json:"available"`
	TimeSlots []TimeWindow `bson:"timeSlots" json:"timeSlots"`
}

// UnavailableDateOverride is an admin exception for one calendar date
// (wire format DD-MON-YYYY, business-local). AllDay blocks the date
// entirely; otherwise StartTime/EndTime replace the weekday rule's
// windows for that single date.
type UnavailableDateOverride struct {
	Date      string `bson:"date" json:"date"`
	AllDay    bool   `bson:"allDay" json:"allDay"`
	StartTime string `bson:"startTime,omitempty" json:"startTime,omitempty"`
	EndTime   string `bson:"endTime,omitempty" json:"endTime,omitempty"`
}

// LunchBreak is carried in settings for the admin screen. The generator
// subtracts it from windows only when Enforced is set.
type LunchBreak struct {
	Start    string `bson:"start" json:"start"`
	End      string `bson:"end" json:"end"`
	Enforced bool   `bson:"enforced" json:"enforced"`
}

type Price struct {
	IsFree   bool    `bson:"isFree" json:"isFree"`
	Amount   float64 `bson:"amount" json:"amount"`
	Currency string  `bson:"currency" json:"currency"`
}

// LocationKind is the closed set of meeting locations.
type LocationKind string

const (
	LocationGoogleMeet LocationKind = "google_meet"
	LocationZoom       LocationKind = "zoom"
	LocationTeams      LocationKind = "teams"
	LocationInPerson   LocationKind = "in_person"
)

// Valid reports whether l is one of the known location kinds.
func (l LocationKind) Valid() bool {
	switch l {
	case LocationGoogleMeet, LocationZoom, LocationTeams, LocationInPerson:
		return true
	}
	return false
}

// AppointmentSettings is the agent's scheduling configuration. It is
// written only by the admin surface; the booking flow reads it once per
// session and caches it in the session for the session's lifetime.
type AppointmentSettings struct {
	AgentID          string                    `bson:"agentId" json:"agentId"`
	Availability     []AvailabilityRule        `bson:"availability" json:"availability"`
	UnavailableDates []UnavailableDateOverride `bson:"unavailableDates" json:"unavailableDates"`
	LunchBreak       LunchBreak                `bson:"lunchBreak" json:"lunchBreak"`
	MeetingDuration  int                       `bson:"meetingDuration" json:"meetingDuration"` // minutes
	BufferTime       int                       `bson:"bufferTime" json:"bufferTime"`           // minutes
	Timezone         string                    `bson:"timezone" json:"timezone"`               // IANA id
	Price            Price                     `bson:"price" json:"price"`
	Locations        []LocationKind            `bson:"locations" json:"locations"`
}

// OverrideFor returns the date-specific override for a wire-format date,
// if one exists.
func (s *AppointmentSettings) OverrideFor(wireDate string) (UnavailableDateOverride, bool) {
	for _, o := range s.UnavailableDates {
		if EqualWireDates(o.Date, wireDate) {
			return o, true
		}
	}
	return UnavailableDateOverride{}, false
}

// RuleFor returns the weekly rule for a weekday name, if one exists.
func (s *AppointmentSettings) RuleFor(weekday string) (AvailabilityRule, bool) {
	for _, r := range s.Availability {
		if r.Day == weekday {
			return r, true
		}
	}
	return AvailabilityRule{}, false
}
