package scheduling

import (
	"time"

	"slotwise/models"
)

// Stride expands a business-local window into the fixed-stride slot
// windows: each slot spans meetingDuration minutes and consecutive
// starts are meetingDuration+bufferTime apart. Slot boundaries never
// depend on prior bookings. A window shorter than meetingDuration, or a
// malformed one, yields no slots.
func Stride(window models.TimeWindow, meetingDuration, bufferTime int) []models.TimeWindow {
	if meetingDuration <= 0 || bufferTime < 0 {
		return nil
	}
	start, err := ParseClock(window.StartTime)
	if err != nil {
		return nil
	}
	end, err := ParseClock(window.EndTime)
	if err != nil {
		return nil
	}

	var out []models.TimeWindow
	for cursor := start; cursor+meetingDuration <= end; cursor += meetingDuration + bufferTime {
		out = append(out, models.TimeWindow{
			StartTime: FormatClock(cursor),
			EndTime:   FormatClock(cursor + meetingDuration),
		})
	}
	return out
}

// GenerateSlots expands a window and maps each slot into the customer's
// local time, converting on the slot's own date so DST transitions land
// on the right side. Pure: identical inputs give identical output.
func GenerateSlots(window models.TimeWindow, meetingDuration, bufferTime int, date time.Time, businessZone, customerZone string) ([]models.Slot, error) {
	windows := Stride(window, meetingDuration, bufferTime)
	if len(windows) == 0 {
		return nil, nil
	}

	businessLoc, err := LoadZone(businessZone)
	if err != nil {
		return nil, err
	}

	slots := make([]models.Slot, 0, len(windows))
	for _, w := range windows {
		slot, err := Localize(w, date, businessLoc, customerZone)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// Localize converts one business-local slot window into a customer-local
// slot, stamping the concrete start instant for filtering and ordering.
func Localize(w models.TimeWindow, date time.Time, businessLoc *time.Location, customerZone string) (models.Slot, error) {
	startMin, err := ParseClock(w.StartTime)
	if err != nil {
		return models.Slot{}, err
	}
	customerLoc, err := LoadZone(customerZone)
	if err != nil {
		return models.Slot{}, err
	}

	startAt := time.Date(date.Year(), date.Month(), date.Day(), startMin/60, startMin%60, 0, 0, businessLoc)
	endMin, err := ParseClock(w.EndTime)
	if err != nil {
		return models.Slot{}, err
	}
	endAt := time.Date(date.Year(), date.Month(), date.Day(), endMin/60, endMin%60, 0, 0, businessLoc)

	return models.Slot{
		StartTime: startAt.In(customerLoc).Format("15:04"),
		EndTime:   endAt.In(customerLoc).Format("15:04"),
		Available: true,
		StartAt:   startAt,
	}, nil
}

// SubtractLunch removes the lunch interval from every window, splitting
// windows that span it. Malformed lunch times leave windows untouched.
func SubtractLunch(windows []models.TimeWindow, lunch models.LunchBreak) []models.TimeWindow {
	lunchStart, err := ParseClock(lunch.Start)
	if err != nil {
		return windows
	}
	lunchEnd, err := ParseClock(lunch.End)
	if err != nil || lunchEnd <= lunchStart {
		return windows
	}

	var out []models.TimeWindow
	for _, w := range windows {
		start, err := ParseClock(w.StartTime)
		if err != nil {
			continue
		}
		end, err := ParseClock(w.EndTime)
		if err != nil {
			continue
		}
		if lunchEnd <= start || end <= lunchStart {
			out = append(out, w)
			continue
		}
		if start < lunchStart {
			out = append(out, models.TimeWindow{StartTime: FormatClock(start), EndTime: FormatClock(lunchStart)})
		}
		if lunchEnd < end {
			out = append(out, models.TimeWindow{StartTime: FormatClock(lunchEnd), EndTime: FormatClock(end)})
		}
	}
	return out
}
