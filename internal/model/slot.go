package model

import "time"

// DateLayout is the ISO calendar date format used for slot and booking dates.
const DateLayout = "2006-01-02"

// TimeLayout is the time-of-day format of slot labels.
const TimeLayout = "15:04"

// Slot grid bounds, half-hour steps.
const (
	SlotGridStartHour = 11
	SlotGridEndHour   = 20 // последний слот 20:30
	SlotGridStep      = 30 * time.Minute
)

// InterviewSlot is one staff-designated interview opportunity.
type InterviewSlot struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	IsBooked  bool   `json:"is_booked"`
	BookingID string `json:"booking_id,omitempty"` // set iff IsBooked
}

// Matches checks the slot's (date, time) key.
func (s *InterviewSlot) Matches(date, clock string) bool {
	return s.Date == date && s.Time == clock
}

// IsOpen reports whether the slot can still be booked.
func (s *InterviewSlot) IsOpen() bool {
	return !s.IsBooked
}

// SlotTimes returns the half-hour grid of selectable time labels.
func SlotTimes() []string {
	start := time.Date(2000, 1, 1, SlotGridStartHour, 0, 0, 0, time.UTC)
	end := time.Date(2000, 1, 1, SlotGridEndHour, 30, 0, 0, time.UTC)

	var times []string
	for t := start; !t.After(end); t = t.Add(SlotGridStep) {
		times = append(times, t.Format(TimeLayout))
	}
	return times
}

// IsValidSlotTime checks that label is on the slot grid.
func IsValidSlotTime(label string) bool {
	for _, t := range SlotTimes() {
		if t == label {
			return true
		}
	}
	return false
}

// IsValidDate checks the ISO date format.
func IsValidDate(date string) bool {
	_, err := time.Parse(DateLayout, date)
	return err == nil
}
