package model

import "time"

type EventType string

const (
	EventTypeClass     EventType = "class"
	EventTypeEvent     EventType = "event"
	EventTypeExam      EventType = "exam"
	EventTypeInterview EventType = "interview"
)

// IsValid checks the event type against the known set.
func (t EventType) IsValid() bool {
	switch t {
	case EventTypeClass, EventTypeEvent, EventTypeExam, EventTypeInterview:
		return true
	}
	return false
}

// CalendarEvent is one entry of the class calendar.
type CalendarEvent struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	StartAt      time.Time `json:"start_at"`
	EndAt        time.Time `json:"end_at"`
	EventType    EventType `json:"event_type"`
	IsCancelled  bool      `json:"is_cancelled"`
	CancelReason string    `json:"cancel_reason,omitempty"`
	Location     string    `json:"location,omitempty"`
	Description  string    `json:"description,omitempty"`
}

// Date returns the event's calendar date in its own location.
func (e *CalendarEvent) Date() string {
	return e.StartAt.Format(DateLayout)
}
