// Package notify publishes best-effort domain events to staff channels.
package notify

import (
	"context"
	"errors"
	"time"
)

type EventType string

const (
	EventInterviewBooked    EventType = "interview.booked"
	EventInterviewCancelled EventType = "interview.cancelled"
	EventInterviewConfirmed EventType = "interview.confirmed"
	EventInterviewDigest    EventType = "interview.digest"
	EventAttendanceReported EventType = "attendance.reported"
)

// Event is the message body shared by every publisher.
type Event struct {
	Type       EventType `json:"type"`
	BookingID  string    `json:"booking_id,omitempty"`
	ReportID   string    `json:"report_id,omitempty"`
	Name       string    `json:"name,omitempty"`
	Date       string    `json:"date,omitempty"`
	Time       string    `json:"time,omitempty"`
	Topic      string    `json:"topic,omitempty"`
	Text       string    `json:"text,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher delivers events. Callers treat errors as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
