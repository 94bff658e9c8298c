// Package store holds the key-value adapters behind every persisted collection.
// Values are JSON documents keyed by logical collection name.
package store

import (
	"context"
	"errors"
	"fmt"
)

// Logical collection keys.
const (
	KeyInterviewSlots    = "interview_slots"
	KeyInterviewBookings = "interview_bookings"
	KeyCalendarEvents    = "calendar_events"
	KeyAttendanceReports = "attendance_reports"
)

// ErrUnavailable is returned when the backing store cannot be read or written.
var ErrUnavailable = errors.New("store unavailable")

// Store is the key-value contract. Get returns nil, nil for an absent key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// unavailable оборачивает ошибку бэкенда в ErrUnavailable
func unavailable(op, key string, err error) error {
	return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, op, key, err)
}
