package model

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"   // Ожидает подтверждения сотрудником
	BookingStatusConfirmed BookingStatus = "confirmed" // Подтверждено
	BookingStatusCancelled BookingStatus = "cancelled" // Отменено, конечный статус
)

// ConsultationTopics are the interview topics offered to parents.
var ConsultationTopics = []string{
	"学習相談",
	"進路相談",
	"コース変更相談",
	"体験授業の相談",
	"その他",
}

// InterviewBooking is a parent's persisted interview request.
type InterviewBooking struct {
	ID                string        `json:"id"`
	ParentName        string        `json:"parent_name"`
	ParentID          string        `json:"parent_id,omitempty"`
	ChildGrowth       string        `json:"child_growth,omitempty"`
	ConsultationTopic string        `json:"consultation_topic"`
	Message           string        `json:"message,omitempty"`
	PreferredDate     string        `json:"preferred_date"`
	PreferredTime     string        `json:"preferred_time"`
	Status            BookingStatus `json:"status"`
	IdempotencyKey    string        `json:"idempotency_key,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
}

// IsActive reports whether the booking still holds its slot.
func (b *InterviewBooking) IsActive() bool {
	return b.Status != BookingStatusCancelled
}

// BookingDraft is the submission input. The scheduler accepts any field unset;
// required-field checks belong to the calling layer.
type BookingDraft struct {
	ParentName        string
	ParentID          string
	ChildGrowth       string
	ConsultationTopic string
	Message           string
	PreferredDate     string
	PreferredTime     string
	IdempotencyKey    string // client-generated, used to de-duplicate retries
}
