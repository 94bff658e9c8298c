package httpapi

import (
	"time"

	"github.com/tanqtrail-arch/Absence/internal/model"
)

type toggleSlotRequest struct {
	Date string `json:"date" validate:"required,slotdate"`
	Time string `json:"time" validate:"required,slottime"`
}

type submitBookingRequest struct {
	ParentName        string `json:"parent_name" validate:"required,max=100"`
	ChildGrowth       string `json:"child_growth" validate:"max=2000"`
	ConsultationTopic string `json:"consultation_topic" validate:"required,topic"`
	Message           string `json:"message" validate:"max=2000"`
	PreferredDate     string `json:"preferred_date" validate:"required,slotdate"`
	PreferredTime     string `json:"preferred_time" validate:"required,slottime"`
	IdempotencyKey    string `json:"idempotency_key" validate:"max=128"`
}

func (r submitBookingRequest) draft(parentID string) model.BookingDraft {
	return model.BookingDraft{
		ParentName:        r.ParentName,
		ParentID:          parentID,
		ChildGrowth:       r.ChildGrowth,
		ConsultationTopic: r.ConsultationTopic,
		Message:           r.Message,
		PreferredDate:     r.PreferredDate,
		PreferredTime:     r.PreferredTime,
		IdempotencyKey:    r.IdempotencyKey,
	}
}

type addEventRequest struct {
	Title        string    `json:"title" validate:"required,max=200"`
	StartAt      time.Time `json:"start_at" validate:"required"`
	EndAt        time.Time `json:"end_at" validate:"required,gtfield=StartAt"`
	EventType    string    `json:"event_type" validate:"omitempty,eventtype"`
	IsCancelled  bool      `json:"is_cancelled"`
	CancelReason string    `json:"cancel_reason"`
	Location     string    `json:"location"`
	Description  string    `json:"description"`
}

func (r addEventRequest) event() *model.CalendarEvent {
	return &model.CalendarEvent{
		Title:        r.Title,
		StartAt:      r.StartAt,
		EndAt:        r.EndAt,
		EventType:    model.EventType(r.EventType),
		IsCancelled:  r.IsCancelled,
		CancelReason: r.CancelReason,
		Location:     r.Location,
		Description:  r.Description,
	}
}

// A report targets either one event (calendar_event_id) or a whole day (absence_date).
type submitReportRequest struct {
	CalendarEventID string `json:"calendar_event_id"`
	AbsenceDate     string `json:"absence_date" validate:"omitempty,slotdate"`
	StudentID       string `json:"student_id"`
	StudentName     string `json:"student_name"`
	Reason          string `json:"reason" validate:"required,max=500"`
	Message         string `json:"message" validate:"max=4000"`
}

func (r submitReportRequest) draft() model.ReportDraft {
	return model.ReportDraft{
		CalendarEventID: r.CalendarEventID,
		AbsenceDate:     r.AbsenceDate,
		StudentID:       r.StudentID,
		StudentName:     r.StudentName,
		Reason:          r.Reason,
		Message:         r.Message,
	}
}

type draftMessageRequest struct {
	Reason       string `json:"reason" validate:"required,max=500"`
	SubjectTitle string `json:"subject_title"`
	Date         string `json:"date" validate:"omitempty,slotdate"`
}
