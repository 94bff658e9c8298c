package model

import "time"

type ReportStatus string

// Report status constants. Status is stored, never computed here.
const (
	ReportStatusPending  ReportStatus = "pending"
	ReportStatusApproved ReportStatus = "approved"
	ReportStatusRejected ReportStatus = "rejected"
)

// AttendanceReport represents an absence notice for a class or a whole day.
type AttendanceReport struct {
	ID              string       `json:"id"`
	CalendarEventID string       `json:"calendar_event_id,omitempty"` // empty for full-day absence
	EventTitle      string       `json:"event_title,omitempty"`
	AbsenceDate     string       `json:"absence_date,omitempty"`
	StudentID       string       `json:"student_id"`
	StudentName     string       `json:"student_name,omitempty"`
	Reason          string       `json:"reason"`
	Message         string       `json:"message"`
	Status          ReportStatus `json:"status"`
	CreatedAt       time.Time    `json:"created_at"`
}

// IsFullDay checks if the report covers every class of the day.
func (r *AttendanceReport) IsFullDay() bool {
	return r.CalendarEventID == ""
}

// ReportDraft is the input for a new attendance report.
type ReportDraft struct {
	CalendarEventID string
	AbsenceDate     string
	StudentID       string
	StudentName     string
	Reason          string
	Message         string
}
