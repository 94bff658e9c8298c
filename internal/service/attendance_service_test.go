package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanqtrail-arch/Absence/internal/clock"
	"github.com/tanqtrail-arch/Absence/internal/drafting"
	"github.com/tanqtrail-arch/Absence/internal/model"
	"github.com/tanqtrail-arch/Absence/internal/notify"
	"github.com/tanqtrail-arch/Absence/internal/repository"
	"github.com/tanqtrail-arch/Absence/internal/store"
	"go.uber.org/zap"
)

type staticProfile struct {
	profile *model.Profile
	err     error
}

func (p staticProfile) Profile(context.Context) (*model.Profile, error) {
	return p.profile, p.err
}

type echoComposer struct{}

func (echoComposer) Compose(_ context.Context, reason, subjectTitle, date string) string {
	return reason + "|" + subjectTitle + "|" + date
}

func newAttendance(t *testing.T) (*AttendanceService, *CalendarService, *clock.Fixed, *recordingPublisher) {
	t.Helper()

	st := store.NewMemoryStore()
	c := clock.NewFixed(time.Date(2026, 3, 15, 12, 0, 0, 0, jst))
	logger := zap.NewNop()
	calendar := newCalendar(st, c)
	pub := &recordingPublisher{}

	svc := NewAttendanceService(
		repository.NewReportRepository(st, c),
		calendar,
		NewUserService(logger),
		echoComposer{},
		pub,
		c,
		logger,
	)
	return svc, calendar, c, pub
}

func TestAttendanceService_SubmitForEvent(t *testing.T) {
	ctx := context.Background()
	svc, calendar, _, pub := newAttendance(t)

	events, err := calendar.Events(ctx)
	require.NoError(t, err)
	target := events[1]

	report, err := svc.SubmitReport(ctx, model.ReportDraft{
		CalendarEventID: target.ID,
		Reason:          "体調不良",
		Message:         "欠席いたします。",
	}, staticProfile{profile: &model.Profile{DisplayName: "山田花子", UserID: "U123"}})
	require.NoError(t, err)

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, model.ReportStatusPending, report.Status)
	assert.Equal(t, target.Title, report.EventTitle)
	assert.Equal(t, target.StartAt.Format(model.DateLayout), report.AbsenceDate)
	assert.Equal(t, "U123", report.StudentID)
	assert.Equal(t, "山田花子", report.StudentName)
	assert.False(t, report.IsFullDay())
	assert.Equal(t, []notify.EventType{notify.EventAttendanceReported}, pub.types())
}

func TestAttendanceService_FullDayAnonymous(t *testing.T) {
	ctx := context.Background()
	svc, _, c, _ := newAttendance(t)

	first, err := svc.SubmitReport(ctx, model.ReportDraft{AbsenceDate: "2026-03-16", Reason: "家庭の事情"}, nil)
	require.NoError(t, err)
	assert.True(t, first.IsFullDay())
	assert.Equal(t, model.AnonymousUserID, first.StudentID)
	assert.Equal(t, model.AnonymousDisplayName, first.StudentName)

	c.Advance(time.Minute)
	second, err := svc.SubmitReport(ctx, model.ReportDraft{AbsenceDate: "2026-03-17", Reason: "通院"},
		staticProfile{err: errors.New("profile unavailable")})
	require.NoError(t, err)
	assert.Equal(t, model.AnonymousUserID, second.StudentID)

	reports, err := svc.Reports(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, second.ID, reports[0].ID)
	assert.Equal(t, first.ID, reports[1].ID)
}

func TestAttendanceService_UnknownEventKeepsReference(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newAttendance(t)

	report, err := svc.SubmitReport(ctx, model.ReportDraft{CalendarEventID: "gone", Reason: "体調不良"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "gone", report.CalendarEventID)
	assert.Empty(t, report.EventTitle)
}

func TestAttendanceService_DraftMessage(t *testing.T) {
	svc, _, _, _ := newAttendance(t)

	assert.Equal(t, "発熱|個別|3月16日", svc.DraftMessage(context.Background(), "発熱", "個別", "3月16日"))
	assert.Equal(t, "発熱|"+drafting.FullDayTitle+"|3月16日", svc.DraftMessage(context.Background(), "発熱", "", "3月16日"))
}

func TestAttendanceService_DefaultComposerFallsBack(t *testing.T) {
	st := store.NewMemoryStore()
	c := clock.NewFixed(time.Date(2026, 3, 15, 12, 0, 0, 0, jst))
	svc := NewAttendanceService(repository.NewReportRepository(st, c), newCalendar(st, c), nil, nil, nil, c, zap.NewNop())

	assert.Equal(t, drafting.FallbackMessage, svc.DraftMessage(context.Background(), "発熱", "個別", "3月16日"))
}
