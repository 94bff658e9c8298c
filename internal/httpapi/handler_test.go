package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanqtrail-arch/Absence/internal/clock"
	"github.com/tanqtrail-arch/Absence/internal/drafting"
	"github.com/tanqtrail-arch/Absence/internal/model"
	"github.com/tanqtrail-arch/Absence/internal/repository"
	"github.com/tanqtrail-arch/Absence/internal/service"
	"github.com/tanqtrail-arch/Absence/internal/store"
	"go.uber.org/zap"
)

type downStore struct{}

func (downStore) Get(context.Context, string) ([]byte, error) {
	return nil, store.ErrUnavailable
}

func (downStore) Set(context.Context, string, []byte) error {
	return store.ErrUnavailable
}

func newTestRouter(t *testing.T, st store.Store) *echo.Echo {
	t.Helper()

	loc := time.FixedZone("JST", 9*60*60)
	c := clock.NewFixed(time.Date(2026, 3, 15, 10, 0, 0, 0, loc))
	logger := zap.NewNop()

	bookings := service.NewBookingService(
		repository.NewSlotRepository(st),
		repository.NewBookingRepository(st, c),
		nil, c, logger,
	)
	calendar := service.NewCalendarService(
		repository.NewEventRepository(st),
		service.CatalogConfig{Weeks: 1},
		c, logger,
	)
	attendance := service.NewAttendanceService(
		repository.NewReportRepository(st, c),
		calendar, nil, drafting.Fallback{}, nil, c, logger,
	)

	return NewRouter(NewHandler(bookings, calendar, attendance, nil, logger), logger)
}

func do(e *echo.Echo, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

const bookingBody = `{
	"parent_name": "山田花子",
	"consultation_topic": "学習相談",
	"preferred_date": "2026-04-10",
	"preferred_time": "11:00"
}`

func TestHealth(t *testing.T) {
	e := newTestRouter(t, store.NewMemoryStore())

	rec := do(e, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBookingFlow(t *testing.T) {
	e := newTestRouter(t, store.NewMemoryStore())

	rec := do(e, http.MethodPost, "/api/slots/toggle", `{"date":"2026-04-10","time":"11:00"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	slots := decode[[]model.InterviewSlot](t, rec)
	require.Len(t, slots, 1)
	assert.False(t, slots[0].IsBooked)

	rec = do(e, http.MethodGet, "/api/slots/open-dates", "", nil)
	assert.Equal(t, []string{"2026-04-10"}, decode[[]string](t, rec))

	rec = do(e, http.MethodPost, "/api/bookings", bookingBody, map[string]string{HeaderUserID: "parent-1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	booking := decode[model.InterviewBooking](t, rec)
	assert.Equal(t, model.BookingStatusPending, booking.Status)
	assert.Equal(t, "parent-1", booking.ParentID)

	rec = do(e, http.MethodGet, "/api/slots/times?date=2026-04-10", "", nil)
	assert.Empty(t, decode[[]string](t, rec))

	// Second submission for the same slot is a conflict.
	rec = do(e, http.MethodPost, "/api/bookings", bookingBody, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(e, http.MethodPost, "/api/bookings/"+booking.ID+"/confirm", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.BookingStatusConfirmed, decode[model.InterviewBooking](t, rec).Status)

	rec = do(e, http.MethodGet, "/api/bookings?parent_id=parent-1", "", nil)
	assert.Len(t, decode[[]model.InterviewBooking](t, rec), 1)

	rec = do(e, http.MethodPost, "/api/bookings/"+booking.ID+"/cancel", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(e, http.MethodGet, "/api/slots/times?date=2026-04-10", "", nil)
	assert.Equal(t, []string{"11:00"}, decode[[]string](t, rec))

	rec = do(e, http.MethodGet, "/api/bookings?date=2026-04-10", "", nil)
	assert.Empty(t, decode[[]model.InterviewBooking](t, rec))
}

func TestSubmitBooking_Validation(t *testing.T) {
	e := newTestRouter(t, store.NewMemoryStore())

	cases := map[string]string{
		"missing name":  `{"consultation_topic":"学習相談","preferred_date":"2026-04-10","preferred_time":"11:00"}`,
		"unknown topic": `{"parent_name":"a","consultation_topic":"雑談","preferred_date":"2026-04-10","preferred_time":"11:00"}`,
		"bad date":      `{"parent_name":"a","consultation_topic":"学習相談","preferred_date":"10/04/2026","preferred_time":"11:00"}`,
		"off grid time": `{"parent_name":"a","consultation_topic":"学習相談","preferred_date":"2026-04-10","preferred_time":"11:15"}`,
		"not json":      `{`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(e, http.MethodPost, "/api/bookings", body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestConfirmUnknownBooking(t *testing.T) {
	e := newTestRouter(t, store.NewMemoryStore())

	rec := do(e, http.MethodPost, "/api/bookings/missing/confirm", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(e, http.MethodPost, "/api/bookings/missing/cancel", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestStoreUnavailable(t *testing.T) {
	e := newTestRouter(t, downStore{})

	rec := do(e, http.MethodGet, "/api/slots", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(e, http.MethodPost, "/api/bookings", bookingBody, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestEvents(t *testing.T) {
	e := newTestRouter(t, store.NewMemoryStore())

	body := `{"title":"保護者会","start_at":"2026-04-20T18:00:00+09:00","end_at":"2026-04-20T19:00:00+09:00","location":"本校"}`
	rec := do(e, http.MethodPost, "/api/events", body, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	event := decode[model.CalendarEvent](t, rec)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, model.EventTypeEvent, event.EventType)

	rec = do(e, http.MethodGet, "/api/events?date=2026-04-20", "", nil)
	assert.Len(t, decode[[]model.CalendarEvent](t, rec), 1)

	rec = do(e, http.MethodDelete, "/api/events/"+event.ID, "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(e, http.MethodGet, "/api/events?date=2026-04-20", "", nil)
	assert.Empty(t, decode[[]model.CalendarEvent](t, rec))

	bad := `{"title":"x","start_at":"2026-04-20T19:00:00+09:00","end_at":"2026-04-20T18:00:00+09:00"}`
	rec = do(e, http.MethodPost, "/api/events", bad, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReports(t *testing.T) {
	e := newTestRouter(t, store.NewMemoryStore())

	rec := do(e, http.MethodPost, "/api/reports", `{"absence_date":"2026-04-10","reason":"発熱"}`,
		map[string]string{HeaderUserID: "student-7", HeaderDisplayName: "%E5%A4%AA%E9%83%8E"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	report := decode[model.AttendanceReport](t, rec)
	assert.Equal(t, "student-7", report.StudentID)
	assert.Equal(t, "太郎", report.StudentName)
	assert.Equal(t, drafting.FallbackMessage, report.Message)
	assert.True(t, report.IsFullDay())

	rec = do(e, http.MethodPost, "/api/reports", `{"reason":"発熱"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodGet, "/api/reports", "", nil)
	reports := decode[[]model.AttendanceReport](t, rec)
	require.Len(t, reports, 1)
	assert.Equal(t, report.ID, reports[0].ID)
}

func TestReports_Anonymous(t *testing.T) {
	e := newTestRouter(t, store.NewMemoryStore())

	rec := do(e, http.MethodPost, "/api/reports", `{"absence_date":"2026-04-10","reason":"通院","message":"よろしくお願いします"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	report := decode[model.AttendanceReport](t, rec)
	assert.Equal(t, model.AnonymousUserID, report.StudentID)
	assert.Equal(t, model.AnonymousDisplayName, report.StudentName)
	assert.Equal(t, "よろしくお願いします", report.Message)
}

func TestDraftMessage(t *testing.T) {
	e := newTestRouter(t, store.NewMemoryStore())

	rec := do(e, http.MethodPost, "/api/reports/draft", `{"reason":"発熱"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, drafting.FallbackMessage, decode[map[string]string](t, rec)["message"])

	rec = do(e, http.MethodPost, "/api/reports/draft", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
