package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ListReports handles GET /api/reports (newest first).
func (h *Handler) ListReports(c echo.Context) error {
	reports, err := h.attendance.Reports(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(reports))
}

// SubmitReport handles POST /api/reports. An empty message is drafted from the reason.
func (h *Handler) SubmitReport(c echo.Context) error {
	var req submitReportRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	if req.CalendarEventID == "" && req.AbsenceDate == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "calendar_event_id or absence_date is required")
	}

	ctx := c.Request().Context()
	draft := req.draft()

	if draft.Message == "" {
		title := ""
		if draft.CalendarEventID != "" {
			event, err := h.calendar.GetEvent(ctx, draft.CalendarEventID)
			if err != nil {
				return err
			}
			if event != nil {
				title = event.Title
			}
		}
		draft.Message = h.attendance.DraftMessage(ctx, draft.Reason, title, draft.AbsenceDate)
	}

	report, err := h.attendance.SubmitReport(ctx, draft, profileFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, report)
}

// DraftMessage handles POST /api/reports/draft. Never fails once the body is valid.
func (h *Handler) DraftMessage(c echo.Context) error {
	var req draftMessageRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	text := h.attendance.DraftMessage(c.Request().Context(), req.Reason, req.SubjectTitle, req.Date)
	return c.JSON(http.StatusOK, map[string]string{"message": text})
}
