package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tanqtrail-arch/Absence/internal/model"
)

// ListEvents handles GET /api/events, optionally narrowed with ?date=.
func (h *Handler) ListEvents(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		events []*model.CalendarEvent
		err    error
	)
	if date := c.QueryParam("date"); date != "" {
		if !model.IsValidDate(date) {
			return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		events, err = h.calendar.EventsOn(ctx, date)
	} else {
		events, err = h.calendar.Events(ctx)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(events))
}

// AddEvent handles POST /api/events and returns the stored event.
func (h *Handler) AddEvent(c echo.Context) error {
	var req addEventRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	event := req.event()
	if _, err := h.calendar.AddEvent(c.Request().Context(), event); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, event)
}

// RemoveEvent handles DELETE /api/events/:id. Unknown ids are a no-op.
func (h *Handler) RemoveEvent(c echo.Context) error {
	if _, err := h.calendar.RemoveEvent(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
