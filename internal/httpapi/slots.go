package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tanqtrail-arch/Absence/internal/model"
)

// ListSlots handles GET /api/slots.
func (h *Handler) ListSlots(c echo.Context) error {
	slots, err := h.bookings.ListSlots(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(slots))
}

// ToggleSlot handles POST /api/slots/toggle. Returns the whole updated slot set.
func (h *Handler) ToggleSlot(c echo.Context) error {
	var req toggleSlotRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	slots, err := h.bookings.ToggleSlot(c.Request().Context(), req.Date, req.Time)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(slots))
}

// OpenDates handles GET /api/slots/open-dates.
func (h *Handler) OpenDates(c echo.Context) error {
	dates, err := h.bookings.OpenDates(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(dates))
}

// SlotDates handles GET /api/slots/dates.
func (h *Handler) SlotDates(c echo.Context) error {
	dates, err := h.bookings.SlotDates(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(dates))
}

// AvailableTimes handles GET /api/slots/times?date=YYYY-MM-DD.
func (h *Handler) AvailableTimes(c echo.Context) error {
	date := c.QueryParam("date")
	if !model.IsValidDate(date) {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	times, err := h.bookings.AvailableTimes(c.Request().Context(), date)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(times))
}

// nonNil keeps empty collections encoded as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
