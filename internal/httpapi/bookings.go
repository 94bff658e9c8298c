package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tanqtrail-arch/Absence/internal/model"
	"go.uber.org/zap"
)

// ListBookings handles GET /api/bookings.
// Optional filters: ?date= (active bookings on that day) or ?parent_id=.
func (h *Handler) ListBookings(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		bookings []*model.InterviewBooking
		err      error
	)
	switch {
	case c.QueryParam("date") != "":
		date := c.QueryParam("date")
		if !model.IsValidDate(date) {
			return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		bookings, err = h.bookings.UpcomingBookings(ctx, date)
	case c.QueryParam("parent_id") != "":
		bookings, err = h.bookings.BookingsByParent(ctx, c.QueryParam("parent_id"))
	default:
		bookings, err = h.bookings.ListBookings(ctx)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(bookings))
}

// SubmitBooking handles POST /api/bookings.
func (h *Handler) SubmitBooking(c echo.Context) error {
	var req submitBookingRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	profile := h.users.Lookup(ctx, profileFrom(c))

	parentID := ""
	if !profile.IsAnonymous() {
		parentID = profile.UserID
	}

	booking, err := h.bookings.SubmitBooking(ctx, req.draft(parentID))
	if err != nil {
		return err
	}

	h.logger.Debug("Booking accepted over HTTP", zap.String("booking_id", booking.ID))
	return c.JSON(http.StatusCreated, booking)
}

// CancelBooking handles POST /api/bookings/:id/cancel. Unknown ids are a no-op.
func (h *Handler) CancelBooking(c echo.Context) error {
	if err := h.bookings.CancelBooking(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ConfirmBooking handles POST /api/bookings/:id/confirm.
func (h *Handler) ConfirmBooking(c echo.Context) error {
	booking, err := h.bookings.ConfirmBooking(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if booking == nil {
		return echo.NewHTTPError(http.StatusNotFound, "booking not found")
	}
	return c.JSON(http.StatusOK, booking)
}
