// Package httpapi exposes the scheduler, calendar and attendance services over JSON.
package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tanqtrail-arch/Absence/internal/service"
	"go.uber.org/zap"
)

// Handler holds the services every route delegates to.
type Handler struct {
	bookings   *service.BookingService
	calendar   *service.CalendarService
	attendance *service.AttendanceService
	users      *service.UserService
	logger     *zap.Logger
}

func NewHandler(
	bookings *service.BookingService,
	calendar *service.CalendarService,
	attendance *service.AttendanceService,
	users *service.UserService,
	logger *zap.Logger,
) *Handler {
	if users == nil {
		users = service.NewUserService(logger)
	}
	return &Handler{
		bookings:   bookings,
		calendar:   calendar,
		attendance: attendance,
		users:      users,
		logger:     logger,
	}
}

// Health is the liveness probe.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// bindValid binds the JSON body into req and runs the registered validator.
func bindValid(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.Validate(req)
}
