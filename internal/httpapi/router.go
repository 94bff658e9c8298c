package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// NewRouter builds the echo instance with every route registered.
func NewRouter(h *Handler, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Debug("HTTP request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	}))

	e.GET("/healthz", h.Health)

	api := e.Group("/api")

	api.GET("/slots", h.ListSlots)
	api.POST("/slots/toggle", h.ToggleSlot)
	api.GET("/slots/open-dates", h.OpenDates)
	api.GET("/slots/dates", h.SlotDates)
	api.GET("/slots/times", h.AvailableTimes)

	api.GET("/bookings", h.ListBookings)
	api.POST("/bookings", h.SubmitBooking)
	api.POST("/bookings/:id/cancel", h.CancelBooking)
	api.POST("/bookings/:id/confirm", h.ConfirmBooking)

	api.GET("/events", h.ListEvents)
	api.POST("/events", h.AddEvent)
	api.DELETE("/events/:id", h.RemoveEvent)

	api.GET("/reports", h.ListReports)
	api.POST("/reports", h.SubmitReport)
	api.POST("/reports/draft", h.DraftMessage)

	return e
}

// Server runs the router on an address until Shutdown.
type Server struct {
	echo   *echo.Echo
	addr   string
	logger *zap.Logger
}

func NewServer(addr string, h *Handler, logger *zap.Logger) *Server {
	return &Server{echo: NewRouter(h, logger), addr: addr, logger: logger}
}

// Start blocks until the server stops. A graceful shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info("HTTP API listening", zap.String("addr", s.addr))
	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.echo.Shutdown(ctx)
}
