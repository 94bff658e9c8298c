package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tanqtrail-arch/Absence/internal/clock"
	"github.com/tanqtrail-arch/Absence/internal/model"
	"github.com/tanqtrail-arch/Absence/internal/notify"
	"go.uber.org/zap"
)

// DigestHour час (по часам школы), в который рассылается сводка на завтра
const DigestHour = 18

// BookingLister источник активных записей на дату
type BookingLister interface {
	UpcomingBookings(ctx context.Context, date string) ([]*model.InterviewBooking, error)
}

// CalendarSeeder заполняет календарь при первом чтении
type CalendarSeeder interface {
	Events(ctx context.Context) ([]*model.CalendarEvent, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	bookings  BookingLister
	calendar  CalendarSeeder
	publisher notify.Publisher
	clock     clock.Clock
	logger    *zap.Logger
	stopChan  chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(
	bookings BookingLister,
	calendar CalendarSeeder,
	publisher notify.Publisher,
	c clock.Clock,
	logger *zap.Logger,
) *Scheduler {
	if publisher == nil {
		publisher = notify.Nop{}
	}
	return &Scheduler{
		bookings:  bookings,
		calendar:  calendar,
		publisher: publisher,
		clock:     c,
		logger:    logger,
		stopChan:  make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")

	s.SeedCalendar(ctx)
	go s.runDigestTask(ctx)
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

// SeedCalendar читает календарь один раз, чтобы он сгенерировался до первого запроса
func (s *Scheduler) SeedCalendar(ctx context.Context) {
	events, err := s.calendar.Events(ctx)
	if err != nil {
		s.logger.Error("Failed to seed calendar", zap.Error(err))
		return
	}
	s.logger.Info("Calendar ready", zap.Int("events", len(events)))
}

func (s *Scheduler) runDigestTask(ctx context.Context) {
	for {
		wait := NextRun(s.clock.Now(), DigestHour).Sub(s.clock.Now())
		timer := time.NewTimer(wait)

		select {
		case <-timer.C:
			if err := s.SendDigest(ctx); err != nil {
				s.logger.Error("Failed to send interview digest", zap.Error(err))
			}
		case <-s.stopChan:
			timer.Stop()
			s.logger.Info("Digest task stopped")
			return
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("Digest task cancelled")
			return
		}
	}
}

// SendDigest публикует список завтрашних собеседований; пустой день пропускается
func (s *Scheduler) SendDigest(ctx context.Context) error {
	tomorrow := clock.Today(s.clock).AddDate(0, 0, 1).Format(model.DateLayout)

	bookings, err := s.bookings.UpcomingBookings(ctx, tomorrow)
	if err != nil {
		return fmt.Errorf("list upcoming bookings: %w", err)
	}
	if len(bookings) == 0 {
		s.logger.Debug("No interviews tomorrow", zap.String("date", tomorrow))
		return nil
	}

	event := notify.Event{
		Type:       notify.EventInterviewDigest,
		Date:       tomorrow,
		Text:       FormatDigest(bookings),
		OccurredAt: s.clock.Now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Digest publish failed", zap.Error(err))
		return nil
	}

	s.logger.Info("Interview digest sent",
		zap.String("date", tomorrow),
		zap.Int("bookings", len(bookings)))
	return nil
}

// FormatDigest строит тело сводки: одна строка на запись
func FormatDigest(bookings []*model.InterviewBooking) string {
	lines := make([]string, 0, len(bookings))
	for _, b := range bookings {
		status := "未確定"
		if b.Status == model.BookingStatusConfirmed {
			status = "確定"
		}
		lines = append(lines, fmt.Sprintf("%s %s さん（%s・%s）",
			b.PreferredTime, b.ParentName, b.ConsultationTopic, status))
	}
	return strings.Join(lines, "\n")
}

// NextRun возвращает ближайший момент hour:00 строго после now
func NextRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
