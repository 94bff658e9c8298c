package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tanqtrail-arch/Absence/internal/catalog"
	"github.com/tanqtrail-arch/Absence/internal/clock"
	"github.com/tanqtrail-arch/Absence/internal/model"
	"github.com/tanqtrail-arch/Absence/internal/repository"
	"go.uber.org/zap"
)

// ErrInvalidEvent возвращается для события с некорректным временем или типом
var ErrInvalidEvent = errors.New("invalid calendar event")

// CatalogConfig параметры первичной генерации календаря
type CatalogConfig struct {
	Templates []catalog.Template
	Holidays  catalog.Holidays
	Weeks     int
}

// DefaultCatalogConfig расписание школы на 52 недели с каникулами 2026 года
func DefaultCatalogConfig() CatalogConfig {
	return CatalogConfig{
		Templates: catalog.DefaultTemplates(),
		Holidays:  catalog.Holidays2026(),
		Weeks:     catalog.DefaultWeeks,
	}
}

// CalendarService управляет календарём занятий
type CalendarService struct {
	mu        sync.Mutex
	eventRepo *repository.EventRepository
	catalog   CatalogConfig
	clock     clock.Clock
	logger    *zap.Logger
}

func NewCalendarService(eventRepo *repository.EventRepository, cfg CatalogConfig, c clock.Clock, logger *zap.Logger) *CalendarService {
	if cfg.Weeks <= 0 {
		cfg.Weeks = catalog.DefaultWeeks
	}
	return &CalendarService{
		eventRepo: eventRepo,
		catalog:   cfg,
		clock:     c,
		logger:    logger,
	}
}

// Events возвращает календарь. При первом обращении календарь генерируется и сохраняется.
func (s *CalendarService) Events(ctx context.Context) ([]*model.CalendarEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadOrSeed(ctx)
}

// loadOrSeed вызывается под s.mu
func (s *CalendarService) loadOrSeed(ctx context.Context) ([]*model.CalendarEvent, error) {
	events, found, err := s.eventRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	if found {
		return events, nil
	}

	today := clock.Today(s.clock)
	events, err = catalog.Generate(today, s.catalog.Templates, s.catalog.Holidays, s.catalog.Weeks)
	if err != nil {
		return nil, fmt.Errorf("generate calendar: %w", err)
	}

	if err := s.eventRepo.ReplaceAll(ctx, events); err != nil {
		return nil, err
	}

	s.logger.Info("Calendar seeded",
		zap.String("today", today.Format(model.DateLayout)),
		zap.Int("events", len(events)),
	)

	return events, nil
}

// GetEvent получает событие по ID, nil если не найдено
func (s *CalendarService) GetEvent(ctx context.Context, id string) (*model.CalendarEvent, error) {
	events, err := s.Events(ctx)
	if err != nil {
		return nil, err
	}

	for _, event := range events {
		if event.ID == id {
			return event, nil
		}
	}

	return nil, nil
}

// EventsOn возвращает события даты в порядке начала
func (s *CalendarService) EventsOn(ctx context.Context, date string) ([]*model.CalendarEvent, error) {
	events, err := s.Events(ctx)
	if err != nil {
		return nil, err
	}

	var result []*model.CalendarEvent
	for _, event := range events {
		if event.StartAt.In(s.clock.Location()).Format(model.DateLayout) == date {
			result = append(result, event)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].StartAt.Before(result[j].StartAt)
	})

	return result, nil
}

// Today текущая дата по часам школы
func (s *CalendarService) Today() string {
	return clock.Today(s.clock).Format(model.DateLayout)
}

// Location часовой пояс школы
func (s *CalendarService) Location() *time.Location {
	return s.clock.Location()
}

// Now текущее время по часам школы
func (s *CalendarService) Now() time.Time {
	return s.clock.Now()
}

// AddEvent добавляет событие (действие сотрудника)
func (s *CalendarService) AddEvent(ctx context.Context, event *model.CalendarEvent) ([]*model.CalendarEvent, error) {
	if event.EventType == "" {
		event.EventType = model.EventTypeEvent
	}

	if !event.EventType.IsValid() {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, event.EventType)
	}

	if !event.EndAt.After(event.StartAt) {
		return nil, fmt.Errorf("%w: end time must be after start time", ErrInvalidEvent)
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.loadOrSeed(ctx); err != nil {
		return nil, err
	}

	events, err := s.eventRepo.Add(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("add event: %w", err)
	}

	s.logger.Info("Event added",
		zap.String("event_id", event.ID),
		zap.String("title", event.Title),
		zap.Time("start_at", event.StartAt),
	)

	return events, nil
}

// RemoveEvent удаляет событие, неизвестный ID молча игнорируется
func (s *CalendarService) RemoveEvent(ctx context.Context, id string) ([]*model.CalendarEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.loadOrSeed(ctx); err != nil {
		return nil, err
	}

	events, err := s.eventRepo.Remove(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("remove event: %w", err)
	}

	s.logger.Info("Event removed", zap.String("event_id", id))

	return events, nil
}
