package repository

import (
	"context"
	"fmt"

	"github.com/tanqtrail-arch/Absence/internal/model"
	"github.com/tanqtrail-arch/Absence/internal/repository/base"
	"github.com/tanqtrail-arch/Absence/internal/store"
)

// EventRepository хранит календарь занятий
type EventRepository struct {
	events *base.Collection[model.CalendarEvent]
}

func NewEventRepository(st store.Store) *EventRepository {
	return &EventRepository{
		events: base.NewCollection[model.CalendarEvent](st, store.KeyCalendarEvents),
	}
}

// Load возвращает события и признак того, что календарь уже сохранялся
func (r *EventRepository) Load(ctx context.Context) ([]*model.CalendarEvent, bool, error) {
	events, found, err := r.events.Load(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("load events: %w", err)
	}
	return events, found, nil
}

// ReplaceAll перезаписывает календарь целиком
func (r *EventRepository) ReplaceAll(ctx context.Context, events []*model.CalendarEvent) error {
	if err := r.events.Save(ctx, events); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	return nil
}

// Add добавляет событие в конец календаря
func (r *EventRepository) Add(ctx context.Context, event *model.CalendarEvent) ([]*model.CalendarEvent, error) {
	events, _, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}

	events = append(events, event)
	if err := r.ReplaceAll(ctx, events); err != nil {
		return nil, err
	}

	return events, nil
}

// Remove удаляет событие по ID. Неизвестный ID не считается ошибкой.
func (r *EventRepository) Remove(ctx context.Context, id string) ([]*model.CalendarEvent, error) {
	events, _, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}

	kept := make([]*model.CalendarEvent, 0, len(events))
	for _, event := range events {
		if event.ID != id {
			kept = append(kept, event)
		}
	}

	if len(kept) == len(events) {
		return events, nil
	}

	if err := r.ReplaceAll(ctx, kept); err != nil {
		return nil, err
	}

	return kept, nil
}
