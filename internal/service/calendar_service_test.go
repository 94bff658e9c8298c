package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanqtrail-arch/Absence/internal/catalog"
	"github.com/tanqtrail-arch/Absence/internal/clock"
	"github.com/tanqtrail-arch/Absence/internal/model"
	"github.com/tanqtrail-arch/Absence/internal/repository"
	"github.com/tanqtrail-arch/Absence/internal/store"
	"go.uber.org/zap"
)

var jst = time.FixedZone("JST", 9*60*60)

func smallCatalog() CatalogConfig {
	return CatalogConfig{
		Templates: []catalog.Template{{
			Weekday:  time.Monday,
			Prefix:   "mon",
			Sessions: []catalog.Session{{Title: "探究スターター", Start: "16:00", End: "17:00"}},
		}},
		Weeks: 4,
	}
}

func newCalendar(st store.Store, c clock.Clock) *CalendarService {
	return NewCalendarService(repository.NewEventRepository(st), smallCatalog(), c, zap.NewNop())
}

func TestCalendarService_SeedsOnce(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	c := clock.NewFixed(time.Date(2026, 3, 15, 12, 0, 0, 0, jst))
	svc := newCalendar(st, c)

	events, err := svc.Events(ctx)
	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, "mon-1-0", events[0].ID)

	// после удаления всех событий календарь не генерируется заново
	for _, e := range events {
		_, err := svc.RemoveEvent(ctx, e.ID)
		require.NoError(t, err)
	}

	c.Advance(30 * 24 * time.Hour)
	events, err = svc.Events(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestCalendarService_AddEventSeedsFirst(t *testing.T) {
	ctx := context.Background()
	c := clock.NewFixed(time.Date(2026, 3, 15, 12, 0, 0, 0, jst))
	svc := newCalendar(store.NewMemoryStore(), c)

	start := time.Date(2026, 3, 20, 10, 0, 0, 0, jst)
	events, err := svc.AddEvent(ctx, &model.CalendarEvent{
		Title:     "保護者会",
		StartAt:   start,
		EndAt:     start.Add(2 * time.Hour),
		EventType: model.EventTypeEvent,
	})
	require.NoError(t, err)
	require.Len(t, events, 5)

	added := events[4]
	assert.NotEmpty(t, added.ID)
	assert.Equal(t, "保護者会", added.Title)

	onDay, err := svc.EventsOn(ctx, "2026-03-20")
	require.NoError(t, err)
	require.Len(t, onDay, 1)
	assert.Equal(t, added.ID, onDay[0].ID)

	found, err := svc.GetEvent(ctx, added.ID)
	require.NoError(t, err)
	require.NotNil(t, found)

	missing, err := svc.GetEvent(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCalendarService_AddEventValidation(t *testing.T) {
	ctx := context.Background()
	c := clock.NewFixed(time.Date(2026, 3, 15, 12, 0, 0, 0, jst))
	svc := newCalendar(store.NewMemoryStore(), c)

	start := time.Date(2026, 3, 20, 10, 0, 0, 0, jst)

	_, err := svc.AddEvent(ctx, &model.CalendarEvent{Title: "x", StartAt: start, EndAt: start})
	assert.True(t, errors.Is(err, ErrInvalidEvent))

	_, err = svc.AddEvent(ctx, &model.CalendarEvent{Title: "x", StartAt: start, EndAt: start.Add(time.Hour), EventType: "party"})
	assert.True(t, errors.Is(err, ErrInvalidEvent))

	event := &model.CalendarEvent{Title: "x", StartAt: start, EndAt: start.Add(time.Hour)}
	_, err = svc.AddEvent(ctx, event)
	require.NoError(t, err)
	assert.Equal(t, model.EventTypeEvent, event.EventType)
}

func TestCalendarService_RemoveUnknownIsNoop(t *testing.T) {
	ctx := context.Background()
	c := clock.NewFixed(time.Date(2026, 3, 15, 12, 0, 0, 0, jst))
	svc := newCalendar(store.NewMemoryStore(), c)

	events, err := svc.RemoveEvent(ctx, "missing")
	require.NoError(t, err)
	assert.Len(t, events, 4)
}

func TestCalendarService_Today(t *testing.T) {
	// 23:30 UTC is already the next day in Tokyo
	c := clock.NewFixed(time.Date(2026, 3, 14, 23, 30, 0, 0, time.UTC).In(jst))
	svc := newCalendar(store.NewMemoryStore(), c)

	assert.Equal(t, "2026-03-15", svc.Today())
}
