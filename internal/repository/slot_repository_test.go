package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanqtrail-arch/Absence/internal/store"
)

func TestSlotRepository_ToggleCreatesThenRemoves(t *testing.T) {
	ctx := context.Background()
	repo := NewSlotRepository(store.NewMemoryStore())

	slots, err := repo.Toggle(ctx, "2026-03-10", "15:00")
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "2026-03-10", slots[0].Date)
	assert.Equal(t, "15:00", slots[0].Time)
	assert.False(t, slots[0].IsBooked)
	assert.Empty(t, slots[0].BookingID)
	assert.NotEmpty(t, slots[0].ID)

	slots, err = repo.Toggle(ctx, "2026-03-10", "15:00")
	require.NoError(t, err)
	assert.Empty(t, slots)

	listed, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestSlotRepository_ToggleLeavesBookedSlot(t *testing.T) {
	ctx := context.Background()
	repo := NewSlotRepository(store.NewMemoryStore())

	_, err := repo.Toggle(ctx, "2026-03-10", "15:00")
	require.NoError(t, err)

	bound, err := repo.MarkBooked(ctx, "2026-03-10", "15:00", "booking-1")
	require.NoError(t, err)
	require.True(t, bound)

	before, err := repo.List(ctx)
	require.NoError(t, err)

	after, err := repo.Toggle(ctx, "2026-03-10", "15:00")
	require.NoError(t, err)
	assert.Equal(t, before, after)
	require.Len(t, after, 1)
	assert.True(t, after[0].IsBooked)
	assert.Equal(t, "booking-1", after[0].BookingID)
}

func TestSlotRepository_MarkBookedOnlyOpenSlots(t *testing.T) {
	ctx := context.Background()
	repo := NewSlotRepository(store.NewMemoryStore())

	bound, err := repo.MarkBooked(ctx, "2026-03-10", "15:00", "booking-1")
	require.NoError(t, err)
	assert.False(t, bound, "missing slot must not bind")

	_, err = repo.Toggle(ctx, "2026-03-10", "15:00")
	require.NoError(t, err)

	bound, err = repo.MarkBooked(ctx, "2026-03-10", "15:00", "booking-1")
	require.NoError(t, err)
	assert.True(t, bound)

	bound, err = repo.MarkBooked(ctx, "2026-03-10", "15:00", "booking-2")
	require.NoError(t, err)
	assert.False(t, bound, "booked slot must not rebind")

	slot, err := repo.Get(ctx, "2026-03-10", "15:00")
	require.NoError(t, err)
	require.NotNil(t, slot)
	assert.Equal(t, "booking-1", slot.BookingID)
}

func TestSlotRepository_Release(t *testing.T) {
	ctx := context.Background()
	repo := NewSlotRepository(store.NewMemoryStore())

	_, err := repo.Toggle(ctx, "2026-03-10", "15:00")
	require.NoError(t, err)
	_, err = repo.MarkBooked(ctx, "2026-03-10", "15:00", "booking-1")
	require.NoError(t, err)

	released, err := repo.Release(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, released)

	released, err = repo.Release(ctx, "booking-1")
	require.NoError(t, err)
	assert.True(t, released)

	slot, err := repo.Get(ctx, "2026-03-10", "15:00")
	require.NoError(t, err)
	require.NotNil(t, slot)
	assert.False(t, slot.IsBooked)
	assert.Empty(t, slot.BookingID)
}

func TestSlotRepository_GetMissing(t *testing.T) {
	repo := NewSlotRepository(store.NewMemoryStore())

	slot, err := repo.Get(context.Background(), "2026-03-10", "15:00")
	require.NoError(t, err)
	assert.Nil(t, slot)
}
