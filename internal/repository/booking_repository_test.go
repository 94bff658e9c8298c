package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanqtrail-arch/Absence/internal/clock"
	"github.com/tanqtrail-arch/Absence/internal/model"
	"github.com/tanqtrail-arch/Absence/internal/store"
)

func newBookingRepo() (*BookingRepository, *clock.Fixed) {
	c := clock.NewFixed(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	return NewBookingRepository(store.NewMemoryStore(), c), c
}

func TestBookingRepository_AppendAssignsFields(t *testing.T) {
	ctx := context.Background()
	repo, c := newBookingRepo()

	booking, err := repo.Append(ctx, model.BookingDraft{
		ParentName:        "Yamada",
		ConsultationTopic: "学習相談",
		PreferredDate:     "2026-03-10",
		PreferredTime:     "15:00",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, model.BookingStatusPending, booking.Status)
	assert.True(t, booking.CreatedAt.Equal(c.Now()))
	assert.Equal(t, "Yamada", booking.ParentName)

	stored, err := repo.GetByID(ctx, booking.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, booking.ID, stored.ID)
}

func TestBookingRepository_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo, c := newBookingRepo()

	first, err := repo.Append(ctx, model.BookingDraft{ParentName: "first"})
	require.NoError(t, err)
	c.Advance(time.Minute)
	second, err := repo.Append(ctx, model.BookingDraft{ParentName: "second"})
	require.NoError(t, err)

	bookings, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, second.ID, bookings[0].ID)
	assert.Equal(t, first.ID, bookings[1].ID)
}

func TestBookingRepository_SetStatusUnknownIsNoop(t *testing.T) {
	ctx := context.Background()
	repo, _ := newBookingRepo()

	booking, err := repo.Append(ctx, model.BookingDraft{ParentName: "Yamada"})
	require.NoError(t, err)

	bookings, err := repo.SetStatus(ctx, "missing", model.BookingStatusCancelled)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, model.BookingStatusPending, bookings[0].Status)

	bookings, err = repo.SetStatus(ctx, booking.ID, model.BookingStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusConfirmed, bookings[0].Status)
}

func TestBookingRepository_FindByIdempotencyKey(t *testing.T) {
	ctx := context.Background()
	repo, _ := newBookingRepo()

	found, err := repo.FindByIdempotencyKey(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, found)

	booking, err := repo.Append(ctx, model.BookingDraft{ParentName: "Yamada", IdempotencyKey: "key-1"})
	require.NoError(t, err)

	found, err = repo.FindByIdempotencyKey(ctx, "key-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, booking.ID, found.ID)
}
