package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/tanqtrail-arch/Absence/internal/clock"
	"github.com/tanqtrail-arch/Absence/internal/model"
	"github.com/tanqtrail-arch/Absence/internal/repository/base"
	"github.com/tanqtrail-arch/Absence/internal/store"
)

// BookingRepository журнал заявок на собеседование.
// Записи только добавляются, меняется лишь статус.
type BookingRepository struct {
	bookings *base.Collection[model.InterviewBooking]
	clock    clock.Clock
}

func NewBookingRepository(st store.Store, c clock.Clock) *BookingRepository {
	return &BookingRepository{
		bookings: base.NewCollection[model.InterviewBooking](st, store.KeyInterviewBookings),
		clock:    c,
	}
}

// List возвращает бронирования, новые первыми
func (r *BookingRepository) List(ctx context.Context) ([]*model.InterviewBooking, error) {
	bookings, err := r.bookings.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	sortNewestFirst(bookings)
	return bookings, nil
}

// GetByID получает бронирование по ID, nil если не найдено
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*model.InterviewBooking, error) {
	bookings, err := r.bookings.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	for _, booking := range bookings {
		if booking.ID == id {
			return booking, nil
		}
	}

	return nil, nil
}

// FindByIdempotencyKey ищет последнее бронирование с тем же ключом
func (r *BookingRepository) FindByIdempotencyKey(ctx context.Context, key string) (*model.InterviewBooking, error) {
	if key == "" {
		return nil, nil
	}

	bookings, err := r.bookings.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("find booking by idempotency key: %w", err)
	}

	var found *model.InterviewBooking
	for _, booking := range bookings {
		if booking.IdempotencyKey == key {
			found = booking
		}
	}

	return found, nil
}

// Append создаёт бронирование со статусом pending.
// Доступность слота здесь не проверяется.
func (r *BookingRepository) Append(ctx context.Context, draft model.BookingDraft) (*model.InterviewBooking, error) {
	bookings, err := r.bookings.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("append booking: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate booking id: %w", err)
	}

	booking := &model.InterviewBooking{
		ID:                id.String(),
		ParentName:        draft.ParentName,
		ParentID:          draft.ParentID,
		ChildGrowth:       draft.ChildGrowth,
		ConsultationTopic: draft.ConsultationTopic,
		Message:           draft.Message,
		PreferredDate:     draft.PreferredDate,
		PreferredTime:     draft.PreferredTime,
		Status:            model.BookingStatusPending,
		IdempotencyKey:    draft.IdempotencyKey,
		CreatedAt:         r.clock.Now(),
	}

	bookings = append(bookings, booking)
	if err := r.bookings.Save(ctx, bookings); err != nil {
		return nil, fmt.Errorf("append booking: %w", err)
	}

	return booking, nil
}

// SetStatus обновляет статус бронирования. Неизвестный ID молча игнорируется.
func (r *BookingRepository) SetStatus(ctx context.Context, id string, status model.BookingStatus) ([]*model.InterviewBooking, error) {
	bookings, err := r.bookings.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	found := false
	for _, booking := range bookings {
		if booking.ID == id {
			booking.Status = status
			found = true
			break
		}
	}

	if found {
		if err := r.bookings.Save(ctx, bookings); err != nil {
			return nil, fmt.Errorf("update booking status: %w", err)
		}
	}

	sortNewestFirst(bookings)
	return bookings, nil
}

// sortNewestFirst сортирует по created_at, при равенстве по ID (uuid v7 монотонен)
func sortNewestFirst(bookings []*model.InterviewBooking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		if !bookings[i].CreatedAt.Equal(bookings[j].CreatedAt) {
			return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
		}
		return bookings[i].ID > bookings[j].ID
	})
}
