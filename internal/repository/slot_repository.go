package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tanqtrail-arch/Absence/internal/model"
	"github.com/tanqtrail-arch/Absence/internal/repository/base"
	"github.com/tanqtrail-arch/Absence/internal/store"
)

// SlotRepository реестр открытых слотов для собеседований
type SlotRepository struct {
	slots *base.Collection[model.InterviewSlot]
}

func NewSlotRepository(st store.Store) *SlotRepository {
	return &SlotRepository{
		slots: base.NewCollection[model.InterviewSlot](st, store.KeyInterviewSlots),
	}
}

// List возвращает все слоты без гарантии порядка
func (r *SlotRepository) List(ctx context.Context) ([]*model.InterviewSlot, error) {
	slots, err := r.slots.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return slots, nil
}

// Get получает слот по дате и времени, nil если слота нет
func (r *SlotRepository) Get(ctx context.Context, date, clock string) (*model.InterviewSlot, error) {
	slots, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, slot := range slots {
		if slot.Matches(date, clock) {
			return slot, nil
		}
	}

	return nil, nil
}

// Toggle открывает слот, если его нет, и закрывает открытый.
// Забронированный слот не трогаем: коллекция возвращается без изменений.
func (r *SlotRepository) Toggle(ctx context.Context, date, clock string) ([]*model.InterviewSlot, error) {
	slots, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	idx := indexOfSlot(slots, date, clock)
	switch {
	case idx < 0:
		slots = append(slots, &model.InterviewSlot{
			ID:   uuid.NewString(),
			Date: date,
			Time: clock,
		})
	case slots[idx].IsBooked:
		return slots, nil
	default:
		slots = append(slots[:idx], slots[idx+1:]...)
	}

	if err := r.slots.Save(ctx, slots); err != nil {
		return nil, fmt.Errorf("toggle slot: %w", err)
	}

	return slots, nil
}

// MarkBooked привязывает открытый слот к бронированию.
// Возвращает false, если слота нет или он уже занят.
func (r *SlotRepository) MarkBooked(ctx context.Context, date, clock, bookingID string) (bool, error) {
	slots, err := r.List(ctx)
	if err != nil {
		return false, err
	}

	idx := indexOfSlot(slots, date, clock)
	if idx < 0 || slots[idx].IsBooked {
		return false, nil
	}

	slots[idx].IsBooked = true
	slots[idx].BookingID = bookingID

	if err := r.slots.Save(ctx, slots); err != nil {
		return false, fmt.Errorf("book slot: %w", err)
	}

	return true, nil
}

// Release освобождает слоты, привязанные к бронированию.
// Возвращает false, если ни один слот не ссылался на bookingID.
func (r *SlotRepository) Release(ctx context.Context, bookingID string) (bool, error) {
	slots, err := r.List(ctx)
	if err != nil {
		return false, err
	}

	released := false
	for _, slot := range slots {
		if slot.IsBooked && slot.BookingID == bookingID {
			slot.IsBooked = false
			slot.BookingID = ""
			released = true
		}
	}

	if !released {
		return false, nil
	}

	if err := r.slots.Save(ctx, slots); err != nil {
		return false, fmt.Errorf("release slot: %w", err)
	}

	return true, nil
}

func indexOfSlot(slots []*model.InterviewSlot, date, clock string) int {
	for i, slot := range slots {
		if slot.Matches(date, clock) {
			return i
		}
	}
	return -1
}
