package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/tanqtrail-arch/Absence/internal/clock"
	"github.com/tanqtrail-arch/Absence/internal/model"
	"github.com/tanqtrail-arch/Absence/internal/notify"
	"github.com/tanqtrail-arch/Absence/internal/repository"
	"go.uber.org/zap"
)

// ErrSlotAlreadyBooked возвращается при попытке записаться на занятый слот
var ErrSlotAlreadyBooked = errors.New("slot is already booked")

// BookingService единственный компонент, который меняет слоты и бронирования вместе.
// Все операции сериализуются через mu.
type BookingService struct {
	mu          sync.Mutex
	slotRepo    *repository.SlotRepository
	bookingRepo *repository.BookingRepository
	publisher   notify.Publisher
	clock       clock.Clock
	logger      *zap.Logger
}

func NewBookingService(
	slotRepo *repository.SlotRepository,
	bookingRepo *repository.BookingRepository,
	publisher notify.Publisher,
	c clock.Clock,
	logger *zap.Logger,
) *BookingService {
	if publisher == nil {
		publisher = notify.Nop{}
	}
	return &BookingService{
		slotRepo:    slotRepo,
		bookingRepo: bookingRepo,
		publisher:   publisher,
		clock:       c,
		logger:      logger,
	}
}

// ListSlots возвращает все слоты
func (s *BookingService) ListSlots(ctx context.Context) ([]*model.InterviewSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.slotRepo.List(ctx)
}

// ToggleSlot открывает или закрывает слот (действие сотрудника)
func (s *BookingService) ToggleSlot(ctx context.Context, date, clockLabel string) ([]*model.InterviewSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots, err := s.slotRepo.Toggle(ctx, date, clockLabel)
	if err != nil {
		return nil, err
	}

	// Новый слот сразу занимает активная заявка, пришедшая раньше него
	holder, err := s.activeBookingAt(ctx, date, clockLabel)
	if err != nil {
		return nil, err
	}
	if holder != nil {
		if err := s.bindOrphan(ctx, holder); err != nil {
			return nil, err
		}
		if slots, err = s.slotRepo.List(ctx); err != nil {
			return nil, err
		}
	}

	s.logger.Info("Slot toggled",
		zap.String("date", date),
		zap.String("time", clockLabel),
		zap.Int("total_slots", len(slots)),
	)

	return slots, nil
}

// ListBookings возвращает бронирования, новые первыми
func (s *BookingService) ListBookings(ctx context.Context) ([]*model.InterviewBooking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bookingRepo.List(ctx)
}

// GetByID получает бронирование по ID
func (s *BookingService) GetByID(ctx context.Context, id string) (*model.InterviewBooking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bookingRepo.GetByID(ctx, id)
}

// SubmitBooking создаёт заявку и привязывает к ней слот с той же датой и временем.
// Если слота нет, заявка всё равно создаётся, а слот не трогается.
func (s *BookingService) SubmitBooking(ctx context.Context, draft model.BookingDraft) (*model.InterviewBooking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Повторная отправка с тем же ключом возвращает исходную активную заявку.
	// Заявка, откатанная после сбоя записи слота, не мешает повтору.
	existing, err := s.bookingRepo.FindByIdempotencyKey(ctx, draft.IdempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("check idempotency key: %w", err)
	}
	if existing != nil && existing.IsActive() {
		s.logger.Info("Duplicate booking submission",
			zap.String("booking_id", existing.ID),
			zap.String("idempotency_key", draft.IdempotencyKey),
		)
		if err := s.bindOrphan(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	slot, err := s.slotRepo.Get(ctx, draft.PreferredDate, draft.PreferredTime)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}

	if slot != nil && slot.IsBooked {
		return nil, ErrSlotAlreadyBooked
	}

	// Активная заявка на это время могла появиться раньше слота
	holder, err := s.activeBookingAt(ctx, draft.PreferredDate, draft.PreferredTime)
	if err != nil {
		return nil, err
	}
	if holder != nil {
		s.logger.Info("Time already held by active booking",
			zap.String("booking_id", holder.ID),
			zap.String("date", draft.PreferredDate),
			zap.String("time", draft.PreferredTime),
		)
		return nil, ErrSlotAlreadyBooked
	}

	booking, err := s.bookingRepo.Append(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	if slot == nil {
		s.logger.Warn("No open slot for booking, slot update skipped",
			zap.String("booking_id", booking.ID),
			zap.String("date", booking.PreferredDate),
			zap.String("time", booking.PreferredTime),
		)
	} else {
		bound, err := s.slotRepo.MarkBooked(ctx, booking.PreferredDate, booking.PreferredTime, booking.ID)
		if err != nil {
			s.compensate(ctx, booking)
			return nil, fmt.Errorf("book slot: %w", err)
		}
		if !bound {
			s.logger.Warn("Slot disappeared before binding",
				zap.String("booking_id", booking.ID),
				zap.String("slot_id", slot.ID),
			)
		}
	}

	s.logger.Info("Interview booked",
		zap.String("booking_id", booking.ID),
		zap.String("date", booking.PreferredDate),
		zap.String("time", booking.PreferredTime),
		zap.String("topic", booking.ConsultationTopic),
	)

	s.publish(ctx, notify.Event{
		Type:      notify.EventInterviewBooked,
		BookingID: booking.ID,
		Name:      booking.ParentName,
		Date:      booking.PreferredDate,
		Time:      booking.PreferredTime,
		Topic:     booking.ConsultationTopic,
	})

	return booking, nil
}

// bindOrphan привязывает активную заявку к открытому свободному слоту с её датой и временем.
// Нужен, когда слот открыли после заявки или запись слота не прошла.
func (s *BookingService) bindOrphan(ctx context.Context, booking *model.InterviewBooking) error {
	slot, err := s.slotRepo.Get(ctx, booking.PreferredDate, booking.PreferredTime)
	if err != nil {
		return fmt.Errorf("get slot: %w", err)
	}

	if slot == nil || slot.IsBooked {
		return nil
	}

	if _, err := s.slotRepo.MarkBooked(ctx, booking.PreferredDate, booking.PreferredTime, booking.ID); err != nil {
		return fmt.Errorf("book slot: %w", err)
	}

	s.logger.Info("Slot bound to existing booking",
		zap.String("booking_id", booking.ID),
		zap.String("slot_id", slot.ID),
	)

	return nil
}

// activeBookingAt ищет активную заявку на дату и время
func (s *BookingService) activeBookingAt(ctx context.Context, date, clockLabel string) (*model.InterviewBooking, error) {
	bookings, err := s.bookingRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("check active bookings: %w", err)
	}

	for _, booking := range bookings {
		if booking.IsActive() && booking.PreferredDate == date && booking.PreferredTime == clockLabel {
			return booking, nil
		}
	}

	return nil, nil
}

// compensate отменяет только что созданную заявку, если слот записать не удалось
func (s *BookingService) compensate(ctx context.Context, booking *model.InterviewBooking) {
	if _, err := s.bookingRepo.SetStatus(ctx, booking.ID, model.BookingStatusCancelled); err != nil {
		s.logger.Error("Failed to roll back booking after slot write failure",
			zap.String("booking_id", booking.ID),
			zap.Error(err),
		)
		return
	}

	booking.Status = model.BookingStatusCancelled
	s.logger.Warn("Booking rolled back after slot write failure",
		zap.String("booking_id", booking.ID),
	)
}

// CancelBooking отменяет бронирование и освобождает привязанный слот.
// Текущий статус не проверяется; повторный вызов безопасен.
func (s *BookingService) CancelBooking(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookings, err := s.bookingRepo.SetStatus(ctx, id, model.BookingStatusCancelled)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}

	released, err := s.slotRepo.Release(ctx, id)
	if err != nil {
		return fmt.Errorf("release slot: %w", err)
	}

	booking := findBooking(bookings, id)
	if booking == nil {
		s.logger.Warn("Cancel requested for unknown booking",
			zap.String("booking_id", id),
			zap.Bool("slot_released", released),
		)
		return nil
	}

	if !released {
		s.logger.Warn("No slot bound to cancelled booking", zap.String("booking_id", id))
	}

	s.logger.Info("Booking cancelled",
		zap.String("booking_id", id),
		zap.Bool("slot_released", released),
	)

	s.publish(ctx, notify.Event{
		Type:      notify.EventInterviewCancelled,
		BookingID: id,
		Name:      booking.ParentName,
		Date:      booking.PreferredDate,
		Time:      booking.PreferredTime,
	})

	return nil
}

// ConfirmBooking подтверждает заявку (действие сотрудника).
// Отменённую заявку подтвердить нельзя: такой вызов ничего не меняет.
func (s *BookingService) ConfirmBooking(ctx context.Context, id string) (*model.InterviewBooking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}

	if booking == nil || !booking.IsActive() {
		return booking, nil
	}

	bookings, err := s.bookingRepo.SetStatus(ctx, id, model.BookingStatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}
	booking = findBooking(bookings, id)

	s.logger.Info("Booking confirmed", zap.String("booking_id", id))

	s.publish(ctx, notify.Event{
		Type:      notify.EventInterviewConfirmed,
		BookingID: id,
		Name:      booking.ParentName,
		Date:      booking.PreferredDate,
		Time:      booking.PreferredTime,
	})

	return booking, nil
}

// OpenDates возвращает отсортированные даты, на которые есть свободные слоты
func (s *BookingService) OpenDates(ctx context.Context) ([]string, error) {
	slots, err := s.ListSlots(ctx)
	if err != nil {
		return nil, err
	}

	return distinctDates(slots, func(slot *model.InterviewSlot) bool { return slot.IsOpen() }), nil
}

// SlotDates возвращает даты, на которые есть хоть какой-то слот
func (s *BookingService) SlotDates(ctx context.Context) ([]string, error) {
	slots, err := s.ListSlots(ctx)
	if err != nil {
		return nil, err
	}

	return distinctDates(slots, func(*model.InterviewSlot) bool { return true }), nil
}

// AvailableTimes возвращает свободное время на дату по возрастанию
func (s *BookingService) AvailableTimes(ctx context.Context, date string) ([]string, error) {
	slots, err := s.ListSlots(ctx)
	if err != nil {
		return nil, err
	}

	times := []string{}
	for _, slot := range slots {
		if slot.Date == date && slot.IsOpen() {
			times = append(times, slot.Time)
		}
	}
	sort.Strings(times)

	return times, nil
}

// UpcomingBookings возвращает активные бронирования на дату, по времени
func (s *BookingService) UpcomingBookings(ctx context.Context, date string) ([]*model.InterviewBooking, error) {
	bookings, err := s.ListBookings(ctx)
	if err != nil {
		return nil, err
	}

	var result []*model.InterviewBooking
	for _, booking := range bookings {
		if booking.PreferredDate == date && booking.IsActive() {
			result = append(result, booking)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].PreferredTime < result[j].PreferredTime
	})

	return result, nil
}

// BookingsByParent возвращает бронирования родителя, новые первыми
func (s *BookingService) BookingsByParent(ctx context.Context, parentID string) ([]*model.InterviewBooking, error) {
	bookings, err := s.ListBookings(ctx)
	if err != nil {
		return nil, err
	}

	var result []*model.InterviewBooking
	for _, booking := range bookings {
		if booking.ParentID == parentID {
			result = append(result, booking)
		}
	}

	return result, nil
}

// publish отправляет уведомление, ошибки только логируются
func (s *BookingService) publish(ctx context.Context, event notify.Event) {
	event.OccurredAt = s.clock.Now()
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish notification",
			zap.String("type", string(event.Type)),
			zap.Error(err),
		)
	}
}

func findBooking(bookings []*model.InterviewBooking, id string) *model.InterviewBooking {
	for _, booking := range bookings {
		if booking.ID == id {
			return booking
		}
	}
	return nil
}

func distinctDates(slots []*model.InterviewSlot, keep func(*model.InterviewSlot) bool) []string {
	seen := make(map[string]struct{})
	dates := []string{}
	for _, slot := range slots {
		if !keep(slot) {
			continue
		}
		if _, ok := seen[slot.Date]; ok {
			continue
		}
		seen[slot.Date] = struct{}{}
		dates = append(dates, slot.Date)
	}
	sort.Strings(dates)
	return dates
}
