package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/tanqtrail-arch/Absence/internal/controller/keyboard"
	"github.com/tanqtrail-arch/Absence/internal/model"
	"go.uber.org/zap"
)

// StaffBookingsLimit сколько последних заявок показывает /bookings
const StaffBookingsLimit = 20

// HandleToggleSlot обрабатывает /toggle <date> <time> (сотрудник)
func (h *Handlers) HandleToggleSlot(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireStaff(ctx, b, update) {
		return
	}
	chatID := update.Message.Chat.ID

	args := commandArgs(update.Message.Text)
	if len(args) != 2 || !model.IsValidDate(args[0]) || !model.IsValidSlotTime(args[1]) {
		h.sendError(ctx, b, chatID,
			"❌ 使い方: /toggle <YYYY-MM-DD> <HH:MM>\n時間は 11:00〜20:30 の30分刻みです。")
		return
	}

	slots, err := h.bookingService.ToggleSlot(ctx, args[0], args[1])
	if err != nil {
		h.replyServiceError(ctx, b, chatID, err)
		return
	}

	h.logger.Info("Slot toggled via bot",
		zap.Int64("telegram_id", update.Message.From.ID),
		zap.String("date", args[0]),
		zap.String("time", args[1]))

	h.sendMessage(ctx, b, chatID, "✅ 面談枠を更新しました。\n\n"+FormatSlots(slots))
}

// HandleAllBookings обрабатывает /bookings (сотрудник)
func (h *Handlers) HandleAllBookings(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireStaff(ctx, b, update) {
		return
	}
	chatID := update.Message.Chat.ID

	bookings, err := h.bookingService.ListBookings(ctx)
	if err != nil {
		h.replyServiceError(ctx, b, chatID, err)
		return
	}
	if len(bookings) == 0 {
		h.sendMessage(ctx, b, chatID, "予約はまだありません。")
		return
	}
	if len(bookings) > StaffBookingsLimit {
		bookings = bookings[:StaffBookingsLimit]
	}

	for _, booking := range bookings {
		var markup *models.InlineKeyboardMarkup
		if booking.Status == model.BookingStatusPending {
			markup = keyboard.NewBuilder().
				Row(
					keyboard.Button("✅ 確定", CallbackConfirmBooking+booking.ID),
					keyboard.Button("❌ キャンセル", CallbackCancelBooking+booking.ID),
				).
				Build()
		}
		h.sendWithKeyboard(ctx, b, chatID, FormatBooking(booking), markup)
	}
}

// HandleConfirm обрабатывает /confirm <id> (сотрудник)
func (h *Handlers) HandleConfirm(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireStaff(ctx, b, update) {
		return
	}

	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ 使い方: /confirm <予約ID>")
		return
	}

	h.confirmBooking(ctx, b, update.Message.Chat.ID, args[0])
}

func (h *Handlers) confirmBooking(ctx context.Context, b *bot.Bot, chatID int64, bookingID string) {
	booking, err := h.bookingService.ConfirmBooking(ctx, bookingID)
	if err != nil {
		h.replyServiceError(ctx, b, chatID, err)
		return
	}
	if booking == nil {
		h.sendError(ctx, b, chatID, "❌ 予約が見つかりません。")
		return
	}
	if booking.Status != model.BookingStatusConfirmed {
		h.sendError(ctx, b, chatID, "❌ キャンセル済みの予約は確定できません。")
		return
	}

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ 予約を確定しました。\n\n%s", FormatBooking(booking)))
}
