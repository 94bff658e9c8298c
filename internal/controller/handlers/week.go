package handlers

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/tanqtrail-arch/Absence/internal/controller/weekimage"
	"github.com/tanqtrail-arch/Absence/internal/model"
	"go.uber.org/zap"
)

// HandleWeek обрабатывает /week [YYYY-MM-DD]: картинка недели календаря занятий
func (h *Handlers) HandleWeek(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	day, ok := h.weekDay(update.Message.Text)
	if !ok {
		h.sendError(ctx, b, chatID, "❌ 使い方: /week [YYYY-MM-DD]")
		return
	}

	events, err := h.calendarService.Events(ctx)
	if err != nil {
		h.replyServiceError(ctx, b, chatID, err)
		return
	}

	blocks := weekimage.EventBlocks(events, h.calendarService.Location())
	h.sendWeekImage(ctx, b, chatID, day, blocks, fmt.Sprintf("📆 %s の週の予定", day.Format(model.DateLayout)))
}

// HandleSlotWeek обрабатывает /slotweek [YYYY-MM-DD]: сетка слотов собеседований (для сотрудников)
func (h *Handlers) HandleSlotWeek(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireStaff(ctx, b, update) {
		return
	}
	chatID := update.Message.Chat.ID

	day, ok := h.weekDay(update.Message.Text)
	if !ok {
		h.sendError(ctx, b, chatID, "❌ 使い方: /slotweek [YYYY-MM-DD]")
		return
	}

	slots, err := h.bookingService.ListSlots(ctx)
	if err != nil {
		h.replyServiceError(ctx, b, chatID, err)
		return
	}

	bookings, err := h.bookingService.ListBookings(ctx)
	if err != nil {
		h.replyServiceError(ctx, b, chatID, err)
		return
	}

	names := make(map[string]string, len(bookings))
	for _, booking := range bookings {
		if booking.IsActive() {
			names[booking.ID] = booking.ParentName
		}
	}

	blocks := weekimage.SlotBlocks(slots, names, h.calendarService.Location())
	h.sendWeekImage(ctx, b, chatID, day, blocks, fmt.Sprintf("🗓 %s の週の面談枠", day.Format(model.DateLayout)))
}

// weekDay день из аргумента команды, без аргумента сегодня
func (h *Handlers) weekDay(text string) (time.Time, bool) {
	loc := h.calendarService.Location()

	args := commandArgs(text)
	if len(args) == 0 {
		return h.calendarService.Now().In(loc), true
	}

	day, err := time.ParseInLocation(model.DateLayout, args[0], loc)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

func (h *Handlers) sendWeekImage(ctx context.Context, b *bot.Bot, chatID int64, day time.Time, blocks []weekimage.Block, caption string) {
	if h.weekImage == nil {
		h.sendError(ctx, b, chatID, "❌ 週間予定表は利用できません。")
		return
	}

	imageData, err := h.weekImage.Render(day, h.calendarService.Now(), blocks)
	if err != nil {
		h.logger.Error("Failed to render week image", zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ 画像の作成に失敗しました。")
		return
	}

	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:  chatID,
		Photo:   &models.InputFileUpload{Filename: "week.png", Data: bytes.NewReader(imageData)},
		Caption: caption,
	})
	if err != nil {
		h.logger.Error("Failed to send week image",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}
