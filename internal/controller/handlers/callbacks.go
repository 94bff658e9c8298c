package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/tanqtrail-arch/Absence/internal/controller/state"
	"go.uber.org/zap"
)

// Форматы callback data
const (
	CallbackBookDate       = "book_date:"       // book_date:2026-04-10
	CallbackBookTime       = "book_time:"       // book_time:11:00
	CallbackBookTopic      = "book_topic:"      // book_topic:学習相談
	CallbackCancelBooking  = "cancel_booking:"  // cancel_booking:<booking id>
	CallbackConfirmBooking = "confirm_booking:" // confirm_booking:<booking id>
)

// HandleCallbackQuery - главный обработчик нажатий на inline кнопки
func (h *Handlers) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	callback := update.CallbackQuery
	data := callback.Data
	telegramID := callback.From.ID
	chatID := callbackChatID(callback)

	h.logger.Debug("Callback received",
		zap.String("data", data),
		zap.Int64("telegram_id", telegramID))

	current := h.stateManager.GetState(telegramID)

	switch {
	case strings.HasPrefix(data, CallbackBookDate):
		if !h.expectState(ctx, b, callback, current, state.StateBookDate) {
			return
		}
		h.answerCallback(ctx, b, callback.ID, "", false)
		h.chooseDate(ctx, b, chatID, telegramID, strings.TrimPrefix(data, CallbackBookDate))

	case strings.HasPrefix(data, CallbackBookTime):
		if !h.expectState(ctx, b, callback, current, state.StateBookTime) {
			return
		}
		h.answerCallback(ctx, b, callback.ID, "", false)
		h.chooseTime(ctx, b, chatID, telegramID, strings.TrimPrefix(data, CallbackBookTime))

	case strings.HasPrefix(data, CallbackBookTopic):
		if !h.expectState(ctx, b, callback, current, state.StateBookTopic) {
			return
		}
		h.answerCallback(ctx, b, callback.ID, "", false)
		h.chooseTopic(ctx, b, chatID, telegramID, strings.TrimPrefix(data, CallbackBookTopic))

	case strings.HasPrefix(data, CallbackCancelBooking):
		h.answerCallback(ctx, b, callback.ID, "", false)
		h.cancelBooking(ctx, b, chatID, telegramID, strings.TrimPrefix(data, CallbackCancelBooking))

	case strings.HasPrefix(data, CallbackConfirmBooking):
		if !h.isStaff(telegramID) {
			h.answerCallback(ctx, b, callback.ID, "❌ スタッフ専用です", true)
			return
		}
		h.answerCallback(ctx, b, callback.ID, "", false)
		h.confirmBooking(ctx, b, chatID, strings.TrimPrefix(data, CallbackConfirmBooking))

	default:
		h.logger.Warn("Unknown callback", zap.String("data", data))
		h.answerCallback(ctx, b, callback.ID, "", false)
	}
}

// expectState отклоняет кнопки из устаревших сообщений диалога
func (h *Handlers) expectState(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, current, want state.UserState) bool {
	if current == want {
		return true
	}
	h.answerCallback(ctx, b, callback.ID, "この操作は期限切れです。/book からやり直してください。", true)
	return false
}

// callbackChatID чат сообщения с кнопкой; для недоступного сообщения личный чат пользователя
func callbackChatID(callback *models.CallbackQuery) int64 {
	if callback.Message.Message != nil {
		return callback.Message.Message.Chat.ID
	}
	return callback.From.ID
}
