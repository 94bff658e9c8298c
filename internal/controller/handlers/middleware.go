package handlers

import (
	"context"
	"errors"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/tanqtrail-arch/Absence/internal/service"
	"github.com/tanqtrail-arch/Absence/internal/store"
	"go.uber.org/zap"
)

// requireStaff проверяет что команду отправил сотрудник
func (h *Handlers) requireStaff(ctx context.Context, b *bot.Bot, update *models.Update) bool {
	if update.Message == nil || update.Message.From == nil {
		return false
	}

	if !h.isStaff(update.Message.From.ID) {
		h.logger.Warn("Staff command from non-staff user",
			zap.Int64("telegram_id", update.Message.From.ID),
			zap.String("text", update.Message.Text))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ このコマンドはスタッフ専用です。")
		return false
	}

	return true
}

// replyServiceError переводит ошибку сервиса в понятное пользователю сообщение
func (h *Handlers) replyServiceError(ctx context.Context, b *bot.Bot, chatID int64, err error) {
	switch {
	case errors.Is(err, service.ErrSlotAlreadyBooked):
		h.sendError(ctx, b, chatID, "❌ この時間はすでに予約されています。別の時間をお選びください。")
	case errors.Is(err, store.ErrUnavailable):
		h.logger.Error("Store unavailable", zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ 現在システムが利用できません。しばらくしてから再度お試しください。")
	default:
		h.logger.Error("Service call failed", zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ エラーが発生しました。しばらくしてから再度お試しください。")
	}
}

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	h.sendWithKeyboard(ctx, b, chatID, text, nil)
}

// sendWithKeyboard отправляет сообщение с inline клавиатурой
func (h *Handlers) sendWithKeyboard(ctx context.Context, b *bot.Bot, chatID int64, text string, markup *models.InlineKeyboardMarkup) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}

	if _, err := b.SendMessage(ctx, params); err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// answerCallback отвечает на callback query, alert показывает всплывающее окно
func (h *Handlers) answerCallback(ctx context.Context, b *bot.Bot, callbackID, text string, alert bool) {
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       alert,
	})
	if err != nil {
		h.logger.Debug("Failed to answer callback", zap.Error(err))
	}
}
