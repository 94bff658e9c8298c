package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/tanqtrail-arch/Absence/internal/controller/state"
	"go.uber.org/zap"
)

const parentHelp = "利用できるコマンド:\n" +
	"/slots - 面談の空き枠を見る\n" +
	"/book - 面談を予約する\n" +
	"/mybookings - 自分の予約を見る\n" +
	"/cancelbooking <ID> - 予約をキャンセルする\n" +
	"/calendar [YYYY-MM-DD] - 授業予定を見る\n" +
	"/week [YYYY-MM-DD] - 週間予定表（画像）\n" +
	"/absent <YYYY-MM-DD> [理由] - 欠席連絡を送る\n" +
	"/cancel - 入力中の操作をやめる\n" +
	"/help - このヘルプ"

const staffHelp = "\n\nスタッフ用:\n" +
	"/toggle <YYYY-MM-DD> <HH:MM> - 面談枠の追加・削除\n" +
	"/bookings - 予約一覧\n" +
	"/confirm <ID> - 予約を確定する\n" +
	"/slotweek [YYYY-MM-DD] - 面談枠の週間表（画像）"

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	profile := h.userService.Lookup(ctx, telegramProfile{user: update.Message.From})

	h.logger.Info("User started bot",
		zap.String("user_id", profile.UserID),
		zap.Bool("staff", h.isStaffMessage(update)))

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"👋 "+profile.DisplayName+" さん、こんにちは！\n\n"+
			"面談の予約と欠席連絡ができます。\n\n"+h.helpText(update))
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, "📚 "+h.helpText(update))
}

func (h *Handlers) helpText(update *models.Update) string {
	if h.isStaffMessage(update) {
		return parentHelp + staffHelp
	}
	return parentHelp
}

func (h *Handlers) isStaffMessage(update *models.Update) bool {
	return update.Message != nil && update.Message.From != nil && h.isStaff(update.Message.From.ID)
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	telegramID := update.Message.From.ID
	if h.stateManager.GetState(telegramID) == state.StateNone {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ キャンセルする操作はありません。")
		return
	}

	h.stateManager.ClearState(telegramID)

	h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ 操作をキャンセルしました。\n\n/help でコマンド一覧を表示します。")
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния пользователя
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
		return
	}

	// Команды обрабатываются другими handlers
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)
	currentState := h.stateManager.GetState(telegramID)

	h.logger.Debug("HandleTextMessage called",
		zap.Int64("telegram_id", telegramID),
		zap.String("state", string(currentState)))

	switch currentState {
	case state.StateNone:
		return
	case state.StateBookDate:
		h.chooseDate(ctx, b, chatID, telegramID, text)
	case state.StateBookTime:
		h.chooseTime(ctx, b, chatID, telegramID, text)
	case state.StateBookName:
		h.handleBookName(ctx, b, chatID, telegramID, text)
	case state.StateBookTopic:
		h.chooseTopic(ctx, b, chatID, telegramID, text)
	case state.StateBookChildGrowth:
		h.handleBookChildGrowth(ctx, b, chatID, telegramID, text)
	case state.StateBookMessage:
		h.handleBookMessage(ctx, b, chatID, update.Message.From, text)
	case state.StateAbsentReason:
		h.handleAbsentReason(ctx, b, chatID, update.Message.From, text)
	default:
		h.logger.Warn("Unknown state", zap.String("state", string(currentState)))
		h.stateManager.ClearState(telegramID)
	}
}
