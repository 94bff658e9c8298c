package handlers

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"github.com/tanqtrail-arch/Absence/internal/controller/keyboard"
	"github.com/tanqtrail-arch/Absence/internal/controller/state"
	"github.com/tanqtrail-arch/Absence/internal/model"
	"go.uber.org/zap"
)

// Ограничения полей заявки
const (
	ParentNameMaxLength = 100
	FreeTextMaxLength   = 2000

	// skipInput пропускает необязательный шаг диалога
	skipInput = "-"
)

// HandleSlots обрабатывает /slots: родителю свободные времена, сотруднику все слоты
func (h *Handlers) HandleSlots(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	if h.isStaffMessage(update) {
		slots, err := h.bookingService.ListSlots(ctx)
		if err != nil {
			h.replyServiceError(ctx, b, chatID, err)
			return
		}
		h.sendMessage(ctx, b, chatID, "🗓 面談枠一覧\n\n"+FormatSlots(slots))
		return
	}

	dates, err := h.bookingService.OpenDates(ctx)
	if err != nil {
		h.replyServiceError(ctx, b, chatID, err)
		return
	}
	if len(dates) == 0 {
		h.sendMessage(ctx, b, chatID, "現在予約できる面談枠はありません。")
		return
	}

	lines := make([]string, 0, len(dates))
	for _, date := range dates {
		times, err := h.bookingService.AvailableTimes(ctx, date)
		if err != nil {
			h.replyServiceError(ctx, b, chatID, err)
			return
		}
		lines = append(lines, fmt.Sprintf("📅 %s: %s", date, strings.Join(times, ", ")))
	}

	h.sendMessage(ctx, b, chatID, "🗓 予約できる面談枠\n\n"+strings.Join(lines, "\n")+"\n\n予約は /book から")
}

// HandleBookStart начинает диалог записи на собеседование
func (h *Handlers) HandleBookStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID
	telegramID := update.Message.From.ID

	dates, err := h.bookingService.OpenDates(ctx)
	if err != nil {
		h.replyServiceError(ctx, b, chatID, err)
		return
	}
	if len(dates) == 0 {
		h.sendMessage(ctx, b, chatID, "現在予約できる面談枠はありません。")
		return
	}

	// Ключ идемпотентности живёт столько же, сколько диалог
	h.stateManager.ClearState(telegramID)
	h.stateManager.SetState(telegramID, state.StateBookDate)
	h.stateManager.SetData(telegramID, state.KeyIdempotency, uuid.NewString())

	h.logger.Info("Booking dialog started", zap.Int64("telegram_id", telegramID))

	h.sendWithKeyboard(ctx, b, chatID,
		"📅 面談のご予約\n\nステップ 1/5: 希望日を選んでください。\n\n中止は /cancel",
		keyboard.Choices(CallbackBookDate, dates, 3))
}

// chooseDate принимает дату из кнопки или текста
func (h *Handlers) chooseDate(ctx context.Context, b *bot.Bot, chatID, telegramID int64, date string) {
	if !model.IsValidDate(date) {
		h.sendError(ctx, b, chatID, "❌ 日付は YYYY-MM-DD 形式で入力してください。")
		return
	}

	times, err := h.bookingService.AvailableTimes(ctx, date)
	if err != nil {
		h.replyServiceError(ctx, b, chatID, err)
		return
	}
	if len(times) == 0 {
		h.sendError(ctx, b, chatID, "❌ この日に空いている枠はありません。別の日を選んでください。")
		return
	}

	h.stateManager.SetData(telegramID, state.KeyDate, date)
	h.stateManager.SetState(telegramID, state.StateBookTime)

	h.sendWithKeyboard(ctx, b, chatID,
		fmt.Sprintf("✅ 希望日: %s\n\nステップ 2/5: 時間を選んでください。", date),
		keyboard.Choices(CallbackBookTime, times, 4))
}

// chooseTime принимает время; слот должен быть свободен на выбранную дату
func (h *Handlers) chooseTime(ctx context.Context, b *bot.Bot, chatID, telegramID int64, clock string) {
	date, ok := h.stateManager.GetData(telegramID, state.KeyDate)
	if !ok {
		h.restartDialog(ctx, b, chatID, telegramID)
		return
	}

	times, err := h.bookingService.AvailableTimes(ctx, date)
	if err != nil {
		h.replyServiceError(ctx, b, chatID, err)
		return
	}
	if !contains(times, clock) {
		h.sendError(ctx, b, chatID, "❌ この時間は選べません。表示された時間から選んでください。")
		return
	}

	h.stateManager.SetData(telegramID, state.KeyTime, clock)
	h.stateManager.SetState(telegramID, state.StateBookName)

	h.sendMessage(ctx, b, chatID,
		fmt.Sprintf("✅ %s %s\n\nステップ 3/5: 保護者のお名前を入力してください。", date, clock))
}

func (h *Handlers) handleBookName(ctx context.Context, b *bot.Bot, chatID, telegramID int64, name string) {
	if name == "" || utf8.RuneCountInString(name) > ParentNameMaxLength {
		h.sendError(ctx, b, chatID,
			fmt.Sprintf("❌ お名前は1〜%d文字で入力してください。", ParentNameMaxLength))
		return
	}

	h.stateManager.SetData(telegramID, state.KeyParentName, name)
	h.stateManager.SetState(telegramID, state.StateBookTopic)

	h.sendWithKeyboard(ctx, b, chatID,
		"ステップ 4/5: ご相談内容を選んでください。",
		keyboard.Choices(CallbackBookTopic, model.ConsultationTopics, 1))
}

func (h *Handlers) chooseTopic(ctx context.Context, b *bot.Bot, chatID, telegramID int64, topic string) {
	if !contains(model.ConsultationTopics, topic) {
		h.sendError(ctx, b, chatID, "❌ ボタンからご相談内容を選んでください。")
		return
	}

	h.stateManager.SetData(telegramID, state.KeyTopic, topic)
	h.stateManager.SetState(telegramID, state.StateBookChildGrowth)

	h.sendMessage(ctx, b, chatID,
		fmt.Sprintf("✅ ご相談内容: %s\n\nお子さまの最近の様子を教えてください（任意）。\n省略する場合は「%s」を送ってください。", topic, skipInput))
}

func (h *Handlers) handleBookChildGrowth(ctx context.Context, b *bot.Bot, chatID, telegramID int64, text string) {
	text, ok := optionalInput(text)
	if !ok {
		h.sendError(ctx, b, chatID, fmt.Sprintf("❌ %d文字以内で入力してください。", FreeTextMaxLength))
		return
	}

	h.stateManager.SetData(telegramID, state.KeyChildGrowth, text)
	h.stateManager.SetState(telegramID, state.StateBookMessage)

	h.sendMessage(ctx, b, chatID,
		fmt.Sprintf("ステップ 5/5: 事前に伝えたいことがあれば入力してください（任意）。\n省略する場合は「%s」を送ってください。", skipInput))
}

// handleBookMessage последний шаг: заявка отправляется в планировщик
func (h *Handlers) handleBookMessage(ctx context.Context, b *bot.Bot, chatID int64, from *models.User, text string) {
	message, ok := optionalInput(text)
	if !ok {
		h.sendError(ctx, b, chatID, fmt.Sprintf("❌ %d文字以内で入力してください。", FreeTextMaxLength))
		return
	}

	data := h.stateManager.GetAllData(from.ID)
	draft, ok := draftFromDialog(data, message, parentID(from.ID))
	if !ok {
		h.restartDialog(ctx, b, chatID, from.ID)
		return
	}

	booking, err := h.bookingService.SubmitBooking(ctx, draft)
	h.stateManager.ClearState(from.ID)
	if err != nil {
		h.replyServiceError(ctx, b, chatID, err)
		return
	}

	h.logger.Info("Booking submitted via bot",
		zap.Int64("telegram_id", from.ID),
		zap.String("booking_id", booking.ID))

	h.sendMessage(ctx, b, chatID, "🎉 ご予約を受け付けました。スタッフの確認をお待ちください。\n\n"+FormatBooking(booking))
}

// HandleMyBookings показывает бронирования отправителя с кнопками отмены
func (h *Handlers) HandleMyBookings(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID

	bookings, err := h.bookingService.BookingsByParent(ctx, parentID(update.Message.From.ID))
	if err != nil {
		h.replyServiceError(ctx, b, chatID, err)
		return
	}
	if len(bookings) == 0 {
		h.sendMessage(ctx, b, chatID, "予約はまだありません。\n\n予約は /book から")
		return
	}

	for _, booking := range bookings {
		var markup *models.InlineKeyboardMarkup
		if booking.IsActive() {
			markup = keyboard.NewBuilder().
				Row(keyboard.Button("❌ キャンセル", CallbackCancelBooking+booking.ID)).
				Build()
		}
		h.sendWithKeyboard(ctx, b, chatID, FormatBooking(booking), markup)
	}
}

// HandleCancelBooking обрабатывает /cancelbooking <id>
func (h *Handlers) HandleCancelBooking(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ 使い方: /cancelbooking <予約ID>")
		return
	}

	h.cancelBooking(ctx, b, update.Message.Chat.ID, update.Message.From.ID, args[0])
}

// cancelBooking отменяет бронирование; родитель может отменить только своё
func (h *Handlers) cancelBooking(ctx context.Context, b *bot.Bot, chatID, telegramID int64, bookingID string) {
	booking, err := h.bookingService.GetByID(ctx, bookingID)
	if err != nil {
		h.replyServiceError(ctx, b, chatID, err)
		return
	}
	if booking == nil || (booking.ParentID != parentID(telegramID) && !h.isStaff(telegramID)) {
		h.sendError(ctx, b, chatID, "❌ 予約が見つかりません。")
		return
	}
	if !booking.IsActive() {
		h.sendMessage(ctx, b, chatID, "この予約はすでにキャンセルされています。")
		return
	}

	if err := h.bookingService.CancelBooking(ctx, bookingID); err != nil {
		h.replyServiceError(ctx, b, chatID, err)
		return
	}

	h.sendMessage(ctx, b, chatID,
		fmt.Sprintf("✅ %s %s の予約をキャンセルしました。", booking.PreferredDate, booking.PreferredTime))
}

func (h *Handlers) restartDialog(ctx context.Context, b *bot.Bot, chatID, telegramID int64) {
	h.logger.Warn("Booking dialog data missing", zap.Int64("telegram_id", telegramID))
	h.stateManager.ClearState(telegramID)
	h.sendError(ctx, b, chatID, "❌ 入力内容が見つかりません。/book からやり直してください。")
}

// draftFromDialog собирает заявку из данных диалога
func draftFromDialog(data map[string]string, message, parent string) (model.BookingDraft, bool) {
	draft := model.BookingDraft{
		ParentName:        data[state.KeyParentName],
		ParentID:          parent,
		ChildGrowth:       data[state.KeyChildGrowth],
		ConsultationTopic: data[state.KeyTopic],
		Message:           message,
		PreferredDate:     data[state.KeyDate],
		PreferredTime:     data[state.KeyTime],
		IdempotencyKey:    data[state.KeyIdempotency],
	}

	complete := draft.ParentName != "" && draft.ConsultationTopic != "" &&
		draft.PreferredDate != "" && draft.PreferredTime != ""
	return draft, complete
}

// optionalInput "-" означает пропуск; false при слишком длинном тексте
func optionalInput(text string) (string, bool) {
	if text == skipInput {
		return "", true
	}
	return text, utf8.RuneCountInString(text) <= FreeTextMaxLength
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
