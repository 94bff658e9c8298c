package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/tanqtrail-arch/Absence/internal/controller/state"
	"github.com/tanqtrail-arch/Absence/internal/drafting"
	"github.com/tanqtrail-arch/Absence/internal/model"
	"go.uber.org/zap"
)

// HandleAbsent обрабатывает /absent <YYYY-MM-DD> [причина].
// Без причины бот спрашивает её отдельным сообщением.
func (h *Handlers) HandleAbsent(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID
	telegramID := update.Message.From.ID

	date, reason, err := parseAbsent(update.Message.Text)
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ 使い方: /absent <YYYY-MM-DD> [理由]\n例: /absent 2026-04-10 発熱のため")
		return
	}

	if reason == "" {
		h.stateManager.ClearState(telegramID)
		h.stateManager.SetState(telegramID, state.StateAbsentReason)
		h.stateManager.SetData(telegramID, state.KeyDate, date)
		h.sendMessage(ctx, b, chatID, fmt.Sprintf("📝 %s の欠席理由を入力してください。\n\n中止は /cancel", date))
		return
	}

	h.submitAbsence(ctx, b, chatID, update.Message.From, date, reason)
}

func (h *Handlers) handleAbsentReason(ctx context.Context, b *bot.Bot, chatID int64, from *models.User, reason string) {
	date, ok := h.stateManager.GetData(from.ID, state.KeyDate)
	h.stateManager.ClearState(from.ID)
	if !ok {
		h.sendError(ctx, b, chatID, "❌ 入力内容が見つかりません。/absent からやり直してください。")
		return
	}

	h.submitAbsence(ctx, b, chatID, from, date, reason)
}

// submitAbsence сохраняет сообщение об отсутствии на весь день и показывает готовый текст
func (h *Handlers) submitAbsence(ctx context.Context, b *bot.Bot, chatID int64, from *models.User, date, reason string) {
	body := h.attendanceService.DraftMessage(ctx, reason, "", date)

	report, err := h.attendanceService.SubmitReport(ctx, model.ReportDraft{
		AbsenceDate: date,
		Reason:      reason,
		Message:     body,
	}, telegramProfile{user: from})
	if err != nil {
		h.replyServiceError(ctx, b, chatID, err)
		return
	}

	h.logger.Info("Absence reported via bot",
		zap.Int64("telegram_id", from.ID),
		zap.String("report_id", report.ID),
		zap.String("date", date))

	text := "✅ 欠席連絡を送信しました。\n\n" + drafting.FormatNotice("", date, reason, body)

	events, err := h.calendarService.EventsOn(ctx, date)
	if err != nil {
		h.logger.Warn("Failed to list events for absence", zap.Error(err))
	} else if titles := activeTitles(events); len(titles) > 0 {
		text += "\n\n対象の授業:\n・" + strings.Join(titles, "\n・")
	}

	h.sendMessage(ctx, b, chatID, text)
}

// HandleCalendar обрабатывает /calendar [YYYY-MM-DD]; без даты показывает сегодня
func (h *Handlers) HandleCalendar(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	args := commandArgs(update.Message.Text)
	date := ""
	switch {
	case len(args) == 0:
		date = h.calendarService.Today()
	case model.IsValidDate(args[0]):
		date = args[0]
	default:
		h.sendError(ctx, b, chatID, "❌ 使い方: /calendar [YYYY-MM-DD]")
		return
	}

	events, err := h.calendarService.EventsOn(ctx, date)
	if err != nil {
		h.replyServiceError(ctx, b, chatID, err)
		return
	}

	h.sendMessage(ctx, b, chatID, FormatEvents(date, events))
}

// FormatEvents форматирует события одного дня
func FormatEvents(date string, events []*model.CalendarEvent) string {
	if len(events) == 0 {
		return fmt.Sprintf("📅 %s の予定はありません。", date)
	}

	lines := []string{fmt.Sprintf("📅 %s の予定", date)}
	for _, e := range events {
		line := fmt.Sprintf("%s〜%s %s", e.StartAt.Format(model.TimeLayout), e.EndAt.Format(model.TimeLayout), e.Title)
		if e.IsCancelled {
			line += " (休講"
			if e.CancelReason != "" {
				line += ": " + e.CancelReason
			}
			line += ")"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func activeTitles(events []*model.CalendarEvent) []string {
	var titles []string
	for _, e := range events {
		if !e.IsCancelled {
			titles = append(titles, e.Title)
		}
	}
	return titles
}
