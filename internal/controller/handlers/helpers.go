package handlers

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-telegram/bot/models"
	"github.com/tanqtrail-arch/Absence/internal/model"
)

// BookingStatusDisplay содержит emoji и текст для отображения статуса
type BookingStatusDisplay struct {
	Emoji string
	Text  string
}

// GetBookingStatusDisplay возвращает emoji и текст для статуса бронирования
func GetBookingStatusDisplay(status model.BookingStatus) BookingStatusDisplay {
	switch status {
	case model.BookingStatusPending:
		return BookingStatusDisplay{Emoji: "⏳", Text: "確認待ち"}
	case model.BookingStatusConfirmed:
		return BookingStatusDisplay{Emoji: "✅", Text: "確定"}
	case model.BookingStatusCancelled:
		return BookingStatusDisplay{Emoji: "❌", Text: "キャンセル"}
	default:
		return BookingStatusDisplay{Emoji: "❔", Text: string(status)}
	}
}

// FormatBooking форматирует бронирование для отображения
func FormatBooking(booking *model.InterviewBooking) string {
	display := GetBookingStatusDisplay(booking.Status)

	text := fmt.Sprintf(
		"%s %s %s\n"+
			"👤 %s\n"+
			"💬 %s\n"+
			"📊 %s\n"+
			"🆔 %s",
		display.Emoji,
		booking.PreferredDate,
		booking.PreferredTime,
		booking.ParentName,
		booking.ConsultationTopic,
		display.Text,
		booking.ID,
	)
	if booking.Message != "" {
		text += "\n📝 " + booking.Message
	}
	return text
}

// FormatSlots группирует слоты по датам: "2026-04-10: 11:00, 11:30 (予約済)"
func FormatSlots(slots []*model.InterviewSlot) string {
	if len(slots) == 0 {
		return "面談枠はまだありません。"
	}

	var (
		lines []string
		date  string
		times []string
	)
	flush := func() {
		if date != "" {
			lines = append(lines, fmt.Sprintf("📅 %s: %s", date, strings.Join(times, ", ")))
		}
	}
	for _, slot := range sortedSlots(slots) {
		if slot.Date != date {
			flush()
			date, times = slot.Date, nil
		}
		label := slot.Time
		if slot.IsBooked {
			label += " (予約済)"
		}
		times = append(times, label)
	}
	flush()

	return strings.Join(lines, "\n")
}

func sortedSlots(slots []*model.InterviewSlot) []*model.InterviewSlot {
	out := append([]*model.InterviewSlot(nil), slots...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out
}

// commandArgs возвращает аргументы команды: "/toggle 2026-04-10 11:00" -> [2026-04-10 11:00]
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) <= 1 {
		return nil
	}
	return fields[1:]
}

// parseAbsent разбирает "/absent <YYYY-MM-DD> [причина...]"
func parseAbsent(text string) (date, reason string, err error) {
	args := commandArgs(text)
	if len(args) == 0 {
		return "", "", fmt.Errorf("date is required")
	}
	if !model.IsValidDate(args[0]) {
		return "", "", fmt.Errorf("invalid date %q", args[0])
	}
	return args[0], strings.Join(args[1:], " "), nil
}

// parentID идентификатор родителя в бронированиях, созданных через бота
func parentID(telegramID int64) string {
	return "tg:" + strconv.FormatInt(telegramID, 10)
}

// telegramProfile отдаёт профиль отправителя сообщения
type telegramProfile struct {
	user *models.User
}

func (p telegramProfile) Profile(context.Context) (*model.Profile, error) {
	if p.user == nil {
		return nil, nil
	}
	name := strings.TrimSpace(p.user.LastName + " " + p.user.FirstName)
	if name == "" {
		name = p.user.Username
	}
	return &model.Profile{DisplayName: name, UserID: parentID(p.user.ID)}, nil
}
