package notify

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
)

// TelegramPublisher пишет события в служебный чат сотрудников
type TelegramPublisher struct {
	bot    *bot.Bot
	chatID int64
}

func NewTelegramPublisher(b *bot.Bot, chatID int64) *TelegramPublisher {
	return &TelegramPublisher{bot: b, chatID: chatID}
}

func (p *TelegramPublisher) Publish(ctx context.Context, event Event) error {
	_, err := p.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: p.chatID,
		Text:   FormatEvent(event),
	})
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// FormatEvent renders an event as a short staff-facing message.
func FormatEvent(event Event) string {
	switch event.Type {
	case EventInterviewBooked:
		return fmt.Sprintf("📅 新しい面談予約\n%s %s\n%s さん\n相談内容: %s",
			event.Date, event.Time, event.Name, event.Topic)
	case EventInterviewCancelled:
		return fmt.Sprintf("❌ 面談予約がキャンセルされました\n%s %s\n%s さん",
			event.Date, event.Time, event.Name)
	case EventInterviewConfirmed:
		return fmt.Sprintf("✅ 面談予約を確定しました\n%s %s\n%s さん",
			event.Date, event.Time, event.Name)
	case EventInterviewDigest:
		return fmt.Sprintf("🗓 %s の面談予定\n%s", event.Date, event.Text)
	case EventAttendanceReported:
		return fmt.Sprintf("📝 欠席連絡\n%s さん (%s)\n%s", event.Name, event.Date, event.Text)
	default:
		return string(event.Type)
	}
}
