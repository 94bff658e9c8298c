// Package drafting composes polite absence messages for teachers.
// Composition never fails: any backend problem yields FallbackMessage.
package drafting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// FallbackMessage is returned whenever generation is unavailable.
const FallbackMessage = "体調不良のため、本日の授業を欠席させていただきます。何卒よろしくお願い申し上げます。"

// DefaultTimeout bounds a single generation call.
const DefaultTimeout = 15 * time.Second

// Composer drafts the body of an absence message.
type Composer interface {
	Compose(ctx context.Context, reason, subjectTitle, date string) string
}

// Generator is a text-generation backend.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Fallback always returns FallbackMessage.
type Fallback struct{}

func (Fallback) Compose(context.Context, string, string, string) string {
	return FallbackMessage
}

// GeneratorComposer черновик через генератор текста с откатом на FallbackMessage
type GeneratorComposer struct {
	gen     Generator
	timeout time.Duration
	logger  *zap.Logger
}

func NewGeneratorComposer(gen Generator, logger *zap.Logger) *GeneratorComposer {
	return &GeneratorComposer{
		gen:     gen,
		timeout: DefaultTimeout,
		logger:  logger,
	}
}

// Compose возвращает сгенерированный текст или FallbackMessage
func (c *GeneratorComposer) Compose(ctx context.Context, reason, subjectTitle, date string) string {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	text, err := c.gen.Generate(ctx, BuildPrompt(reason, subjectTitle, date))
	if err != nil {
		c.logger.Warn("Message generation failed, using fallback", zap.Error(err))
		return FallbackMessage
	}

	text = strings.TrimSpace(text)
	if text == "" {
		c.logger.Warn("Message generation returned empty text, using fallback")
		return FallbackMessage
	}

	return text
}

// BuildPrompt renders the generation prompt.
func BuildPrompt(reason, subjectTitle, date string) string {
	return fmt.Sprintf(`以下の情報をもとに、学校の先生へ送る丁寧な欠席連絡のメッセージ文を作成してください。

【欠席理由】: %s
【授業名】: %s
【日付】: %s

敬語（です・ます調）で、簡潔かつ誠実な文章を2〜3文で作成してください。
出力はメッセージ本文のみにしてください。`, reason, subjectTitle, date)
}

// FullDayTitle is the subject label used when no class is selected.
const FullDayTitle = "終日（全授業）"

// FormatNotice wraps a drafted body into the message sent to the school.
// eventTitle is empty for a full-day absence.
func FormatNotice(eventTitle, dateLabel, reason, body string) string {
	title := fmt.Sprintf("【授業名】%s", eventTitle)
	if eventTitle == "" {
		title = fmt.Sprintf("【欠席日】%s (終日)", dateLabel)
	}

	return fmt.Sprintf("[欠席連絡]\n%s\n【日付】%s\n【理由】%s\n\n%s\n\nよろしくお願いいたします。",
		title, dateLabel, reason, body)
}
