package drafting

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubGenerator struct {
	text   string
	err    error
	prompt string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return g.text, g.err
}

func TestGeneratorComposer_ReturnsGeneratedText(t *testing.T) {
	gen := &stubGenerator{text: "  本日は発熱のため欠席いたします。  "}
	c := NewGeneratorComposer(gen, zap.NewNop())

	text := c.Compose(context.Background(), "発熱", "探究ベーシック", "3月10日")
	assert.Equal(t, "本日は発熱のため欠席いたします。", text)
	assert.Contains(t, gen.prompt, "【欠席理由】: 発熱")
	assert.Contains(t, gen.prompt, "【授業名】: 探究ベーシック")
	assert.Contains(t, gen.prompt, "【日付】: 3月10日")
}

func TestGeneratorComposer_FallbackOnError(t *testing.T) {
	c := NewGeneratorComposer(&stubGenerator{err: errors.New("quota exceeded")}, zap.NewNop())
	assert.Equal(t, FallbackMessage, c.Compose(context.Background(), "発熱", "個別", "3月10日"))
}

func TestGeneratorComposer_FallbackOnEmpty(t *testing.T) {
	c := NewGeneratorComposer(&stubGenerator{text: "   "}, zap.NewNop())
	assert.Equal(t, FallbackMessage, c.Compose(context.Background(), "発熱", "個別", "3月10日"))
}

func TestFallback(t *testing.T) {
	assert.Equal(t, FallbackMessage, Fallback{}.Compose(context.Background(), "", "", ""))
}

func TestFormatNotice(t *testing.T) {
	withEvent := FormatNotice("探究ベーシック", "3月10日(火)", "体調不良", "欠席いたします。")
	assert.Contains(t, withEvent, "【授業名】探究ベーシック")
	assert.Contains(t, withEvent, "【理由】体調不良")

	fullDay := FormatNotice("", "3月10日(火)", "体調不良", "欠席いたします。")
	assert.Contains(t, fullDay, "【欠席日】3月10日(火) (終日)")
}
