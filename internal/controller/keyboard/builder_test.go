package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChoices_Grid(t *testing.T) {
	kb := Choices("book_time:", []string{"11:00", "11:30", "12:00", "12:30", "13:00"}, 2)

	require.Len(t, kb.InlineKeyboard, 3)
	assert.Len(t, kb.InlineKeyboard[0], 2)
	assert.Len(t, kb.InlineKeyboard[2], 1)
	assert.Equal(t, "book_time:13:00", kb.InlineKeyboard[2][0].CallbackData)
	assert.Equal(t, "13:00", kb.InlineKeyboard[2][0].Text)
}

func TestChoices_Empty(t *testing.T) {
	kb := Choices("x:", nil, 3)
	assert.Empty(t, kb.InlineKeyboard)
}
