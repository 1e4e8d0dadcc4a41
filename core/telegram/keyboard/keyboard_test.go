package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplyButtons(t *testing.T) {
	markup := ReplyButtons(true, []string{"A", "B"}, []string{"C"})

	assert.True(t, markup.ResizeKeyboard)
	assert.True(t, markup.OneTimeKeyboard)
	require.Len(t, markup.ReplyKeyboard, 2)
	assert.Equal(t, "A", markup.ReplyKeyboard[0][0].Text)
	assert.Equal(t, "C", markup.ReplyKeyboard[1][0].Text)
}

func TestInlineButtonsRows(t *testing.T) {
	markup := InlineButtonsRows(
		[]InlineBtn{{Text: "Telegram", Unique: "ch", Data: "Telegram"}},
		[]InlineBtn{{Text: "OK", Unique: "submit"}},
	)

	require.Len(t, markup.InlineKeyboard, 2)
	first := markup.InlineKeyboard[0][0]
	assert.Equal(t, "Telegram", first.Text)
	assert.Equal(t, "ch", first.Unique)
	assert.Equal(t, "Telegram", first.Data)
	assert.Equal(t, "submit", markup.InlineKeyboard[1][0].Unique)
	assert.Empty(t, markup.InlineKeyboard[1][0].Data)
}
