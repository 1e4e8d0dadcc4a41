package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"reportbot/internal/report"
)

func TestAttachmentFileID(t *testing.T) {
	photo := &tele.Message{Photo: &tele.Photo{File: tele.File{FileID: "p1"}}}
	assert.Equal(t, "p1", attachmentFileID(photo))

	doc := &tele.Message{Document: &tele.Document{File: tele.File{FileID: "d1"}}}
	assert.Equal(t, "d1", attachmentFileID(doc))

	assert.Empty(t, attachmentFileID(&tele.Message{}))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Olena Shevchenko", displayName(&tele.User{FirstName: "Olena", LastName: "Shevchenko"}))
	assert.Equal(t, "Olena", displayName(&tele.User{FirstName: "Olena"}))
	assert.Equal(t, "osh", displayName(&tele.User{Username: "osh"}))
	assert.Empty(t, displayName(nil))
}

func TestToMarkupInline(t *testing.T) {
	markup := toMarkup(&report.Keyboard{Inline: [][]report.Button{
		{{Label: "Telegram", Action: "ch", Data: "Telegram"}},
		{{Label: "OK", Action: "submit"}},
	}})

	require.NotNil(t, markup)
	require.Len(t, markup.InlineKeyboard, 2)
	assert.Equal(t, "ch", markup.InlineKeyboard[0][0].Unique)
	assert.Equal(t, "Telegram", markup.InlineKeyboard[0][0].Data)
	assert.Equal(t, "submit", markup.InlineKeyboard[1][0].Unique)
}

func TestToMarkupReply(t *testing.T) {
	markup := toMarkup(&report.Keyboard{Reply: [][]string{{"✅ Готово"}}, OneTime: true})

	require.NotNil(t, markup)
	assert.True(t, markup.OneTimeKeyboard)
	require.Len(t, markup.ReplyKeyboard, 1)
	assert.Equal(t, "✅ Готово", markup.ReplyKeyboard[0][0].Text)
}

func TestToMarkupNil(t *testing.T) {
	assert.Nil(t, toMarkup(nil))
	assert.Nil(t, toMarkup(&report.Keyboard{}))
}
