// Package telegram adapts Telebot updates to report events and back.
package telegram

import (
	"context"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"reportbot/core/telegram/keyboard"
	"reportbot/internal/report"
)

// BotMessenger implements report.Messenger over a live Telebot instance.
type BotMessenger struct {
	bot *tele.Bot
}

func NewBotMessenger(bot *tele.Bot) *BotMessenger {
	return &BotMessenger{bot: bot}
}

func (m *BotMessenger) Send(_ context.Context, chatID int64, text string, kb *report.Keyboard) error {
	if markup := toMarkup(kb); markup != nil {
		_, err := m.bot.Send(tele.ChatID(chatID), text, markup)
		return err
	}
	_, err := m.bot.Send(tele.ChatID(chatID), text)
	return err
}

func (m *BotMessenger) Edit(_ context.Context, chatID int64, messageID int, text string) error {
	_, err := m.bot.Edit(storedMessage(chatID, messageID), text)
	return err
}

func (m *BotMessenger) EditKeyboard(_ context.Context, chatID int64, messageID int, kb *report.Keyboard) error {
	_, err := m.bot.EditReplyMarkup(storedMessage(chatID, messageID), toMarkup(kb))
	return err
}

func (m *BotMessenger) Notify(_ context.Context, callbackID, text string) error {
	return m.bot.Respond(&tele.Callback{ID: callbackID}, &tele.CallbackResponse{Text: text})
}

func (m *BotMessenger) FileLink(_ context.Context, fileID string) (string, error) {
	return m.bot.FileURLByID(fileID)
}

func storedMessage(chatID int64, messageID int) tele.Editable {
	return &tele.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chatID}
}

// toMarkup renders the transport-independent keyboard into Telebot markup.
func toMarkup(kb *report.Keyboard) *tele.ReplyMarkup {
	if kb == nil {
		return nil
	}
	if len(kb.Inline) > 0 {
		rows := make([][]keyboard.InlineBtn, len(kb.Inline))
		for i, row := range kb.Inline {
			r := make([]keyboard.InlineBtn, len(row))
			for j, btn := range row {
				r[j] = keyboard.InlineBtn{Text: btn.Label, Unique: btn.Action, Data: btn.Data}
			}
			rows[i] = r
		}
		return keyboard.InlineButtonsRows(rows...)
	}
	if len(kb.Reply) > 0 {
		return keyboard.ReplyButtons(kb.OneTime, kb.Reply...)
	}
	return nil
}
