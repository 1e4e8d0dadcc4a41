package telegram

import (
	"log/slog"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"reportbot/core/logger"
	tgcore "reportbot/core/telegram"
	"reportbot/core/telegram/callbacks"
	"reportbot/core/telegram/commands"
	tghelpers "reportbot/core/telegram/helpers"
	"reportbot/internal/i18n"
	"reportbot/internal/report"
)

// Callback action keys carried in inline button data.
const (
	actionLanguage = "lang"
	actionChannel  = "ch"
	actionSubmit   = "submit"
)

// Adapter routes Telebot updates into the report state machine.
type Adapter struct {
	machine *report.Machine
}

func NewAdapter(machine *report.Machine) *Adapter {
	return &Adapter{machine: machine}
}

// Register wires commands and callbacks into the registry.
func (a *Adapter) Register(reg *tgcore.Registry) error {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.onStart,
		Description: "Start a new report",
	})
	for key, handler := range map[string]tele.HandlerFunc{
		actionLanguage: a.onLanguage,
		actionChannel:  a.onChannel,
		actionSubmit:   a.onSubmit,
	} {
		if err := reg.RegisterCallback(key, handler); err != nil {
			return err
		}
	}
	return nil
}

// Routes binds the non-command endpoints.
func (a *Adapter) Routes(reg *tgcore.Registry) []tgcore.Route {
	return []tgcore.Route{
		{Endpoint: tele.OnText, Handler: a.onText},
		{Endpoint: tele.OnPhoto, Handler: a.onAttachment},
		{Endpoint: tele.OnDocument, Handler: a.onAttachment},
		{Endpoint: tele.OnCallback, Handler: a.dispatchCallback(reg)},
	}
}

func (a *Adapter) onStart(c tele.Context) error {
	return a.handle(c, "start", report.Start{})
}

func (a *Adapter) onText(c tele.Context) error {
	return a.handle(c, "text", report.PlainText{Text: c.Text()})
}

func (a *Adapter) onAttachment(c tele.Context) error {
	msg := c.Message()
	if msg == nil {
		return nil
	}
	fileID := attachmentFileID(msg)
	if fileID == "" {
		return nil
	}
	return a.handle(c, "attachment", report.AttachmentReceived{
		FileID:  fileID,
		Caption: msg.Caption,
	})
}

func (a *Adapter) onLanguage(c tele.Context) error {
	lang := i18n.Language(callbacks.CallbackPayload(c))
	return a.handle(c, "language", report.LanguageChosen{Language: lang})
}

func (a *Adapter) onChannel(c tele.Context) error {
	return a.handle(c, "channel", report.ChannelToggled{Channel: callbacks.CallbackPayload(c)})
}

func (a *Adapter) onSubmit(c tele.Context) error {
	return a.handle(c, "submit", report.SubmitRequested{})
}

// dispatchCallback resolves the action key and hands off to the registered
// handler. Unknown keys get the registry's fallback answer.
func (a *Adapter) dispatchCallback(reg *tgcore.Registry) tele.HandlerFunc {
	return func(c tele.Context) error {
		key := callbacks.CallbackKey(c)
		if handler, ok := reg.GetCallback(key); ok {
			err := handler(c)
			// Clear the client-side loading state if the handler did not.
			_ = c.Respond(&tele.CallbackResponse{})
			return err
		}
		ctx := tghelpers.BuildContext(c)
		logger.Warn(ctx, "tg", "callback.unknown", slog.String("cb_key", logger.SanitizeLimit(key, 64)))
		return reg.CallbackNotFound()(c)
	}
}

func (a *Adapter) handle(c tele.Context, name string, ev report.Event) error {
	ctx := tghelpers.WithHandler(c, name)
	meta := buildMeta(c)

	start := time.Now()
	err := a.machine.Handle(ctx, meta, ev)
	logger.Debug(ctx, "tg", "handler.done",
		slog.String("status", logger.Status(err)),
		slog.Duration("duration", logger.Took(start)),
	)
	if err != nil {
		logger.Error(ctx, "tg", "handler.failed",
			slog.String("handler", name),
			slog.String("err", err.Error()),
		)
	}
	return err
}

func buildMeta(c tele.Context) report.Meta {
	meta := report.Meta{Submitter: displayName(c.Sender())}
	if chat := c.Chat(); chat != nil {
		meta.ChatID = chat.ID
	}
	if msg := c.Message(); msg != nil {
		meta.MessageID = msg.ID
	}
	if cb := c.Callback(); cb != nil {
		meta.CallbackID = cb.ID
	}
	return meta
}

// attachmentFileID picks the file id of the incoming media. Telebot exposes
// the largest photo size directly on the message.
func attachmentFileID(msg *tele.Message) string {
	switch {
	case msg.Photo != nil:
		return msg.Photo.FileID
	case msg.Document != nil:
		return msg.Document.FileID
	}
	return ""
}

func displayName(u *tele.User) string {
	if u == nil {
		return ""
	}
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name != "" {
		return name
	}
	return u.Username
}
