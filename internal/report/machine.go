package report

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"reportbot/core/logger"
	"reportbot/internal/channels"
	"reportbot/internal/i18n"
)

const channelsPerRow = 2

// Options tune machine policies.
type Options struct {
	// KeepSessionOnFailure preserves the session after a failed submit so
	// the user can fix the selection and retry. Default is deletion on any
	// submit outcome.
	KeepSessionOnFailure bool
	// Auditor, when set, receives every submit outcome.
	Auditor Auditor
}

// Machine is the conversation state machine. It interprets inbound events
// against the per-chat session, emits prompts and keyboards through the
// Messenger, and hands the composed record to the RecordWriter at submit.
//
// Handling is serialized per chat: the bot runtime may deliver updates for
// different chats concurrently, but session invariants require a single
// writer per chat id.
type Machine struct {
	store    Store
	msgr     Messenger
	writer   RecordWriter
	registry *channels.Registry
	opts     Options

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewMachine wires the state machine with its collaborators.
func NewMachine(store Store, msgr Messenger, writer RecordWriter, registry *channels.Registry, opts Options) *Machine {
	return &Machine{
		store:    store,
		msgr:     msgr,
		writer:   writer,
		registry: registry,
		opts:     opts,
		locks:    make(map[int64]*sync.Mutex),
	}
}

// Handle processes one inbound event for the chat identified in meta.
func (m *Machine) Handle(ctx context.Context, meta Meta, ev Event) error {
	lock := m.lockFor(meta.ChatID)
	lock.Lock()
	defer lock.Unlock()

	switch e := ev.(type) {
	case Start:
		return m.handleStart(ctx, meta)
	case LanguageChosen:
		return m.handleLanguage(ctx, meta, e)
	case AttachmentReceived:
		return m.handleAttachment(ctx, meta, e)
	case DoneSignal:
		return m.handleDone(ctx, meta)
	case ChannelToggled:
		return m.handleToggle(ctx, meta, e)
	case SubmitRequested:
		return m.handleSubmit(ctx, meta)
	case PlainText:
		return m.handleText(ctx, meta, e)
	default:
		return fmt.Errorf("report: unknown event %T", ev)
	}
}

func (m *Machine) lockFor(chatID int64) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.locks[chatID]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[chatID] = lock
	}
	return lock
}

func (m *Machine) handleStart(ctx context.Context, meta Meta) error {
	m.store.Create(meta.ChatID, meta.Submitter)
	return m.msgr.Send(ctx, meta.ChatID, i18n.Default().ChooseLanguage, languageKeyboard())
}

func (m *Machine) handleLanguage(ctx context.Context, meta Meta, e LanguageChosen) error {
	sess, ok := m.store.Get(meta.ChatID)
	if !ok {
		return m.notice(ctx, meta, i18n.Default().StartFirst)
	}
	msgs, ok := i18n.Lookup(e.Language)
	if !ok {
		logger.Warn(ctx, "report", "language.unknown", slog.String("lang", string(e.Language)))
		return nil
	}

	// Re-selection overwrites; the user may change their mind while the
	// picker is still on screen.
	sess.Language = e.Language
	sess.Phase = PhaseAwaitingReportStart

	kb := &Keyboard{Reply: [][]string{{msgs.CreateReport}}, OneTime: true}
	return m.msgr.Send(ctx, meta.ChatID, msgs.Welcome, kb)
}

func (m *Machine) handleText(ctx context.Context, meta Meta, e PlainText) error {
	sess, ok := m.store.Get(meta.ChatID)
	if !ok || sess.Language == "" {
		// Text before /start or language choice is ignored.
		return nil
	}
	msgs, _ := i18n.Lookup(sess.Language)

	switch e.Text {
	case msgs.CreateReport:
		sess.Phase = PhaseAwaitingAttachments
		kb := &Keyboard{Reply: [][]string{{msgs.Done}}, OneTime: true}
		return m.msgr.Send(ctx, meta.ChatID, msgs.Attach, kb)
	case msgs.Done:
		return m.handleDone(ctx, meta)
	default:
		return nil
	}
}

func (m *Machine) handleAttachment(ctx context.Context, meta Meta, e AttachmentReceived) error {
	sess, ok := m.store.Get(meta.ChatID)
	if !ok || sess.Language == "" {
		// No session may be created as a side effect of an attachment.
		return nil
	}
	msgs, _ := i18n.Lookup(sess.Language)

	locator, err := m.msgr.FileLink(ctx, e.FileID)
	if err != nil {
		return fmt.Errorf("resolve file %s: %w", e.FileID, err)
	}
	sess.AddAttachment(locator, e.Caption)

	logger.Debug(ctx, "report", "attachment.added",
		slog.Int("total", len(sess.Attachments)),
	)
	return m.msgr.Send(ctx, meta.ChatID, msgs.FileAdded, nil)
}

func (m *Machine) handleDone(ctx context.Context, meta Meta) error {
	sess, ok := m.store.Get(meta.ChatID)
	if !ok || sess.Language == "" {
		return nil
	}
	msgs, _ := i18n.Lookup(sess.Language)

	if len(sess.Attachments) == 0 {
		return m.msgr.Send(ctx, meta.ChatID, msgs.NoFiles, nil)
	}

	sess.ResetSelection()
	sess.Phase = PhaseAwaitingChannelSelection
	return m.msgr.Send(ctx, meta.ChatID, msgs.SelectChannels, m.channelKeyboard(sess, msgs))
}

func (m *Machine) handleToggle(ctx context.Context, meta Meta, e ChannelToggled) error {
	sess, ok := m.store.Get(meta.ChatID)
	if !ok {
		return m.notice(ctx, meta, i18n.Default().StartFirst)
	}
	if sess.Language == "" {
		return m.notice(ctx, meta, i18n.Default().ChooseLangFirst)
	}
	if !m.registry.Contains(e.Channel) {
		logger.Warn(ctx, "report", "channel.unknown", slog.String("channel", e.Channel))
		return nil
	}
	msgs, _ := i18n.Lookup(sess.Language)

	sess.Toggle(e.Channel)
	return m.msgr.EditKeyboard(ctx, meta.ChatID, meta.MessageID, m.channelKeyboard(sess, msgs))
}

func (m *Machine) handleSubmit(ctx context.Context, meta Meta) error {
	sess, ok := m.store.Get(meta.ChatID)
	if !ok {
		return m.notice(ctx, meta, i18n.Default().StartFirst)
	}
	if sess.Language == "" {
		return m.notice(ctx, meta, i18n.Default().ChooseLangFirst)
	}
	msgs, _ := i18n.Lookup(sess.Language)

	if sess.SelectedCount() == 0 {
		return m.notice(ctx, meta, msgs.ChooseAtLeastOne)
	}

	rec := BuildRecord(sess, m.registry.Names())
	err := m.writer.Write(ctx, rec)

	m.auditOutcome(ctx, sess, rec, err == nil)

	if err != nil {
		logger.Error(ctx, "report", "submit.failed",
			slog.String("err", err.Error()),
			slog.Int("attachments", len(rec.AttachmentRefs)),
		)
		if !m.opts.KeepSessionOnFailure {
			m.store.Delete(meta.ChatID)
		}
		return m.msgr.Edit(ctx, meta.ChatID, meta.MessageID, msgs.SaveFailed)
	}

	logger.Info(ctx, "report", "submit.saved",
		slog.Int("channels", len(rec.Channels)),
		slog.Int("attachments", len(rec.AttachmentRefs)),
	)
	m.store.Delete(meta.ChatID)
	return m.msgr.Edit(ctx, meta.ChatID, meta.MessageID, msgs.ReportSaved)
}

func (m *Machine) auditOutcome(ctx context.Context, sess *Session, rec Record, saved bool) {
	if m.opts.Auditor == nil {
		return
	}
	outcome := SubmitOutcome{
		ChatID:      sess.ChatID,
		Employee:    rec.Employee,
		Channels:    rec.Channels,
		Attachments: len(rec.AttachmentRefs),
		Saved:       saved,
	}
	if err := m.opts.Auditor.LogOutcome(ctx, outcome); err != nil {
		logger.Warn(ctx, "report", "audit.failed", slog.String("err", err.Error()))
	}
}

// notice delivers a transient, non-state-changing message: a callback answer
// when the event came from an inline button, a plain message otherwise.
func (m *Machine) notice(ctx context.Context, meta Meta, text string) error {
	if meta.CallbackID != "" {
		return m.msgr.Notify(ctx, meta.CallbackID, text)
	}
	return m.msgr.Send(ctx, meta.ChatID, text, nil)
}

func languageKeyboard() *Keyboard {
	var rows [][]Button
	for _, lang := range i18n.Supported() {
		msgs, _ := i18n.Lookup(lang)
		rows = append(rows, []Button{{Label: msgs.NativeName, Action: "lang", Data: string(lang)}})
	}
	return &Keyboard{Inline: rows}
}

func (m *Machine) channelKeyboard(sess *Session, msgs i18n.Messages) *Keyboard {
	names := m.registry.Names()
	buttons := make([]Button, 0, len(names))
	for _, name := range names {
		label := name
		if sess.IsSelected(name) {
			label = "✅ " + name
		}
		buttons = append(buttons, Button{Label: label, Action: "ch", Data: name})
	}
	rows := Rows(buttons, channelsPerRow)
	rows = append(rows, []Button{{Label: msgs.Confirm, Action: "submit"}})
	return &Keyboard{Inline: rows}
}
