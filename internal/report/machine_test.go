package report

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportbot/internal/channels"
	"reportbot/internal/i18n"
)

type sentMessage struct {
	ChatID int64
	Text   string
	KB     *Keyboard
}

type editedMessage struct {
	ChatID    int64
	MessageID int
	Text      string
	KB        *Keyboard
}

type fakeMessenger struct {
	sent     []sentMessage
	edits    []editedMessage
	kbEdits  []editedMessage
	notices  []string
	linkErr  error
	linkSeen []string
}

func (f *fakeMessenger) Send(_ context.Context, chatID int64, text string, kb *Keyboard) error {
	f.sent = append(f.sent, sentMessage{ChatID: chatID, Text: text, KB: kb})
	return nil
}

func (f *fakeMessenger) Edit(_ context.Context, chatID int64, messageID int, text string) error {
	f.edits = append(f.edits, editedMessage{ChatID: chatID, MessageID: messageID, Text: text})
	return nil
}

func (f *fakeMessenger) EditKeyboard(_ context.Context, chatID int64, messageID int, kb *Keyboard) error {
	f.kbEdits = append(f.kbEdits, editedMessage{ChatID: chatID, MessageID: messageID, KB: kb})
	return nil
}

func (f *fakeMessenger) Notify(_ context.Context, _ string, text string) error {
	f.notices = append(f.notices, text)
	return nil
}

func (f *fakeMessenger) FileLink(_ context.Context, fileID string) (string, error) {
	if f.linkErr != nil {
		return "", f.linkErr
	}
	f.linkSeen = append(f.linkSeen, fileID)
	return "https://files.example.com/" + fileID, nil
}

func (f *fakeMessenger) lastSent() sentMessage {
	return f.sent[len(f.sent)-1]
}

type fakeWriter struct {
	records []Record
	err     error
}

func (f *fakeWriter) Write(_ context.Context, rec Record) error {
	f.records = append(f.records, rec)
	return f.err
}

type fakeAuditor struct {
	outcomes []SubmitOutcome
}

func (f *fakeAuditor) LogOutcome(_ context.Context, o SubmitOutcome) error {
	f.outcomes = append(f.outcomes, o)
	return nil
}

type fixture struct {
	machine *Machine
	store   Store
	msgr    *fakeMessenger
	writer  *fakeWriter
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	msgr := &fakeMessenger{}
	writer := &fakeWriter{}
	store := NewMemoryStore()
	machine := NewMachine(store, msgr, writer, channels.NewRegistry(nil), opts)
	return &fixture{machine: machine, store: store, msgr: msgr, writer: writer}
}

const chatID = int64(100)

func meta() Meta {
	return Meta{ChatID: chatID, MessageID: 55, Submitter: "alice"}
}

func callbackMeta() Meta {
	m := meta()
	m.CallbackID = "cb-1"
	return m
}

func ruMessages(t *testing.T) i18n.Messages {
	t.Helper()
	msgs, ok := i18n.Lookup(i18n.Russian)
	require.True(t, ok)
	return msgs
}

// advance drives the conversation through the given steps.
func (fx *fixture) advance(t *testing.T, events ...Event) {
	t.Helper()
	ctx := context.Background()
	for _, ev := range events {
		m := meta()
		switch ev.(type) {
		case LanguageChosen, ChannelToggled, SubmitRequested:
			m = callbackMeta()
		}
		require.NoError(t, fx.machine.Handle(ctx, m, ev))
	}
}

func TestStartCreatesSessionAndPrompt(t *testing.T) {
	fx := newFixture(t, Options{})
	fx.advance(t, Start{})

	sess, ok := fx.store.Get(chatID)
	require.True(t, ok)
	assert.Equal(t, PhaseAwaitingLanguage, sess.Phase)
	assert.Equal(t, "alice", sess.Submitter)
	assert.Empty(t, sess.Language)

	require.Len(t, fx.msgr.sent, 1)
	last := fx.msgr.lastSent()
	assert.Equal(t, i18n.Default().ChooseLanguage, last.Text)
	require.NotNil(t, last.KB)
	assert.Len(t, last.KB.Inline, len(i18n.Supported()))
}

func TestAttachmentBeforeStartIsNoOp(t *testing.T) {
	fx := newFixture(t, Options{})
	fx.advance(t, AttachmentReceived{FileID: "f1"})

	_, ok := fx.store.Get(chatID)
	assert.False(t, ok, "no session may be created as a side effect")
	assert.Empty(t, fx.msgr.sent)
}

func TestLanguageChoiceTransitions(t *testing.T) {
	fx := newFixture(t, Options{})
	fx.advance(t, Start{}, LanguageChosen{Language: i18n.Russian})

	sess, _ := fx.store.Get(chatID)
	assert.Equal(t, i18n.Russian, sess.Language)
	assert.Equal(t, PhaseAwaitingReportStart, sess.Phase)

	last := fx.msgr.lastSent()
	assert.Equal(t, ruMessages(t).Welcome, last.Text)
	require.NotNil(t, last.KB)
	assert.Equal(t, [][]string{{ruMessages(t).CreateReport}}, last.KB.Reply)
}

func TestLanguageReselectionOverwrites(t *testing.T) {
	fx := newFixture(t, Options{})
	fx.advance(t,
		Start{},
		LanguageChosen{Language: i18n.Ukrainian},
		LanguageChosen{Language: i18n.Russian},
	)

	sess, _ := fx.store.Get(chatID)
	assert.Equal(t, i18n.Russian, sess.Language)
}

func TestLanguageChoiceWithoutSession(t *testing.T) {
	fx := newFixture(t, Options{})
	require.NoError(t, fx.machine.Handle(context.Background(), callbackMeta(), LanguageChosen{Language: i18n.Russian}))

	assert.Equal(t, []string{i18n.Default().StartFirst}, fx.msgr.notices)
	_, ok := fx.store.Get(chatID)
	assert.False(t, ok)
}

func TestDoneWithoutAttachments(t *testing.T) {
	fx := newFixture(t, Options{})
	msgs := ruMessages(t)
	fx.advance(t,
		Start{},
		LanguageChosen{Language: i18n.Russian},
		PlainText{Text: msgs.CreateReport},
		DoneSignal{},
	)

	assert.Equal(t, msgs.NoFiles, fx.msgr.lastSent().Text)
	sess, _ := fx.store.Get(chatID)
	assert.Equal(t, PhaseAwaitingAttachments, sess.Phase)
	assert.Empty(t, fx.writer.records)
}

func TestToggleIsItsOwnInverse(t *testing.T) {
	fx := newFixture(t, Options{})
	fx.advance(t,
		Start{},
		LanguageChosen{Language: i18n.Ukrainian},
		PlainText{Text: mustLookup(t, i18n.Ukrainian).CreateReport},
		AttachmentReceived{FileID: "f1", Caption: "first"},
		DoneSignal{},
	)

	sess, _ := fx.store.Get(chatID)
	before := sess.SelectedIn(channels.DefaultNames)

	fx.advance(t, ChannelToggled{Channel: "Viber"}, ChannelToggled{Channel: "Viber"})
	assert.Equal(t, before, sess.SelectedIn(channels.DefaultNames))

	// Each toggle re-renders the keyboard in place.
	require.Len(t, fx.msgr.kbEdits, 2)
	assert.Equal(t, 55, fx.msgr.kbEdits[0].MessageID)
}

func TestSubmitWithEmptySelection(t *testing.T) {
	fx := newFixture(t, Options{})
	fx.advance(t,
		Start{},
		LanguageChosen{Language: i18n.Russian},
		PlainText{Text: ruMessages(t).CreateReport},
		AttachmentReceived{FileID: "f1"},
		DoneSignal{},
		ChannelToggled{Channel: "Telegram"},
		ChannelToggled{Channel: "Telegram"},
		SubmitRequested{},
	)

	assert.Equal(t, []string{ruMessages(t).ChooseAtLeastOne}, fx.msgr.notices)
	assert.Empty(t, fx.writer.records, "writer must not be invoked with empty selection")

	sess, ok := fx.store.Get(chatID)
	require.True(t, ok, "session survives the rejected submit")
	assert.Equal(t, PhaseAwaitingChannelSelection, sess.Phase)
}

func TestSubmitHappyPath(t *testing.T) {
	fx := newFixture(t, Options{})
	msgs := mustLookup(t, i18n.Ukrainian)
	fx.advance(t,
		Start{},
		LanguageChosen{Language: i18n.Ukrainian},
		PlainText{Text: msgs.CreateReport},
		AttachmentReceived{FileID: "f1", Caption: "front view"},
		DoneSignal{},
		ChannelToggled{Channel: "WhatsApp"},
		SubmitRequested{},
	)

	require.Len(t, fx.writer.records, 1, "exactly one write per submit")
	rec := fx.writer.records[0]
	assert.Equal(t, "alice", rec.Employee)
	assert.Equal(t, []string{"WhatsApp"}, rec.Channels)
	assert.Equal(t, []string{"https://files.example.com/f1"}, rec.AttachmentRefs)
	assert.Equal(t, "File1: front view", rec.Comment)

	require.Len(t, fx.msgr.edits, 1)
	assert.Equal(t, msgs.ReportSaved, fx.msgr.edits[0].Text)
	assert.Equal(t, 55, fx.msgr.edits[0].MessageID)

	_, ok := fx.store.Get(chatID)
	assert.False(t, ok, "session removed after successful submit")
}

func TestSubmitFailureDeletesSessionByDefault(t *testing.T) {
	fx := newFixture(t, Options{})
	fx.writer.err = errors.New("airtable down")
	msgs := ruMessages(t)
	fx.advance(t,
		Start{},
		LanguageChosen{Language: i18n.Russian},
		PlainText{Text: msgs.CreateReport},
		AttachmentReceived{FileID: "f1"},
		DoneSignal{},
		ChannelToggled{Channel: "Telegram"},
		SubmitRequested{},
	)

	require.Len(t, fx.msgr.edits, 1)
	assert.Equal(t, msgs.SaveFailed, fx.msgr.edits[0].Text)

	_, ok := fx.store.Get(chatID)
	assert.False(t, ok, "session removed after failed submit")
}

func TestSubmitFailureKeepsSessionWhenConfigured(t *testing.T) {
	fx := newFixture(t, Options{KeepSessionOnFailure: true})
	fx.writer.err = errors.New("airtable down")
	fx.advance(t,
		Start{},
		LanguageChosen{Language: i18n.Russian},
		PlainText{Text: ruMessages(t).CreateReport},
		AttachmentReceived{FileID: "f1"},
		DoneSignal{},
		ChannelToggled{Channel: "Telegram"},
		SubmitRequested{},
	)

	sess, ok := fx.store.Get(chatID)
	require.True(t, ok)
	assert.Equal(t, []string{"Telegram"}, sess.SelectedIn(channels.DefaultNames))
}

func TestSubmitAuditsOutcome(t *testing.T) {
	auditor := &fakeAuditor{}
	fx := newFixture(t, Options{Auditor: auditor})
	fx.advance(t,
		Start{},
		LanguageChosen{Language: i18n.Russian},
		PlainText{Text: ruMessages(t).CreateReport},
		AttachmentReceived{FileID: "f1"},
		AttachmentReceived{FileID: "f2"},
		DoneSignal{},
		ChannelToggled{Channel: "Viber"},
		SubmitRequested{},
	)

	require.Len(t, auditor.outcomes, 1)
	o := auditor.outcomes[0]
	assert.True(t, o.Saved)
	assert.Equal(t, chatID, o.ChatID)
	assert.Equal(t, 2, o.Attachments)
	assert.Equal(t, []string{"Viber"}, o.Channels)
}

func TestChannelKeyboardLayout(t *testing.T) {
	fx := newFixture(t, Options{})
	msgs := ruMessages(t)
	fx.advance(t,
		Start{},
		LanguageChosen{Language: i18n.Russian},
		PlainText{Text: msgs.CreateReport},
		AttachmentReceived{FileID: "f1"},
		DoneSignal{},
	)

	kb := fx.msgr.lastSent().KB
	require.NotNil(t, kb)
	// Four channels paired two per row, plus the confirm row.
	require.Len(t, kb.Inline, 3)
	assert.Len(t, kb.Inline[0], 2)
	assert.Len(t, kb.Inline[1], 2)
	require.Len(t, kb.Inline[2], 1)
	assert.Equal(t, msgs.Confirm, kb.Inline[2][0].Label)

	// Toggling marks the button label in the re-rendered keyboard.
	fx.advance(t, ChannelToggled{Channel: "Telegram"})
	rendered := fx.msgr.kbEdits[0].KB
	assert.Equal(t, "✅ Telegram", rendered.Inline[0][0].Label)
	assert.Equal(t, "Telegram", rendered.Inline[0][0].Data)
}

func TestDoneReentryResetsSelection(t *testing.T) {
	fx := newFixture(t, Options{})
	msgs := ruMessages(t)
	fx.advance(t,
		Start{},
		LanguageChosen{Language: i18n.Russian},
		PlainText{Text: msgs.CreateReport},
		AttachmentReceived{FileID: "f1"},
		DoneSignal{},
		ChannelToggled{Channel: "Viber"},
		PlainText{Text: msgs.Done},
	)

	sess, _ := fx.store.Get(chatID)
	assert.Zero(t, sess.SelectedCount(), "selection resets on re-entering channel selection")
}

func TestUnknownChannelIgnored(t *testing.T) {
	fx := newFixture(t, Options{})
	fx.advance(t,
		Start{},
		LanguageChosen{Language: i18n.Russian},
		PlainText{Text: ruMessages(t).CreateReport},
		AttachmentReceived{FileID: "f1"},
		DoneSignal{},
		ChannelToggled{Channel: "Smoke Signals"},
	)

	sess, _ := fx.store.Get(chatID)
	assert.Zero(t, sess.SelectedCount())
	assert.Empty(t, fx.msgr.kbEdits)
}

func TestFileLinkFailureSurfaces(t *testing.T) {
	fx := newFixture(t, Options{})
	fx.advance(t, Start{}, LanguageChosen{Language: i18n.Russian})

	fx.msgr.linkErr = fmt.Errorf("file api unreachable")
	err := fx.machine.Handle(context.Background(), meta(), AttachmentReceived{FileID: "f1"})
	require.Error(t, err)

	sess, _ := fx.store.Get(chatID)
	assert.Empty(t, sess.Attachments)
}

func mustLookup(t *testing.T, lang i18n.Language) i18n.Messages {
	t.Helper()
	msgs, ok := i18n.Lookup(lang)
	require.True(t, ok)
	return msgs
}
