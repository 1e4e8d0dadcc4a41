package report

import "reportbot/internal/i18n"

// Event is an abstract inbound user action, decoupled from the bot client's
// payload shapes. The adapter produces events; the machine consumes them.
type Event interface{ event() }

// Start is the /start command (or an explicit restart).
type Start struct{}

// LanguageChosen carries the language picked via inline button.
type LanguageChosen struct {
	Language i18n.Language
}

// AttachmentReceived is a file-bearing message (photo or document).
type AttachmentReceived struct {
	FileID  string
	Caption string
}

// DoneSignal ends the attachment phase.
type DoneSignal struct{}

// ChannelToggled flips one channel in the selection.
type ChannelToggled struct {
	Channel string
}

// SubmitRequested asks to persist the composed report.
type SubmitRequested struct{}

// PlainText is any other text message; the machine resolves menu labels
// against the session language.
type PlainText struct {
	Text string
}

func (Start) event()              {}
func (LanguageChosen) event()     {}
func (AttachmentReceived) event() {}
func (DoneSignal) event()         {}
func (ChannelToggled) event()     {}
func (SubmitRequested) event()    {}
func (PlainText) event()          {}

// Meta carries the delivery context an event arrived with.
type Meta struct {
	ChatID int64
	// MessageID is the message the event originated from; used to edit
	// prompts in place for callback-driven events.
	MessageID int
	// CallbackID is set for inline-button events and enables transient
	// notices via callback answers.
	CallbackID string
	// Submitter is the sender's display name, captured at session creation.
	Submitter string
}
