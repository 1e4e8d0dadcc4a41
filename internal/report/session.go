package report

import "reportbot/internal/i18n"

// Phase identifies a step of the report conversation.
type Phase string

const (
	// PhaseAwaitingLanguage is entered right after /start.
	PhaseAwaitingLanguage Phase = "awaiting_language"
	// PhaseAwaitingReportStart is entered once a language is chosen.
	PhaseAwaitingReportStart Phase = "awaiting_report_start"
	// PhaseAwaitingAttachments is entered when the user opens a new report.
	PhaseAwaitingAttachments Phase = "awaiting_attachments"
	// PhaseAwaitingChannelSelection is entered once attachments are confirmed.
	PhaseAwaitingChannelSelection Phase = "awaiting_channel_selection"
)

// Attachment is one user-submitted file: a retrievable locator resolved from
// the platform file id, plus the message caption it arrived with.
type Attachment struct {
	Locator string
	Caption string
}

// Session is the per-chat conversation state, scoped to one report
// submission. It exists between a start event and a terminal submit (or
// abandonment) and is only mutated by the state machine.
type Session struct {
	ChatID      int64
	Submitter   string
	Language    i18n.Language
	Phase       Phase
	Attachments []Attachment

	selected map[string]struct{}
}

func newSession(chatID int64, submitter string) *Session {
	return &Session{
		ChatID:    chatID,
		Submitter: submitter,
		Phase:     PhaseAwaitingLanguage,
		selected:  make(map[string]struct{}),
	}
}

// AddAttachment appends a resolved file to the session.
func (s *Session) AddAttachment(locator, caption string) {
	s.Attachments = append(s.Attachments, Attachment{Locator: locator, Caption: caption})
}

// Toggle flips membership of the named channel in the selection and reports
// whether the channel is selected afterwards.
func (s *Session) Toggle(channel string) bool {
	if _, ok := s.selected[channel]; ok {
		delete(s.selected, channel)
		return false
	}
	s.selected[channel] = struct{}{}
	return true
}

// IsSelected reports whether the named channel is currently selected.
func (s *Session) IsSelected(channel string) bool {
	_, ok := s.selected[channel]
	return ok
}

// SelectedCount returns the number of selected channels.
func (s *Session) SelectedCount() int {
	return len(s.selected)
}

// SelectedIn returns the selected channels filtered to and ordered by the
// given registry order.
func (s *Session) SelectedIn(order []string) []string {
	out := make([]string, 0, len(s.selected))
	for _, name := range order {
		if _, ok := s.selected[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// ResetSelection clears the channel selection; called whenever the
// channel-selection phase is (re-)entered.
func (s *Session) ResetSelection() {
	s.selected = make(map[string]struct{})
}
