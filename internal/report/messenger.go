package report

import "context"

// Button is one inline keyboard button: Action is the callback key, Data the
// payload.
type Button struct {
	Label  string
	Action string
	Data   string
}

// Keyboard is a rendering-target-independent keyboard. Either Inline or
// Reply is populated, never both.
type Keyboard struct {
	Inline  [][]Button
	Reply   [][]string
	OneTime bool
}

// Rows splits a flat button list into rows with up to perRow buttons each.
func Rows[T any](items []T, perRow int) [][]T {
	if perRow <= 1 {
		out := make([][]T, 0, len(items))
		for _, it := range items {
			out = append(out, []T{it})
		}
		return out
	}
	var rows [][]T
	for i := 0; i < len(items); i += perRow {
		end := i + perRow
		if end > len(items) {
			end = len(items)
		}
		rows = append(rows, items[i:end])
	}
	return rows
}

// Messenger is the outbound boundary to the bot platform.
type Messenger interface {
	Send(ctx context.Context, chatID int64, text string, kb *Keyboard) error
	Edit(ctx context.Context, chatID int64, messageID int, text string) error
	EditKeyboard(ctx context.Context, chatID int64, messageID int, kb *Keyboard) error
	// Notify answers a callback with a transient notice.
	Notify(ctx context.Context, callbackID, text string) error
	// FileLink resolves a platform file id to a retrievable URL.
	FileLink(ctx context.Context, fileID string) (string, error)
}

// RecordWriter persists one composed record to the external tabular store.
type RecordWriter interface {
	Write(ctx context.Context, rec Record) error
}

// SubmitOutcome summarizes one submit attempt for the audit trail.
type SubmitOutcome struct {
	ChatID      int64
	Employee    string
	Channels    []string
	Attachments int
	Saved       bool
}

// Auditor records submit outcomes for operator visibility. Failures are
// logged and never surface to the user.
type Auditor interface {
	LogOutcome(ctx context.Context, o SubmitOutcome) error
}
