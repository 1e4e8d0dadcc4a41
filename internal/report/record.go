package report

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Record is the composed result handed to the RecordWriter at submit time.
// It is never stored locally.
type Record struct {
	Employee       string
	Channels       []string
	Comment        string
	AttachmentRefs []string
}

// BuildRecord composes a Record from the session. Channels follow the
// registry order; the comment concatenates attachment captions with
// positional labels, one per line.
func BuildRecord(s *Session, order []string) Record {
	lines := make([]string, len(s.Attachments))
	for i, a := range s.Attachments {
		lines[i] = fmt.Sprintf("File%d: %s", i+1, a.Caption)
	}
	return Record{
		Employee:       s.Submitter,
		Channels:       s.SelectedIn(order),
		Comment:        strings.Join(lines, "\n"),
		AttachmentRefs: lo.Map(s.Attachments, func(a Attachment, _ int) string { return a.Locator }),
	}
}
