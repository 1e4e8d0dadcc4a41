package airtable

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportbot/internal/report"
)

type scriptedCreator struct {
	errs  []error
	calls []map[string]any
}

func (s *scriptedCreator) CreateRecord(_ context.Context, fields map[string]any) error {
	s.calls = append(s.calls, fields)
	if len(s.calls) <= len(s.errs) {
		return s.errs[len(s.calls)-1]
	}
	return nil
}

func newTestWriter(creator RecordCreator) (*Writer, *[]time.Duration) {
	w := NewWriter(creator, 3, time.Second)
	var slept []time.Duration
	w.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return w, &slept
}

func sampleRecord() report.Record {
	return report.Record{
		Employee:       "alice",
		Channels:       []string{"Telegram", "Viber"},
		Comment:        "File1: front view",
		AttachmentRefs: []string{"https://files/one"},
	}
}

func TestWriteSucceedsFirstTry(t *testing.T) {
	creator := &scriptedCreator{}
	w, slept := newTestWriter(creator)

	require.NoError(t, w.Write(context.Background(), sampleRecord()))
	assert.Len(t, creator.calls, 1)
	assert.Empty(t, *slept)
}

func TestWriteRetriesThenSucceeds(t *testing.T) {
	creator := &scriptedCreator{errs: []error{errors.New("rate limited"), errors.New("rate limited")}}
	w, slept := newTestWriter(creator)

	require.NoError(t, w.Write(context.Background(), sampleRecord()))
	assert.Len(t, creator.calls, 3)
	assert.Equal(t, []time.Duration{time.Second, time.Second}, *slept)
}

func TestWriteExhaustsAttempts(t *testing.T) {
	boom := errors.New("base unreachable")
	creator := &scriptedCreator{errs: []error{boom, boom, boom}}
	w, slept := newTestWriter(creator)

	err := w.Write(context.Background(), sampleRecord())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, creator.calls, 3)
	// No pause after the final attempt.
	assert.Len(t, *slept, 2)
}

func TestWriteStopsOnCancelledContext(t *testing.T) {
	creator := &scriptedCreator{errs: []error{errors.New("transient")}}
	w := NewWriter(creator, 3, time.Second)
	w.sleep = func(ctx context.Context, _ time.Duration) error { return context.Canceled }

	err := w.Write(context.Background(), sampleRecord())
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, creator.calls, 1)
}

func TestRecordFieldsShape(t *testing.T) {
	fields := recordFields(sampleRecord())

	assert.Equal(t, "alice", fields["Employee"])
	assert.Equal(t, []string{"Telegram", "Viber"}, fields["Channel"])
	assert.Equal(t, "File1: front view", fields["Comment"])
	assert.Equal(t, []map[string]string{{"url": "https://files/one"}}, fields["Attachment"])
}
