// Package airtable persists composed reports to an Airtable base.
package airtable

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"reportbot/core/logger"
	"reportbot/internal/report"
)

// RecordCreator is the narrow slice of the Airtable client the writer needs.
type RecordCreator interface {
	CreateRecord(ctx context.Context, fields map[string]any) error
}

// Writer retries record creation a bounded number of times before giving up.
// It implements report.RecordWriter.
type Writer struct {
	creator  RecordCreator
	attempts int
	delay    time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewWriter builds a Writer. attempts is the total try count including the
// first one; delay is the pause between consecutive tries.
func NewWriter(creator RecordCreator, attempts int, delay time.Duration) *Writer {
	if attempts < 1 {
		attempts = 1
	}
	return &Writer{
		creator:  creator,
		attempts: attempts,
		delay:    delay,
		sleep:    sleepCtx,
	}
}

// Write persists one record, retrying transient failures with a fixed delay.
// The returned error is the last attempt's error.
func (w *Writer) Write(ctx context.Context, rec report.Record) error {
	fields := recordFields(rec)

	var lastErr error
	for attempt := 1; attempt <= w.attempts; attempt++ {
		lastErr = w.creator.CreateRecord(ctx, fields)
		if lastErr == nil {
			return nil
		}
		logger.Warn(ctx, "store", "airtable.create.retry",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", w.attempts),
			slog.String("err", lastErr.Error()),
		)
		if attempt == w.attempts {
			break
		}
		if err := w.sleep(ctx, w.delay); err != nil {
			return err
		}
	}
	return fmt.Errorf("airtable create after %d attempts: %w", w.attempts, lastErr)
}

// recordFields maps a record to Airtable column names. Attachment cells take
// a list of url objects; Airtable fetches and rehosts the targets itself.
func recordFields(rec report.Record) map[string]any {
	attachments := make([]map[string]string, len(rec.AttachmentRefs))
	for i, url := range rec.AttachmentRefs {
		attachments[i] = map[string]string{"url": url}
	}
	return map[string]any{
		"Employee":   rec.Employee,
		"Channel":    rec.Channels,
		"Comment":    rec.Comment,
		"Attachment": attachments,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
