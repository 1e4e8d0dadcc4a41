// Package postgres keeps an operator-facing audit trail of submit outcomes.
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"reportbot/internal/report"
)

const insertSubmission = `
INSERT INTO report_submissions (chat_id, employee, channels, attachments, saved)
VALUES ($1, $2, $3, $4, $5)`

// SubmissionLog writes one row per submit attempt. It implements
// report.Auditor.
type SubmissionLog struct {
	db *sqlx.DB
}

func NewSubmissionLog(db *sqlx.DB) *SubmissionLog {
	return &SubmissionLog{db: db}
}

func (l *SubmissionLog) LogOutcome(ctx context.Context, o report.SubmitOutcome) error {
	_, err := l.db.ExecContext(ctx, insertSubmission,
		o.ChatID, o.Employee, pq.Array(o.Channels), o.Attachments, o.Saved,
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}
