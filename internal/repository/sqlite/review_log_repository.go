package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sidequestlab/memoquiz/internal/logger"
	"github.com/sidequestlab/memoquiz/internal/models"
	"github.com/sidequestlab/memoquiz/internal/repository"
)

type reviewLogRepository struct {
	db *sql.DB
}

// NewReviewLogRepository creates a new ReviewLogRepository implementation
func NewReviewLogRepository(db *sql.DB) repository.ReviewLogRepository {
	return &reviewLogRepository{db: db}
}

// RecordAnswer moves the card's membership to its next box and appends
// the review log entry in a single transaction: either both writes
// commit or neither does. The box update is optimistic: it only
// applies while the membership is still in PreviousBox, so a
// concurrent answer that already moved the card surfaces as
// repository.ErrStaleBox instead of silently losing an advance.
func (r *reviewLogRepository) RecordAnswer(ctx context.Context, quizID int64, log models.ReviewLog) error {
	l := logger.FromContext(ctx).WithPrefix("review_log_repo")
	l.Debug("recording answer: session_id=%d, card_id=%d, correct=%t, box %d -> %d",
		log.SessionID, log.CardID, log.Correct, log.PreviousBox, log.NextBox)

	err := tx(ctx, r.db, func(t *sql.Tx) error {
		res, err := t.ExecContext(ctx, `
UPDATE quiz_cards
SET box = ?, updated_at = ?
WHERE quiz_id = ? AND card_id = ? AND box = ?
`, log.NextBox, log.AnsweredAt, quizID, log.CardID, log.PreviousBox)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return repository.ErrStaleBox
		}
		if _, err := t.ExecContext(ctx, `
UPDATE cards SET updated_at = ? WHERE id = ?
`, log.AnsweredAt, log.CardID); err != nil {
			return err
		}
		_, err = t.ExecContext(ctx, `
INSERT INTO review_logs (session_id, card_id, answered_at, answer_text, correct, previous_box, next_box)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, log.SessionID, log.CardID, log.AnsweredAt, log.AnswerText, log.Correct, log.PreviousBox, log.NextBox)
		return err
	})
	if err != nil {
		if !errors.Is(err, repository.ErrStaleBox) {
			l.Error("failed to record answer: %v", err)
		}
		return err
	}
	return nil
}

func (r *reviewLogRepository) CountBySession(ctx context.Context, sessionID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM review_logs WHERE session_id = ?
`, sessionID).Scan(&count)
	return count, err
}

func (r *reviewLogRepository) CountCorrectBySession(ctx context.Context, sessionID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM review_logs WHERE session_id = ? AND correct = 1
`, sessionID).Scan(&count)
	return count, err
}

func (r *reviewLogRepository) ListBySession(ctx context.Context, sessionID int64) ([]models.ReviewLog, error) {
	l := logger.FromContext(ctx).WithPrefix("review_log_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT id, session_id, card_id, answered_at, answer_text, correct, previous_box, next_box
FROM review_logs
WHERE session_id = ?
ORDER BY id ASC
`, sessionID)
	if err != nil {
		l.Error("failed to query review logs: %v", err)
		return nil, err
	}
	defer rows.Close()

	var logs []models.ReviewLog
	for rows.Next() {
		var rl models.ReviewLog
		if err := rows.Scan(&rl.ID, &rl.SessionID, &rl.CardID, &rl.AnsweredAt, &rl.AnswerText, &rl.Correct, &rl.PreviousBox, &rl.NextBox); err != nil {
			l.Error("failed to scan review log: %v", err)
			return nil, err
		}
		logs = append(logs, rl)
	}
	return logs, rows.Err()
}
