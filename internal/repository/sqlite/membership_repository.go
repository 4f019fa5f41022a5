package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/sidequestlab/memoquiz/internal/logger"
	"github.com/sidequestlab/memoquiz/internal/models"
	"github.com/sidequestlab/memoquiz/internal/repository"
)

type membershipRepository struct {
	db *sql.DB
}

// NewMembershipRepository creates a new MembershipRepository implementation
func NewMembershipRepository(db *sql.DB) repository.MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) Get(ctx context.Context, quizID, cardID int64) (*models.Membership, error) {
	log := logger.FromContext(ctx).WithPrefix("membership_repo")

	var m models.Membership
	err := r.db.QueryRowContext(ctx, `
SELECT quiz_id, card_id, enabled, box, added_at, updated_at
FROM quiz_cards
WHERE quiz_id = ? AND card_id = ?
`, quizID, cardID).Scan(&m.QuizID, &m.CardID, &m.Enabled, &m.Box, &m.AddedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("membership not found: quiz_id=%d, card_id=%d", quizID, cardID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get membership: %v", err)
		return nil, err
	}
	return &m, nil
}

func (r *membershipRepository) Insert(ctx context.Context, m models.Membership) error {
	log := logger.FromContext(ctx).WithPrefix("membership_repo")
	log.Debug("inserting membership: quiz_id=%d, card_id=%d, box=%d", m.QuizID, m.CardID, m.Box)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO quiz_cards (quiz_id, card_id, enabled, box, added_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
`, m.QuizID, m.CardID, m.Enabled, m.Box, m.AddedAt, m.UpdatedAt)
	if err != nil {
		log.Error("failed to insert membership: %v", err)
	}
	return err
}

func (r *membershipRepository) SetEnabled(ctx context.Context, quizID, cardID int64, enabled bool, now time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("membership_repo")

	_, err := r.db.ExecContext(ctx, `
UPDATE quiz_cards
SET enabled = ?, updated_at = ?
WHERE quiz_id = ? AND card_id = ?
`, enabled, now, quizID, cardID)
	if err != nil {
		log.Error("failed to set membership enabled: %v", err)
	}
	return err
}

func (r *membershipRepository) UpdateBox(ctx context.Context, quizID, cardID int64, box int, now time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("membership_repo")
	log.Debug("updating box: quiz_id=%d, card_id=%d, box=%d", quizID, cardID, box)

	_, err := r.db.ExecContext(ctx, `
UPDATE quiz_cards
SET box = ?, updated_at = ?
WHERE quiz_id = ? AND card_id = ?
`, box, now, quizID, cardID)
	if err != nil {
		log.Error("failed to update box: %v", err)
	}
	return err
}

func (r *membershipRepository) CountEnabled(ctx context.Context, quizID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM quiz_cards WHERE quiz_id = ? AND enabled = 1
`, quizID).Scan(&count)
	return count, err
}

func (r *membershipRepository) CountEnabledAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM quiz_cards WHERE enabled = 1
`).Scan(&count)
	return count, err
}

func (r *membershipRepository) CountEnabledActive(ctx context.Context, quizID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*)
FROM quiz_cards qc
JOIN cards c ON c.id = qc.card_id
WHERE qc.quiz_id = ? AND qc.enabled = 1 AND c.status = ?
`, quizID, models.CardStatusActive).Scan(&count)
	return count, err
}

func (r *membershipRepository) ListSessionCards(ctx context.Context, quizID int64) ([]models.SessionCard, error) {
	log := logger.FromContext(ctx).WithPrefix("membership_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT qc.card_id, c.front, c.back, qc.box
FROM quiz_cards qc
JOIN cards c ON c.id = qc.card_id
WHERE qc.quiz_id = ? AND qc.enabled = 1
ORDER BY qc.card_id ASC
`, quizID)
	if err != nil {
		log.Error("failed to query quiz cards: %v", err)
		return nil, err
	}
	defer rows.Close()
	return scanSessionCards(rows)
}

// EligibleForSession selects the cards a new session would pull:
// enabled memberships of ACTIVE cards whose box is due today, ordered
// by card id, capped at limit.
func (r *membershipRepository) EligibleForSession(ctx context.Context, quizID int64, boxes []int, limit int) ([]models.SessionCard, error) {
	log := logger.FromContext(ctx).WithPrefix("membership_repo")
	log.Debug("selecting eligible cards: quiz_id=%d, boxes=%v, limit=%d", quizID, boxes, limit)

	query := sqlBuilder.Select("qc.card_id", "c.front", "c.back", "qc.box").
		From("quiz_cards qc").
		Join("cards c ON c.id = qc.card_id").
		Where(squirrel.Eq{
			"qc.quiz_id": quizID,
			"qc.enabled": true,
			"c.status":   models.CardStatusActive,
			"qc.box":     boxes,
		}).
		OrderBy("qc.card_id ASC").
		Limit(uint64(limit))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build eligibility query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query eligible cards: %v", err)
		return nil, err
	}
	defer rows.Close()
	return scanSessionCards(rows)
}

func (r *membershipRepository) CountEligible(ctx context.Context, quizID int64, boxes []int) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("membership_repo")

	query := sqlBuilder.Select("COUNT(*)").
		From("quiz_cards qc").
		Join("cards c ON c.id = qc.card_id").
		Where(squirrel.Eq{
			"qc.quiz_id": quizID,
			"qc.enabled": true,
			"c.status":   models.CardStatusActive,
			"qc.box":     boxes,
		})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build eligibility count query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		log.Error("failed to count eligible cards: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *membershipRepository) BoxOverview(ctx context.Context, quizID int64) ([]models.BoxCount, error) {
	log := logger.FromContext(ctx).WithPrefix("membership_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT qc.box, COUNT(*) AS card_count
FROM quiz_cards qc
JOIN cards c ON c.id = qc.card_id
WHERE qc.quiz_id = ? AND qc.enabled = 1 AND c.status = ?
GROUP BY qc.box
ORDER BY qc.box ASC
`, quizID, models.CardStatusActive)
	if err != nil {
		log.Error("failed to query box overview: %v", err)
		return nil, err
	}
	defer rows.Close()

	var overview []models.BoxCount
	for rows.Next() {
		var bc models.BoxCount
		if err := rows.Scan(&bc.Box, &bc.CardCount); err != nil {
			log.Error("failed to scan box count: %v", err)
			return nil, err
		}
		overview = append(overview, bc)
	}
	return overview, rows.Err()
}

func scanSessionCards(rows *sql.Rows) ([]models.SessionCard, error) {
	var cards []models.SessionCard
	for rows.Next() {
		var sc models.SessionCard
		if err := rows.Scan(&sc.CardID, &sc.Front, &sc.Back, &sc.Box); err != nil {
			return nil, err
		}
		cards = append(cards, sc)
	}
	return cards, rows.Err()
}
