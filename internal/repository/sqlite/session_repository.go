package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sidequestlab/memoquiz/internal/logger"
	"github.com/sidequestlab/memoquiz/internal/models"
	"github.com/sidequestlab/memoquiz/internal/repository"
)

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository implementation
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Get(ctx context.Context, id int64) (*models.Session, error) {
	return r.getOne(ctx, `
SELECT id, started_at, session_date, day_index
FROM sessions
WHERE id = ?
`, id)
}

func (r *sessionRepository) GetByDate(ctx context.Context, date string) (*models.Session, error) {
	return r.getOne(ctx, `
SELECT id, started_at, session_date, day_index
FROM sessions
WHERE session_date = ?
`, date)
}

func (r *sessionRepository) Last(ctx context.Context) (*models.Session, error) {
	return r.getOne(ctx, `
SELECT id, started_at, session_date, day_index
FROM sessions
ORDER BY started_at DESC, id DESC
LIMIT 1
`)
}

func (r *sessionRepository) getOne(ctx context.Context, query string, args ...any) (*models.Session, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")

	var s models.Session
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&s.ID, &s.StartedAt, &s.Date, &s.DayIndex)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get session: %v", err)
		return nil, err
	}
	return &s, nil
}

// Create writes the session row and its item snapshots in one
// transaction. A same-day duplicate trips the session_date uniqueness
// constraint and surfaces as repository.ErrDuplicateSession.
func (r *sessionRepository) Create(ctx context.Context, session models.Session, items []models.SessionItem) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("creating session: date=%s, day_index=%d, items=%d", session.Date, session.DayIndex, len(items))

	var id int64
	err := tx(ctx, r.db, func(t *sql.Tx) error {
		res, err := t.ExecContext(ctx, `
INSERT INTO sessions (started_at, session_date, day_index)
VALUES (?, ?, ?)
`, session.StartedAt, session.Date, session.DayIndex)
		if err != nil {
			if isUniqueViolation(err) {
				return repository.ErrDuplicateSession
			}
			return err
		}
		id, err = res.LastInsertId()
		if err != nil {
			return err
		}
		for _, item := range items {
			if _, err := t.ExecContext(ctx, `
INSERT INTO session_items (session_id, card_id, box)
VALUES (?, ?, ?)
`, id, item.CardID, item.Box); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, repository.ErrDuplicateSession) {
			log.Error("failed to create session: %v", err)
		}
		return 0, err
	}
	log.Debug("session created: id=%d", id)
	return id, nil
}

func (r *sessionRepository) GetItem(ctx context.Context, sessionID, cardID int64) (*models.SessionItem, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")

	var item models.SessionItem
	err := r.db.QueryRowContext(ctx, `
SELECT session_id, card_id, box
FROM session_items
WHERE session_id = ? AND card_id = ?
`, sessionID, cardID).Scan(&item.SessionID, &item.CardID, &item.Box)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("session item not found: session_id=%d, card_id=%d", sessionID, cardID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get session item: %v", err)
		return nil, err
	}
	return &item, nil
}

func (r *sessionRepository) CountItems(ctx context.Context, sessionID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM session_items WHERE session_id = ?
`, sessionID).Scan(&count)
	return count, err
}

// CardsForSession resolves a session's item snapshots back to cards,
// keeping the box each card was in when the session was generated.
func (r *sessionRepository) CardsForSession(ctx context.Context, sessionID int64) ([]models.SessionCard, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT si.card_id, c.front, c.back, si.box
FROM session_items si
JOIN cards c ON c.id = si.card_id
WHERE si.session_id = ?
ORDER BY si.card_id ASC
`, sessionID)
	if err != nil {
		log.Error("failed to query session cards: %v", err)
		return nil, err
	}
	defer rows.Close()
	return scanSessionCards(rows)
}
