package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/sidequestlab/memoquiz/internal/logger"
	"github.com/sidequestlab/memoquiz/internal/models"
	"github.com/sidequestlab/memoquiz/internal/repository"
)

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Get(ctx context.Context, id int64) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	var c models.Card
	err := r.db.QueryRowContext(ctx, `
SELECT id, front, back, status, created_at, updated_at
FROM cards
WHERE id = ?
`, id).Scan(&c.ID, &c.Front, &c.Back, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, err
	}
	return &c, nil
}

// List returns cards joined with their box in the given quiz. Cards
// without a membership carry box 0.
func (r *cardRepository) List(ctx context.Context, quizID int64, filter models.CardFilter) ([]models.CardWithBox, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cards: q=%q, status=%s, box=%d, limit=%d, offset=%d",
		filter.Query, filter.Status, filter.Box, filter.Limit, filter.Offset)

	query := sqlBuilder.Select(
		"c.id", "c.front", "c.back", "c.status", "c.created_at", "c.updated_at",
		"COALESCE(qc.box, 0)",
	).
		From("cards c").
		LeftJoin("quiz_cards qc ON qc.card_id = c.id AND qc.quiz_id = ?", quizID)

	if filter.Query != "" {
		like := "%" + strings.ToLower(strings.TrimSpace(filter.Query)) + "%"
		query = query.Where(squirrel.Or{
			squirrel.Like{"LOWER(c.front)": like},
			squirrel.Like{"LOWER(c.back)": like},
		})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"c.status": filter.Status})
	}
	if filter.Box > 0 {
		query = query.Where(squirrel.Eq{"qc.box": filter.Box})
	}

	query = query.OrderBy(orderClause(filter.Sort))
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build card list query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var cards []models.CardWithBox
	for rows.Next() {
		var c models.CardWithBox
		if err := rows.Scan(&c.ID, &c.Front, &c.Back, &c.Status, &c.CreatedAt, &c.UpdatedAt, &c.Box); err != nil {
			log.Error("failed to scan card row: %v", err)
			return nil, err
		}
		cards = append(cards, c)
	}
	log.Debug("found %d cards", len(cards))
	return cards, rows.Err()
}

func (r *cardRepository) Insert(ctx context.Context, c models.Card) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	res, err := r.db.ExecContext(ctx, `
INSERT INTO cards (front, back, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
`, c.Front, c.Back, c.Status, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		log.Error("failed to insert card: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get card id: %v", err)
		return 0, err
	}
	log.Debug("card inserted: id=%d", id)
	return id, nil
}

func (r *cardRepository) Update(ctx context.Context, c models.Card) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	_, err := r.db.ExecContext(ctx, `
UPDATE cards
SET front = ?, back = ?, status = ?, updated_at = ?
WHERE id = ?
`, c.Front, c.Back, c.Status, c.UpdatedAt, c.ID)
	if err != nil {
		log.Error("failed to update card: %v", err)
	}
	return err
}

func orderClause(sort string) string {
	switch strings.TrimSpace(sort) {
	case "id,desc":
		return "c.id DESC"
	case "createdAt,asc":
		return "c.created_at ASC"
	case "createdAt,desc":
		return "c.created_at DESC"
	default:
		return "c.id ASC"
	}
}
