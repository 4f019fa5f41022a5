package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sidequestlab/memoquiz/internal/logger"
	"github.com/sidequestlab/memoquiz/internal/models"
	"github.com/sidequestlab/memoquiz/internal/repository"
)

type quizRepository struct {
	db *sql.DB
}

// NewQuizRepository creates a new QuizRepository implementation
func NewQuizRepository(db *sql.DB) repository.QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) GetByCode(ctx context.Context, code string) (*models.Quiz, error) {
	log := logger.FromContext(ctx).WithPrefix("quiz_repo")

	var q models.Quiz
	err := r.db.QueryRowContext(ctx, `
SELECT id, code, title
FROM quizzes
WHERE code = ?
`, code).Scan(&q.ID, &q.Code, &q.Title)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("quiz not found: code=%s", code)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get quiz: %v", err)
		return nil, err
	}
	return &q, nil
}

func (r *quizRepository) List(ctx context.Context) ([]models.Quiz, error) {
	log := logger.FromContext(ctx).WithPrefix("quiz_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT id, code, title
FROM quizzes
ORDER BY id ASC
`)
	if err != nil {
		log.Error("failed to query quizzes: %v", err)
		return nil, err
	}
	defer rows.Close()

	var quizzes []models.Quiz
	for rows.Next() {
		var q models.Quiz
		if err := rows.Scan(&q.ID, &q.Code, &q.Title); err != nil {
			log.Error("failed to scan quiz row: %v", err)
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

func (r *quizRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quizzes`).Scan(&count)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("quiz_repo").Error("failed to count quizzes: %v", err)
		return 0, err
	}
	return count, nil
}
