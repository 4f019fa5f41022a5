package services

import (
	"context"
	"time"

	"github.com/sidequestlab/memoquiz/internal/errors"
	"github.com/sidequestlab/memoquiz/internal/logger"
	"github.com/sidequestlab/memoquiz/internal/models"
	"github.com/sidequestlab/memoquiz/internal/repository"
)

// DefaultQuizCode identifies the quiz all scheduling operates against.
const DefaultQuizCode = "default"

// QuizService handles quiz and membership business logic
type QuizService interface {
	DefaultQuizID(ctx context.Context) (int64, error)
	ListQuizzes(ctx context.Context) ([]models.QuizSummary, error)
	Overview(ctx context.Context) (*models.QuizOverview, error)
	ListDefaultQuizCards(ctx context.Context) ([]models.SessionCard, error)
	AddCardToDefaultQuiz(ctx context.Context, cardID int64) error
	RemoveCardFromDefaultQuiz(ctx context.Context, cardID int64) error
}

type quizService struct {
	quizzes     repository.QuizRepository
	memberships repository.MembershipRepository
	cards       repository.CardRepository
}

// NewQuizService creates a new QuizService
func NewQuizService(
	quizzes repository.QuizRepository,
	memberships repository.MembershipRepository,
	cards repository.CardRepository,
) QuizService {
	return &quizService{quizzes: quizzes, memberships: memberships, cards: cards}
}

func (s *quizService) DefaultQuizID(ctx context.Context) (int64, error) {
	quiz, err := s.quizzes.GetByCode(ctx, DefaultQuizCode)
	if err != nil {
		return 0, errors.NewInternalError(err)
	}
	if quiz == nil {
		return 0, errors.NewNotFoundError("quiz", DefaultQuizCode)
	}
	return quiz.ID, nil
}

func (s *quizService) ListQuizzes(ctx context.Context) ([]models.QuizSummary, error) {
	quizzes, err := s.quizzes.List(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	summaries := make([]models.QuizSummary, 0, len(quizzes))
	for _, quiz := range quizzes {
		count, err := s.memberships.CountEnabled(ctx, quiz.ID)
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
		summaries = append(summaries, models.QuizSummary{
			ID:        quiz.ID,
			Title:     quiz.Title,
			CardCount: count,
		})
	}
	return summaries, nil
}

func (s *quizService) Overview(ctx context.Context) (*models.QuizOverview, error) {
	totalQuizzes, err := s.quizzes.Count(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	totalCards, err := s.memberships.CountEnabledAll(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return &models.QuizOverview{TotalQuizzes: totalQuizzes, TotalCards: totalCards}, nil
}

func (s *quizService) ListDefaultQuizCards(ctx context.Context) ([]models.SessionCard, error) {
	quizID, err := s.DefaultQuizID(ctx)
	if err != nil {
		return nil, err
	}
	cards, err := s.memberships.ListSessionCards(ctx, quizID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return cards, nil
}

// AddCardToDefaultQuiz creates an enabled membership starting at box 1,
// or re-enables a disabled one. An existing membership keeps its box.
func (s *quizService) AddCardToDefaultQuiz(ctx context.Context, cardID int64) error {
	log := logger.FromContext(ctx)
	log.Debug("adding card to default quiz: card_id=%d", cardID)

	quizID, err := s.DefaultQuizID(ctx)
	if err != nil {
		return err
	}

	card, err := s.cards.Get(ctx, cardID)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if card == nil {
		return errors.NewNotFoundError("card", cardID)
	}

	membership, err := s.memberships.Get(ctx, quizID, cardID)
	if err != nil {
		return errors.NewInternalError(err)
	}

	now := time.Now()
	if membership == nil {
		err := s.memberships.Insert(ctx, models.Membership{
			QuizID:    quizID,
			CardID:    cardID,
			Enabled:   true,
			Box:       1,
			AddedAt:   now,
			UpdatedAt: now,
		})
		if err != nil {
			return errors.NewInternalError(err)
		}
		return nil
	}

	if !membership.Enabled {
		if err := s.memberships.SetEnabled(ctx, quizID, cardID, true, now); err != nil {
			return errors.NewInternalError(err)
		}
	}
	return nil
}

// RemoveCardFromDefaultQuiz disables the membership; box state is
// retained so a re-added card resumes where it left off.
func (s *quizService) RemoveCardFromDefaultQuiz(ctx context.Context, cardID int64) error {
	log := logger.FromContext(ctx)
	log.Debug("removing card from default quiz: card_id=%d", cardID)

	quizID, err := s.DefaultQuizID(ctx)
	if err != nil {
		return err
	}

	membership, err := s.memberships.Get(ctx, quizID, cardID)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if membership == nil {
		return errors.NewNotFoundError("quiz membership", cardID)
	}

	if membership.Enabled {
		if err := s.memberships.SetEnabled(ctx, quizID, cardID, false, time.Now()); err != nil {
			return errors.NewInternalError(err)
		}
	}
	return nil
}
