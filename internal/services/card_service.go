package services

import (
	"context"
	"strings"
	"time"

	"github.com/sidequestlab/memoquiz/internal/errors"
	"github.com/sidequestlab/memoquiz/internal/logger"
	"github.com/sidequestlab/memoquiz/internal/models"
	"github.com/sidequestlab/memoquiz/internal/repository"
	"github.com/sidequestlab/memoquiz/internal/review"
)

const (
	maxFrontLength = 2000
	maxBackLength  = 10000
)

// CreateCardInput carries the fields for a new card. Box, when set,
// also enrolls the card in the default quiz at that box.
type CreateCardInput struct {
	Front string
	Back  string
	Box   *int
}

// UpdateCardInput carries a partial card update; nil fields are left
// unchanged.
type UpdateCardInput struct {
	Front  *string
	Back   *string
	Status *models.CardStatus
	Box    *int
}

// CardService handles card business logic
type CardService interface {
	ListCards(ctx context.Context, filter models.CardFilter) ([]models.CardWithBox, error)
	CreateCard(ctx context.Context, input CreateCardInput) (*models.CardWithBox, error)
	UpdateCard(ctx context.Context, id int64, input UpdateCardInput) (*models.CardWithBox, error)
	ActivateCard(ctx context.Context, id int64) (*models.CardWithBox, error)
}

type cardService struct {
	cards       repository.CardRepository
	memberships repository.MembershipRepository
	quizzes     QuizService
}

// NewCardService creates a new CardService
func NewCardService(
	cards repository.CardRepository,
	memberships repository.MembershipRepository,
	quizzes QuizService,
) CardService {
	return &cardService{cards: cards, memberships: memberships, quizzes: quizzes}
}

func (s *cardService) ListCards(ctx context.Context, filter models.CardFilter) ([]models.CardWithBox, error) {
	quizID, err := s.quizzes.DefaultQuizID(ctx)
	if err != nil {
		return nil, err
	}
	if filter.Status != "" && !models.ValidCardStatus(filter.Status) {
		return nil, errors.NewValidationError("status", "must be one of INACTIVE, ACTIVE, ARCHIVED")
	}
	if filter.Box != 0 && (filter.Box < 1 || filter.Box > review.MaxBox) {
		return nil, errors.NewValidationError("box", "must be between 1 and 7")
	}
	cards, err := s.cards.List(ctx, quizID, filter)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return cards, nil
}

// CreateCard inserts a new INACTIVE card. When a box is supplied the
// card is immediately enrolled in the default quiz at that box.
func (s *cardService) CreateCard(ctx context.Context, input CreateCardInput) (*models.CardWithBox, error) {
	log := logger.FromContext(ctx)

	front := strings.TrimSpace(input.Front)
	back := strings.TrimSpace(input.Back)
	if err := validateCardText(front, back); err != nil {
		return nil, err
	}
	if input.Box != nil && (*input.Box < 1 || *input.Box > review.MaxBox) {
		return nil, errors.NewValidationError("box", "must be between 1 and 7")
	}

	now := time.Now()
	card := models.Card{
		Front:     front,
		Back:      back,
		Status:    models.CardStatusInactive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	id, err := s.cards.Insert(ctx, card)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	card.ID = id
	log.Info("card created: id=%d", id)

	result := &models.CardWithBox{Card: card}
	if input.Box != nil {
		quizID, err := s.quizzes.DefaultQuizID(ctx)
		if err != nil {
			return nil, err
		}
		err = s.memberships.Insert(ctx, models.Membership{
			QuizID:    quizID,
			CardID:    id,
			Enabled:   true,
			Box:       *input.Box,
			AddedAt:   now,
			UpdatedAt: now,
		})
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
		result.Box = *input.Box
	}
	return result, nil
}

func (s *cardService) UpdateCard(ctx context.Context, id int64, input UpdateCardInput) (*models.CardWithBox, error) {
	log := logger.FromContext(ctx)

	card, err := s.cards.Get(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card", id)
	}

	if input.Front != nil {
		card.Front = strings.TrimSpace(*input.Front)
	}
	if input.Back != nil {
		card.Back = strings.TrimSpace(*input.Back)
	}
	if err := validateCardText(card.Front, card.Back); err != nil {
		return nil, err
	}
	if input.Status != nil {
		if !models.ValidCardStatus(*input.Status) {
			return nil, errors.NewValidationError("status", "must be one of INACTIVE, ACTIVE, ARCHIVED")
		}
		card.Status = *input.Status
	}
	if input.Box != nil && (*input.Box < 1 || *input.Box > review.MaxBox) {
		return nil, errors.NewValidationError("box", "must be between 1 and 7")
	}

	now := time.Now()
	card.UpdatedAt = now
	if err := s.cards.Update(ctx, *card); err != nil {
		return nil, errors.NewInternalError(err)
	}
	log.Info("card updated: id=%d", id)

	quizID, err := s.quizzes.DefaultQuizID(ctx)
	if err != nil {
		return nil, err
	}
	if input.Box != nil {
		membership, err := s.memberships.Get(ctx, quizID, id)
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
		if membership == nil {
			err = s.memberships.Insert(ctx, models.Membership{
				QuizID:    quizID,
				CardID:    id,
				Enabled:   true,
				Box:       *input.Box,
				AddedAt:   now,
				UpdatedAt: now,
			})
		} else {
			err = s.memberships.UpdateBox(ctx, quizID, id, *input.Box, now)
		}
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
	}
	return s.cardWithBox(ctx, quizID, card)
}

// ActivateCard flips a card to ACTIVE, making it eligible for session
// selection.
func (s *cardService) ActivateCard(ctx context.Context, id int64) (*models.CardWithBox, error) {
	log := logger.FromContext(ctx)

	card, err := s.cards.Get(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card", id)
	}

	if card.Status != models.CardStatusActive {
		card.Status = models.CardStatusActive
		card.UpdatedAt = time.Now()
		if err := s.cards.Update(ctx, *card); err != nil {
			return nil, errors.NewInternalError(err)
		}
		log.Info("card activated: id=%d", id)
	}

	quizID, err := s.quizzes.DefaultQuizID(ctx)
	if err != nil {
		return nil, err
	}
	return s.cardWithBox(ctx, quizID, card)
}

func (s *cardService) cardWithBox(ctx context.Context, quizID int64, card *models.Card) (*models.CardWithBox, error) {
	membership, err := s.memberships.Get(ctx, quizID, card.ID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	result := &models.CardWithBox{Card: *card}
	if membership != nil {
		result.Box = membership.Box
	}
	return result, nil
}

func validateCardText(front, back string) error {
	if front == "" {
		return errors.NewValidationError("front", "must not be blank")
	}
	if back == "" {
		return errors.NewValidationError("back", "must not be blank")
	}
	if len(front) > maxFrontLength {
		return errors.NewValidationError("front", "exceeds maximum length")
	}
	if len(back) > maxBackLength {
		return errors.NewValidationError("back", "exceeds maximum length")
	}
	return nil
}
