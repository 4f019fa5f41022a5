package services_test

import (
	"context"
	"testing"

	apperrors "github.com/sidequestlab/memoquiz/internal/errors"
	"github.com/sidequestlab/memoquiz/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type QuizServiceSuite struct {
	suite.Suite
	env *testEnv
}

func (s *QuizServiceSuite) SetupTest() {
	s.env = newTestEnv(s.T())
}

func (s *QuizServiceSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.env.db)
}

func (s *QuizServiceSuite) TestDefaultQuizID() {
	id, err := s.env.quizzes.DefaultQuizID(context.Background())
	s.Require().NoError(err)
	s.Assert().Greater(id, int64(0))
}

func (s *QuizServiceSuite) TestAddCardStartsAtBoxOne() {
	ctx := context.Background()
	cardID := s.env.insertCard(s.T(), "q", "a", "ACTIVE")

	s.Require().NoError(s.env.quizzes.AddCardToDefaultQuiz(ctx, cardID))

	var enabled bool
	var box int
	err := s.env.db.QueryRow(`SELECT enabled, box FROM quiz_cards WHERE card_id = ?`, cardID).Scan(&enabled, &box)
	s.Require().NoError(err)
	s.Assert().True(enabled)
	s.Assert().Equal(1, box)
}

func (s *QuizServiceSuite) TestAddMissingCard() {
	err := s.env.quizzes.AddCardToDefaultQuiz(context.Background(), 9999)
	s.Require().Error(err)
	var appErr *apperrors.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Assert().Equal(apperrors.ErrCodeNotFound, appErr.Code)
}

func (s *QuizServiceSuite) TestRemoveKeepsBoxForReAdd() {
	ctx := context.Background()
	cardID := s.env.insertCard(s.T(), "q", "a", "ACTIVE")
	s.env.enroll(s.T(), cardID, 4, true)

	s.Require().NoError(s.env.quizzes.RemoveCardFromDefaultQuiz(ctx, cardID))

	var enabled bool
	var box int
	err := s.env.db.QueryRow(`SELECT enabled, box FROM quiz_cards WHERE card_id = ?`, cardID).Scan(&enabled, &box)
	s.Require().NoError(err)
	s.Assert().False(enabled)
	s.Assert().Equal(4, box)

	// Re-adding resumes from the retained box.
	s.Require().NoError(s.env.quizzes.AddCardToDefaultQuiz(ctx, cardID))
	err = s.env.db.QueryRow(`SELECT enabled, box FROM quiz_cards WHERE card_id = ?`, cardID).Scan(&enabled, &box)
	s.Require().NoError(err)
	s.Assert().True(enabled)
	s.Assert().Equal(4, box)
}

func (s *QuizServiceSuite) TestRemoveWithoutMembership() {
	cardID := s.env.insertCard(s.T(), "q", "a", "ACTIVE")

	err := s.env.quizzes.RemoveCardFromDefaultQuiz(context.Background(), cardID)
	s.Require().Error(err)
	var appErr *apperrors.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Assert().Equal(apperrors.ErrCodeNotFound, appErr.Code)
}

func (s *QuizServiceSuite) TestListQuizzesAndOverview() {
	ctx := context.Background()

	a := s.env.insertCard(s.T(), "a", "1", "ACTIVE")
	b := s.env.insertCard(s.T(), "b", "2", "INACTIVE")
	s.env.enroll(s.T(), a, 1, true)
	s.env.enroll(s.T(), b, 2, true)

	quizzes, err := s.env.quizzes.ListQuizzes(ctx)
	s.Require().NoError(err)
	s.Require().Len(quizzes, 1)
	s.Assert().Equal(2, quizzes[0].CardCount)

	overview, err := s.env.quizzes.Overview(ctx)
	s.Require().NoError(err)
	s.Assert().Equal(1, overview.TotalQuizzes)
	s.Assert().Equal(2, overview.TotalCards)

	cards, err := s.env.quizzes.ListDefaultQuizCards(ctx)
	s.Require().NoError(err)
	s.Require().Len(cards, 2)
	s.Assert().Equal(a, cards[0].CardID)
}

func TestQuizServiceSuite(t *testing.T) {
	suite.Run(t, new(QuizServiceSuite))
}
