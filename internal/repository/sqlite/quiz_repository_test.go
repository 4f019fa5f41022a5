package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/sidequestlab/memoquiz/internal/repository"
	"github.com/sidequestlab/memoquiz/internal/repository/sqlite"
	"github.com/sidequestlab/memoquiz/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type QuizRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.QuizRepository
}

func (s *QuizRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewQuizRepository(s.db)
}

func (s *QuizRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *QuizRepositorySuite) TestDefaultQuizIsSeeded() {
	quiz, err := s.repo.GetByCode(context.Background(), "default")
	s.Require().NoError(err)
	s.Require().NotNil(quiz)
	s.Assert().Equal("default", quiz.Code)
}

func (s *QuizRepositorySuite) TestGetByCodeMissingReturnsNil() {
	quiz, err := s.repo.GetByCode(context.Background(), "nonexistent")
	s.Require().NoError(err)
	s.Assert().Nil(quiz)
}

func (s *QuizRepositorySuite) TestListAndCount() {
	ctx := context.Background()

	_, err := s.db.Exec(`INSERT INTO quizzes (code, title) VALUES ('geography', 'Geography')`)
	s.Require().NoError(err)

	quizzes, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(quizzes, 2)
	s.Assert().Equal("default", quizzes[0].Code)
	s.Assert().Equal("geography", quizzes[1].Code)

	count, err := s.repo.Count(ctx)
	s.Require().NoError(err)
	s.Assert().Equal(2, count)
}

func TestQuizRepositorySuite(t *testing.T) {
	suite.Run(t, new(QuizRepositorySuite))
}
