package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/sidequestlab/memoquiz/internal/models"
	"github.com/sidequestlab/memoquiz/internal/repository"
	"github.com/sidequestlab/memoquiz/internal/repository/sqlite"
	"github.com/sidequestlab/memoquiz/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type MembershipRepositorySuite struct {
	suite.Suite
	db     *sql.DB
	repo   repository.MembershipRepository
	quizID int64
}

func (s *MembershipRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewMembershipRepository(s.db)

	err := s.db.QueryRow(`SELECT id FROM quizzes WHERE code = 'default'`).Scan(&s.quizID)
	s.Require().NoError(err)
}

func (s *MembershipRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *MembershipRepositorySuite) insertCard(front string, status models.CardStatus) int64 {
	res, err := s.db.Exec(`INSERT INTO cards (front, back, status) VALUES (?, ?, ?)`, front, "back of "+front, status)
	s.Require().NoError(err)
	id, err := res.LastInsertId()
	s.Require().NoError(err)
	return id
}

func (s *MembershipRepositorySuite) enroll(cardID int64, box int, enabled bool) {
	err := s.repo.Insert(context.Background(), models.Membership{
		QuizID:    s.quizID,
		CardID:    cardID,
		Enabled:   enabled,
		Box:       box,
		AddedAt:   time.Now(),
		UpdatedAt: time.Now(),
	})
	s.Require().NoError(err)
}

func (s *MembershipRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()
	cardID := s.insertCard("a", models.CardStatusActive)
	s.enroll(cardID, 3, true)

	m, err := s.repo.Get(ctx, s.quizID, cardID)
	s.Require().NoError(err)
	s.Require().NotNil(m)
	s.Assert().Equal(3, m.Box)
	s.Assert().True(m.Enabled)
}

func (s *MembershipRepositorySuite) TestGetMissingReturnsNil() {
	m, err := s.repo.Get(context.Background(), s.quizID, 9999)
	s.Require().NoError(err)
	s.Assert().Nil(m)
}

func (s *MembershipRepositorySuite) TestSetEnabledAndUpdateBox() {
	ctx := context.Background()
	cardID := s.insertCard("a", models.CardStatusActive)
	s.enroll(cardID, 1, true)

	s.Require().NoError(s.repo.SetEnabled(ctx, s.quizID, cardID, false, time.Now()))
	m, err := s.repo.Get(ctx, s.quizID, cardID)
	s.Require().NoError(err)
	s.Assert().False(m.Enabled)
	s.Assert().Equal(1, m.Box)

	s.Require().NoError(s.repo.UpdateBox(ctx, s.quizID, cardID, 5, time.Now()))
	m, err = s.repo.Get(ctx, s.quizID, cardID)
	s.Require().NoError(err)
	s.Assert().Equal(5, m.Box)
}

func (s *MembershipRepositorySuite) TestCounts() {
	ctx := context.Background()

	active := s.insertCard("active", models.CardStatusActive)
	inactive := s.insertCard("inactive", models.CardStatusInactive)
	disabled := s.insertCard("disabled", models.CardStatusActive)

	s.enroll(active, 1, true)
	s.enroll(inactive, 1, true)
	s.enroll(disabled, 1, false)

	enabled, err := s.repo.CountEnabled(ctx, s.quizID)
	s.Require().NoError(err)
	s.Assert().Equal(2, enabled)

	all, err := s.repo.CountEnabledAll(ctx)
	s.Require().NoError(err)
	s.Assert().Equal(2, all)

	enabledActive, err := s.repo.CountEnabledActive(ctx, s.quizID)
	s.Require().NoError(err)
	s.Assert().Equal(1, enabledActive)
}

func (s *MembershipRepositorySuite) TestEligibleForSessionFiltersAndCaps() {
	ctx := context.Background()

	// Due boxes are 1 and 2; card in box 3, disabled card and inactive
	// card must all be skipped.
	dueA := s.insertCard("due a", models.CardStatusActive)
	dueB := s.insertCard("due b", models.CardStatusActive)
	wrongBox := s.insertCard("wrong box", models.CardStatusActive)
	disabled := s.insertCard("disabled", models.CardStatusActive)
	inactive := s.insertCard("inactive", models.CardStatusInactive)

	s.enroll(dueA, 1, true)
	s.enroll(dueB, 2, true)
	s.enroll(wrongBox, 3, true)
	s.enroll(disabled, 1, false)
	s.enroll(inactive, 1, true)

	cards, err := s.repo.EligibleForSession(ctx, s.quizID, []int{1, 2}, 20)
	s.Require().NoError(err)
	s.Require().Len(cards, 2)
	s.Assert().Equal(dueA, cards[0].CardID)
	s.Assert().Equal(dueB, cards[1].CardID)

	capped, err := s.repo.EligibleForSession(ctx, s.quizID, []int{1, 2}, 1)
	s.Require().NoError(err)
	s.Require().Len(capped, 1)
	s.Assert().Equal(dueA, capped[0].CardID)

	count, err := s.repo.CountEligible(ctx, s.quizID, []int{1, 2})
	s.Require().NoError(err)
	s.Assert().Equal(2, count)
}

func (s *MembershipRepositorySuite) TestListSessionCards() {
	ctx := context.Background()

	a := s.insertCard("a", models.CardStatusActive)
	b := s.insertCard("b", models.CardStatusInactive)
	disabled := s.insertCard("c", models.CardStatusActive)

	s.enroll(a, 2, true)
	s.enroll(b, 1, true)
	s.enroll(disabled, 1, false)

	cards, err := s.repo.ListSessionCards(ctx, s.quizID)
	s.Require().NoError(err)
	s.Require().Len(cards, 2)
	s.Assert().Equal(a, cards[0].CardID)
	s.Assert().Equal(2, cards[0].Box)
	s.Assert().Equal(b, cards[1].CardID)
}

func (s *MembershipRepositorySuite) TestBoxOverview() {
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		id := s.insertCard("box1", models.CardStatusActive)
		s.enroll(id, 1, true)
	}
	id := s.insertCard("box5", models.CardStatusActive)
	s.enroll(id, 5, true)

	overview, err := s.repo.BoxOverview(ctx, s.quizID)
	s.Require().NoError(err)
	s.Require().Len(overview, 2)
	s.Assert().Equal(models.BoxCount{Box: 1, CardCount: 3}, overview[0])
	s.Assert().Equal(models.BoxCount{Box: 5, CardCount: 1}, overview[1])
}

func TestMembershipRepositorySuite(t *testing.T) {
	suite.Run(t, new(MembershipRepositorySuite))
}
