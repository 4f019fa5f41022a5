package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sidequestlab/memoquiz/internal/models"
)

// ErrDuplicateSession is returned by SessionRepository.Create when a
// session already exists for the same calendar day. The uniqueness
// constraint on the day bucket is the serialization point for the
// one-session-per-day policy.
var ErrDuplicateSession = errors.New("session already exists for this day")

// ErrStaleBox is returned by ReviewLogRepository.RecordAnswer when the
// membership box no longer matches the box the answer was graded
// against. Callers re-read the membership and retry.
var ErrStaleBox = errors.New("membership box changed since read")

// CardRepository handles card data access
type CardRepository interface {
	Get(ctx context.Context, id int64) (*models.Card, error)
	List(ctx context.Context, quizID int64, filter models.CardFilter) ([]models.CardWithBox, error)
	Insert(ctx context.Context, card models.Card) (int64, error)
	Update(ctx context.Context, card models.Card) error
}

// QuizRepository handles quiz data access
type QuizRepository interface {
	GetByCode(ctx context.Context, code string) (*models.Quiz, error)
	List(ctx context.Context) ([]models.Quiz, error)
	Count(ctx context.Context) (int, error)
}

// MembershipRepository handles quiz-card membership data access,
// including the box state carried on each membership row.
type MembershipRepository interface {
	Get(ctx context.Context, quizID, cardID int64) (*models.Membership, error)
	Insert(ctx context.Context, m models.Membership) error
	SetEnabled(ctx context.Context, quizID, cardID int64, enabled bool, now time.Time) error
	UpdateBox(ctx context.Context, quizID, cardID int64, box int, now time.Time) error
	CountEnabled(ctx context.Context, quizID int64) (int, error)
	CountEnabledAll(ctx context.Context) (int, error)
	CountEnabledActive(ctx context.Context, quizID int64) (int, error)
	ListSessionCards(ctx context.Context, quizID int64) ([]models.SessionCard, error)
	EligibleForSession(ctx context.Context, quizID int64, boxes []int, limit int) ([]models.SessionCard, error)
	CountEligible(ctx context.Context, quizID int64, boxes []int) (int, error)
	BoxOverview(ctx context.Context, quizID int64) ([]models.BoxCount, error)
}

// SessionRepository handles session and session-item data access
type SessionRepository interface {
	Get(ctx context.Context, id int64) (*models.Session, error)
	GetByDate(ctx context.Context, date string) (*models.Session, error)
	Last(ctx context.Context) (*models.Session, error)
	Create(ctx context.Context, session models.Session, items []models.SessionItem) (int64, error)
	GetItem(ctx context.Context, sessionID, cardID int64) (*models.SessionItem, error)
	CountItems(ctx context.Context, sessionID int64) (int, error)
	CardsForSession(ctx context.Context, sessionID int64) ([]models.SessionCard, error)
}

// ReviewLogRepository handles the append-only answer history
type ReviewLogRepository interface {
	RecordAnswer(ctx context.Context, quizID int64, log models.ReviewLog) error
	CountBySession(ctx context.Context, sessionID int64) (int, error)
	CountCorrectBySession(ctx context.Context, sessionID int64) (int, error)
	ListBySession(ctx context.Context, sessionID int64) ([]models.ReviewLog, error)
}

// SettingsRepository handles the singleton cycle-anchor row
type SettingsRepository interface {
	Get(ctx context.Context) (*models.ScheduleSettings, error)
	Insert(ctx context.Context, startDate time.Time) (*models.ScheduleSettings, error)
}
