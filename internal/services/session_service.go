package services

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/sidequestlab/memoquiz/internal/errors"
	"github.com/sidequestlab/memoquiz/internal/logger"
	"github.com/sidequestlab/memoquiz/internal/models"
	"github.com/sidequestlab/memoquiz/internal/repository"
	"github.com/sidequestlab/memoquiz/internal/review"
	"github.com/sidequestlab/memoquiz/internal/schedule"
)

const sessionDateLayout = "2006-01-02"

// TodaySession is the session returned to a client: either the one
// already started today or a freshly generated one.
type TodaySession struct {
	SessionID int64                `json:"session_id"`
	StartedAt time.Time            `json:"started_at"`
	DayIndex  int                  `json:"day_index"`
	Cards     []models.SessionCard `json:"cards"`
}

// AnswerResult reports the outcome of grading a single answer.
type AnswerResult struct {
	Correct    bool      `json:"correct"`
	NextBox    int       `json:"next_box"`
	NextReview time.Time `json:"next_review"`
}

// SessionService generates review sessions and grades answers
type SessionService interface {
	TodaySession(ctx context.Context) (*TodaySession, error)
	Answer(ctx context.Context, sessionID, cardID int64, answer string) (*AnswerResult, error)
}

type sessionService struct {
	sessions    repository.SessionRepository
	memberships repository.MembershipRepository
	cards       repository.CardRepository
	reviewLogs  repository.ReviewLogRepository
	settings    repository.SettingsRepository
	quizzes     QuizService
	schedule    *schedule.Schedule
	cardLimit   int
}

// NewSessionService creates a new SessionService
func NewSessionService(
	sessions repository.SessionRepository,
	memberships repository.MembershipRepository,
	cards repository.CardRepository,
	reviewLogs repository.ReviewLogRepository,
	settings repository.SettingsRepository,
	quizzes QuizService,
	sched *schedule.Schedule,
	cardLimit int,
) SessionService {
	return &sessionService{
		sessions:    sessions,
		memberships: memberships,
		cards:       cards,
		reviewLogs:  reviewLogs,
		settings:    settings,
		quizzes:     quizzes,
		schedule:    sched,
		cardLimit:   cardLimit,
	}
}

// TodaySession returns today's session, creating it on first call of
// the day. The new session snapshots up to cardLimit eligible cards
// from the boxes due on today's cycle day; a day with no due boxes
// still produces a (zero-card) session so the day is marked as
// visited.
func (s *sessionService) TodaySession(ctx context.Context) (*TodaySession, error) {
	log := logger.FromContext(ctx)

	now := time.Now()
	today := now.Format(sessionDateLayout)

	existing, err := s.sessions.GetByDate(ctx, today)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if existing != nil {
		return s.loadSession(ctx, existing)
	}

	startDate, err := s.cycleStart(ctx, now)
	if err != nil {
		return nil, err
	}
	dayIndex := schedule.DayIndex(startDate, now, s.schedule.CycleLength())
	boxes, err := s.schedule.BoxesForDay(dayIndex)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	var cards []models.SessionCard
	if len(boxes) > 0 {
		quizID, err := s.quizzes.DefaultQuizID(ctx)
		if err != nil {
			return nil, err
		}
		cards, err = s.memberships.EligibleForSession(ctx, quizID, boxes, s.cardLimit)
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
	}

	items := make([]models.SessionItem, 0, len(cards))
	for _, card := range cards {
		items = append(items, models.SessionItem{CardID: card.CardID, Box: card.Box})
	}

	session := models.Session{StartedAt: now, Date: today, DayIndex: dayIndex}
	id, err := s.sessions.Create(ctx, session, items)
	if stderrors.Is(err, repository.ErrDuplicateSession) {
		return nil, errors.NewConflictError("a session has already been started today")
	}
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	log.Info("session started: id=%d, day_index=%d, cards=%d", id, dayIndex, len(cards))
	if cards == nil {
		cards = []models.SessionCard{}
	}
	return &TodaySession{
		SessionID: id,
		StartedAt: now,
		DayIndex:  dayIndex,
		Cards:     cards,
	}, nil
}

// answerRetryLimit bounds the optimistic retries when a concurrent
// answer moves the box between our read and write.
const answerRetryLimit = 3

// Answer grades one answer against the card's back text, rotates the
// membership box and appends a review log entry. The card must belong
// to the session's snapshot and still be enabled in the default quiz.
// The box transition is applied optimistically: the write only lands
// if the box still matches the one the answer was graded against,
// otherwise the membership is re-read and the transition recomputed.
func (s *sessionService) Answer(ctx context.Context, sessionID, cardID int64, answer string) (*AnswerResult, error) {
	log := logger.FromContext(ctx)

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if session == nil {
		return nil, errors.NewNotFoundError("session", sessionID)
	}

	item, err := s.sessions.GetItem(ctx, sessionID, cardID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if item == nil {
		return nil, errors.NewNotFoundError("session card", cardID)
	}

	card, err := s.cards.Get(ctx, cardID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card", cardID)
	}

	quizID, err := s.quizzes.DefaultQuizID(ctx)
	if err != nil {
		return nil, err
	}

	correct := review.Grade(answer, card.Back)

	for attempt := 0; attempt < answerRetryLimit; attempt++ {
		membership, err := s.memberships.Get(ctx, quizID, cardID)
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
		if membership == nil || !membership.Enabled {
			return nil, errors.NewNotFoundError("quiz membership", cardID)
		}

		nextBox := review.NextBox(membership.Box, correct)
		now := time.Now()

		err = s.reviewLogs.RecordAnswer(ctx, quizID, models.ReviewLog{
			SessionID:   sessionID,
			CardID:      cardID,
			AnsweredAt:  now,
			AnswerText:  answer,
			Correct:     correct,
			PreviousBox: membership.Box,
			NextBox:     nextBox,
		})
		if stderrors.Is(err, repository.ErrStaleBox) {
			log.Debug("box moved concurrently, retrying answer: session_id=%d, card_id=%d, read_box=%d",
				sessionID, cardID, membership.Box)
			continue
		}
		if err != nil {
			return nil, errors.NewInternalError(err)
		}

		log.Debug("answer recorded: session_id=%d, card_id=%d, correct=%t, box %d -> %d",
			sessionID, cardID, correct, membership.Box, nextBox)
		return &AnswerResult{
			Correct:    correct,
			NextBox:    nextBox,
			NextReview: review.NextReviewAt(now),
		}, nil
	}

	return nil, errors.NewConflictError("card was updated concurrently, retry the answer")
}

func (s *sessionService) loadSession(ctx context.Context, session *models.Session) (*TodaySession, error) {
	cards, err := s.sessions.CardsForSession(ctx, session.ID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if cards == nil {
		cards = []models.SessionCard{}
	}
	return &TodaySession{
		SessionID: session.ID,
		StartedAt: session.StartedAt,
		DayIndex:  session.DayIndex,
		Cards:     cards,
	}, nil
}

// cycleStart returns the anchored cycle start date, anchoring it to
// today on first use.
func (s *sessionService) cycleStart(ctx context.Context, now time.Time) (time.Time, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return time.Time{}, errors.NewInternalError(err)
	}
	if settings != nil {
		return settings.StartDate, nil
	}
	settings, err = s.settings.Insert(ctx, now)
	if err != nil {
		return time.Time{}, errors.NewInternalError(err)
	}
	return settings.StartDate, nil
}
