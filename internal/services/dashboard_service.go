package services

import (
	"context"
	"time"

	"github.com/sidequestlab/memoquiz/internal/errors"
	"github.com/sidequestlab/memoquiz/internal/models"
	"github.com/sidequestlab/memoquiz/internal/repository"
	"github.com/sidequestlab/memoquiz/internal/review"
	"github.com/sidequestlab/memoquiz/internal/schedule"
)

// DashboardService aggregates read-only study state
type DashboardService interface {
	Today(ctx context.Context) (*models.TodayDashboard, error)
}

type dashboardService struct {
	sessions    repository.SessionRepository
	memberships repository.MembershipRepository
	reviewLogs  repository.ReviewLogRepository
	settings    repository.SettingsRepository
	quizzes     QuizService
	schedule    *schedule.Schedule
	cardLimit   int
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	sessions repository.SessionRepository,
	memberships repository.MembershipRepository,
	reviewLogs repository.ReviewLogRepository,
	settings repository.SettingsRepository,
	quizzes QuizService,
	sched *schedule.Schedule,
	cardLimit int,
) DashboardService {
	return &dashboardService{
		sessions:    sessions,
		memberships: memberships,
		reviewLogs:  reviewLogs,
		settings:    settings,
		quizzes:     quizzes,
		schedule:    sched,
		cardLimit:   cardLimit,
	}
}

// Today builds the dashboard without mutating any state. If a session
// was already started today its day index is authoritative and
// can_start_session is false; otherwise the day index is derived from
// the cycle anchor (or 1 when no cycle has been anchored yet).
func (s *dashboardService) Today(ctx context.Context) (*models.TodayDashboard, error) {
	now := time.Now()
	today := now.Format(sessionDateLayout)

	session, err := s.sessions.GetByDate(ctx, today)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	var dayIndex int
	canStart := session == nil
	if session != nil {
		dayIndex = session.DayIndex
	} else {
		settings, err := s.settings.Get(ctx)
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
		start := now
		if settings != nil {
			start = settings.StartDate
		}
		dayIndex = schedule.DayIndex(start, now, s.schedule.CycleLength())
	}

	boxesToday, err := s.schedule.BoxesForDay(dayIndex)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	quizID, err := s.quizzes.DefaultQuizID(ctx)
	if err != nil {
		return nil, err
	}

	dueToday := 0
	if len(boxesToday) > 0 {
		eligible, err := s.memberships.CountEligible(ctx, quizID, boxesToday)
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
		dueToday = min(eligible, s.cardLimit)
	}

	totalCards, err := s.memberships.CountEnabledActive(ctx, quizID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	lastSession, err := s.lastSessionSummary(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := s.memberships.BoxOverview(ctx, quizID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	todaySet := make(map[int]bool, len(boxesToday))
	for _, box := range boxesToday {
		todaySet[box] = true
	}
	overview := make([]models.BoxOverviewItem, 0, review.MaxBox)
	byBox := make(map[int]int, len(counts))
	for _, c := range counts {
		byBox[c.Box] = c.CardCount
	}
	for box := 1; box <= review.MaxBox; box++ {
		overview = append(overview, models.BoxOverviewItem{
			Box:       box,
			CardCount: byBox[box],
			IsToday:   todaySet[box],
		})
	}

	return &models.TodayDashboard{
		Date:            today,
		DayIndex:        dayIndex,
		CanStartSession: canStart,
		BoxesToday:      boxesToday,
		DueToday:        dueToday,
		TotalCards:      totalCards,
		LastSession:     lastSession,
		BoxesOverview:   overview,
	}, nil
}

// lastSessionSummary summarizes the most recent session. A session
// with no logged answers yet reports its snapshot size as reviewed
// with zero good answers, matching the pre-answer state a client sees
// right after starting.
func (s *dashboardService) lastSessionSummary(ctx context.Context) (*models.LastSessionSummary, error) {
	last, err := s.sessions.Last(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if last == nil {
		return nil, nil
	}

	reviewed, err := s.reviewLogs.CountBySession(ctx, last.ID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	good := 0
	if reviewed == 0 {
		reviewed, err = s.sessions.CountItems(ctx, last.ID)
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
	} else {
		good, err = s.reviewLogs.CountCorrectBySession(ctx, last.ID)
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
		good = min(good, reviewed)
	}

	rate := 0.0
	if reviewed > 0 {
		rate = float64(good) * 100 / float64(reviewed)
	}
	return &models.LastSessionSummary{
		ReviewedCards: reviewed,
		GoodAnswers:   good,
		SuccessRate:   rate,
		StartedAt:     last.StartedAt,
		DayIndex:      last.DayIndex,
	}, nil
}
