package models

import "time"

// TodayDashboard is the read-only rollup behind GET /dashboard/today.
type TodayDashboard struct {
	Date            string              `json:"date"`
	DayIndex        int                 `json:"day_index"`
	CanStartSession bool                `json:"can_start_session"`
	BoxesToday      []int               `json:"boxes_today"`
	DueToday        int                 `json:"due_today"`
	TotalCards      int                 `json:"total_cards"`
	LastSession     *LastSessionSummary `json:"last_session"`
	BoxesOverview   []BoxOverviewItem   `json:"boxes_overview"`
}

type LastSessionSummary struct {
	ReviewedCards int       `json:"reviewed_cards"`
	GoodAnswers   int       `json:"good_answers"`
	SuccessRate   float64   `json:"success_rate"`
	StartedAt     time.Time `json:"started_at"`
	DayIndex      int       `json:"day_index"`
}

type BoxOverviewItem struct {
	Box       int  `json:"box"`
	CardCount int  `json:"card_count"`
	IsToday   bool `json:"is_today"`
}
