package models

import "time"

// Session is one daily review run. Date is the calendar day bucket
// ("2006-01-02") that enforces the one-session-per-day policy.
type Session struct {
	ID        int64     `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Date      string    `json:"date"`
	DayIndex  int       `json:"day_index"`
}

// SessionItem snapshots the box a card was in when its session was
// generated. An answer is only accepted for (session, card) pairs that
// have an item.
type SessionItem struct {
	SessionID int64 `json:"session_id"`
	CardID    int64 `json:"card_id"`
	Box       int   `json:"box"`
}

// ReviewLog is an append-only record of a single answer.
type ReviewLog struct {
	ID          int64     `json:"id"`
	SessionID   int64     `json:"session_id"`
	CardID      int64     `json:"card_id"`
	AnsweredAt  time.Time `json:"answered_at"`
	AnswerText  string    `json:"answer_text"`
	Correct     bool      `json:"correct"`
	PreviousBox int       `json:"previous_box"`
	NextBox     int       `json:"next_box"`
}

// ScheduleSettings is the singleton row anchoring the review cycle.
type ScheduleSettings struct {
	ID        int64     `json:"id"`
	StartDate time.Time `json:"start_date"`
}
