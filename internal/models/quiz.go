package models

import "time"

type Quiz struct {
	ID    int64  `json:"id"`
	Code  string `json:"code"`
	Title string `json:"title"`
}

// Membership ties a card to a quiz and is the single holder of the
// card's spaced-repetition box state.
type Membership struct {
	QuizID    int64     `json:"quiz_id"`
	CardID    int64     `json:"card_id"`
	Enabled   bool      `json:"enabled"`
	Box       int       `json:"box"`
	AddedAt   time.Time `json:"added_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionCard is the card view handed to the client during a review
// session: the card's faces plus the box it currently sits in.
type SessionCard struct {
	CardID int64  `json:"card_id"`
	Front  string `json:"front"`
	Back   string `json:"back"`
	Box    int    `json:"box"`
}

// QuizSummary is a quiz with its enabled card count.
type QuizSummary struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	CardCount int    `json:"card_count"`
}

type QuizOverview struct {
	TotalQuizzes int `json:"total_quizzes"`
	TotalCards   int `json:"total_cards"`
}

// BoxCount is one bucket of the per-box card histogram.
type BoxCount struct {
	Box       int `json:"box"`
	CardCount int `json:"card_count"`
}
