// Package review implements the Leitner box rules applied when an
// answer is submitted.
package review

import (
	"strings"
	"time"
)

// MaxBox is the highest Leitner box; correct answers never advance
// past it.
const MaxBox = 7

// Grade compares a submitted answer against the card's back text.
// Both sides are trimmed and lowercased before an exact comparison;
// there is no fuzzy matching or partial credit.
func Grade(answer, back string) bool {
	return normalize(answer) == normalize(back)
}

// NextBox applies the box transition: a correct answer moves the card
// up one box (capped at MaxBox), an incorrect answer sends it back to
// box 1.
func NextBox(previousBox int, correct bool) int {
	if !correct {
		return 1
	}
	if previousBox >= MaxBox {
		return MaxBox
	}
	return previousBox + 1
}

// NextReviewAt returns when the card is next eligible for review.
// Fixed at 24h; the box schedule decides the actual due day.
func NextReviewAt(now time.Time) time.Time {
	return now.Add(24 * time.Hour)
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
