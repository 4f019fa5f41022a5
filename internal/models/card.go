package models

import "time"

// CardStatus is the lifecycle state of a card.
type CardStatus string

const (
	CardStatusInactive CardStatus = "INACTIVE"
	CardStatusActive   CardStatus = "ACTIVE"
	CardStatusArchived CardStatus = "ARCHIVED"
)

// ValidCardStatus reports whether s is a known card status.
func ValidCardStatus(s CardStatus) bool {
	switch s {
	case CardStatusInactive, CardStatusActive, CardStatusArchived:
		return true
	}
	return false
}

type Card struct {
	ID        int64      `json:"id"`
	Front     string     `json:"front"`
	Back      string     `json:"back"`
	Status    CardStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CardWithBox is a card joined with its default-quiz box, as exposed
// by the card listing endpoints. Box is 0 when the card has no
// membership yet.
type CardWithBox struct {
	Card
	Box int `json:"box"`
}

// CardFilter narrows card listing queries.
type CardFilter struct {
	Query  string
	Status CardStatus
	Box    int
	Sort   string
	Limit  int
	Offset int
}
