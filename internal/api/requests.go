package api

import "github.com/sidequestlab/memoquiz/internal/models"

type answerRequest struct {
	SessionID int64  `json:"session_id" validate:"required,gt=0"`
	CardID    int64  `json:"card_id" validate:"required,gt=0"`
	Answer    string `json:"answer" validate:"required,max=10000"`
}

type createCardRequest struct {
	Front string `json:"front" validate:"required,max=2000"`
	Back  string `json:"back" validate:"required,max=10000"`
	Box   *int   `json:"box" validate:"omitempty,gte=1,lte=7"`
}

type updateCardRequest struct {
	Front  *string            `json:"front" validate:"omitempty,max=2000"`
	Back   *string            `json:"back" validate:"omitempty,max=10000"`
	Status *models.CardStatus `json:"status" validate:"omitempty,oneof=INACTIVE ACTIVE ARCHIVED"`
	Box    *int               `json:"box" validate:"omitempty,gte=1,lte=7"`
}
