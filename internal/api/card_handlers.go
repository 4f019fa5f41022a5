package api

import (
	"net/http"

	"github.com/sidequestlab/memoquiz/internal/logger"
	"github.com/sidequestlab/memoquiz/internal/models"
	"github.com/sidequestlab/memoquiz/internal/services"
)

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := models.CardFilter{
		Query:  q.Get("q"),
		Status: models.CardStatus(q.Get("status")),
		Box:    queryInt(r, "box"),
		Sort:   q.Get("sort"),
		Offset: queryInt(r, "offset"),
	}
	filter.Limit = queryInt(r, "limit")
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}

	cards, err := s.Cards.ListCards(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if cards == nil {
		cards = []models.CardWithBox{}
	}
	respondJSON(w, r, http.StatusOK, cards)
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var req createCardRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.Cards.CreateCard(r.Context(), services.CreateCardInput{
		Front: req.Front,
		Back:  req.Back,
		Box:   req.Box,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, card)
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req updateCardRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.Cards.UpdateCard(r.Context(), id, services.UpdateCardInput{
		Front:  req.Front,
		Back:   req.Back,
		Status: req.Status,
		Box:    req.Box,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, card)
}

func (s *Server) handleActivateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	log.Debug("activating card: id=%d", id)

	card, err := s.Cards.ActivateCard(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, card)
}
