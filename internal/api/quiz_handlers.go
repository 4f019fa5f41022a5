package api

import (
	"net/http"

	"github.com/sidequestlab/memoquiz/internal/models"
)

func (s *Server) handleListQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := s.Quizzes.ListQuizzes(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, quizzes)
}

func (s *Server) handleQuizOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := s.Quizzes.Overview(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, overview)
}

func (s *Server) handleListQuizCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.Quizzes.ListDefaultQuizCards(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	if cards == nil {
		cards = []models.SessionCard{}
	}
	respondJSON(w, r, http.StatusOK, cards)
}

func (s *Server) handleAddQuizCard(w http.ResponseWriter, r *http.Request) {
	cardID, err := pathID(r, "cardID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.Quizzes.AddCardToDefaultQuiz(r.Context(), cardID); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusNoContent, nil)
}

func (s *Server) handleRemoveQuizCard(w http.ResponseWriter, r *http.Request) {
	cardID, err := pathID(r, "cardID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.Quizzes.RemoveCardFromDefaultQuiz(r.Context(), cardID); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusNoContent, nil)
}
