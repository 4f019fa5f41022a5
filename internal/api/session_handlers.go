package api

import (
	"net/http"

	"github.com/sidequestlab/memoquiz/internal/logger"
)

// handleTodaySession returns today's review session, creating it on
// the first request of the day.
func (s *Server) handleTodaySession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	log.Debug("fetching today's session")

	session, err := s.Sessions.TodaySession(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, session)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.Sessions.Answer(r.Context(), req.SessionID, req.CardID, req.Answer)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, result)
}
