package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/memoquiz", func(r chi.Router) {
		r.Get("/session/today", s.handleTodaySession)
		r.Post("/session/answer", s.handleAnswer)

		r.Get("/dashboard/today", s.handleTodayDashboard)

		r.Get("/cards", s.handleListCards)
		r.Post("/cards", s.handleCreateCard)
		r.Put("/cards/{id}", s.handleUpdateCard)
		r.Post("/cards/{id}/activate", s.handleActivateCard)

		r.Get("/quizzes", s.handleListQuizzes)
		r.Get("/quizzes/overview", s.handleQuizOverview)
		r.Get("/quiz/cards", s.handleListQuizCards)
		r.Post("/quiz/cards/{cardID}", s.handleAddQuizCard)
		r.Delete("/quiz/cards/{cardID}", s.handleRemoveQuizCard)
	})

	return r
}
