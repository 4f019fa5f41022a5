package api

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sidequestlab/memoquiz/internal/services"
)

// Server holds the HTTP handlers' dependencies.
type Server struct {
	Cards     services.CardService
	Quizzes   services.QuizService
	Sessions  services.SessionService
	Dashboard services.DashboardService

	validate *validator.Validate
	ready    func() error
}

// NewServer creates a Server. readyCheck is called by the health
// endpoint; nil means always ready.
func NewServer(
	cards services.CardService,
	quizzes services.QuizService,
	sessions services.SessionService,
	dashboard services.DashboardService,
	readyCheck func() error,
) *Server {
	return &Server{
		Cards:     cards,
		Quizzes:   quizzes,
		Sessions:  sessions,
		Dashboard: dashboard,
		validate:  newValidator(),
		ready:     readyCheck,
	}
}

// newValidator builds a validator that reports fields by their json
// names, so validation errors match the wire format clients send.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
