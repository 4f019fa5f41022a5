package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/sidequestlab/memoquiz/internal/errors"
	"github.com/sidequestlab/memoquiz/internal/logger"
)

func respondJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

// decodeAndValidate parses a JSON request body into dst and runs its
// validate tags. Failures map to BAD_REQUEST / VALIDATION_ERROR.
func (s *Server) decodeAndValidate(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.NewBadRequestError("malformed request body")
	}
	if err := s.validate.Struct(dst); err != nil {
		var invalid validator.ValidationErrors
		if stderrors.As(err, &invalid) && len(invalid) > 0 {
			return errors.NewValidationError(invalid[0].Field(), "failed on "+invalid[0].Tag())
		}
		return errors.NewBadRequestError("invalid request body")
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, errors.NewBadRequestError("invalid " + name)
	}
	return id, nil
}

func queryInt(r *http.Request, name string) int {
	if v, err := strconv.Atoi(r.URL.Query().Get(name)); err == nil {
		return v
	}
	return 0
}
