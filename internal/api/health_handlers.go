package api

import (
	"net/http"

	"github.com/sidequestlab/memoquiz/internal/logger"
)

// handleHealth reports liveness, probing the injected readiness check
// (a database ping in production) when one is configured.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(); err != nil {
			logger.FromContext(r.Context()).Warn("health check failed: %v", err)
			respondJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
