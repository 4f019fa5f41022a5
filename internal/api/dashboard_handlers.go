package api

import "net/http"

func (s *Server) handleTodayDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := s.Dashboard.Today(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, dashboard)
}
