package server

import (
	"net/http"
	"time"

	"paintly_backend/providers"
)

type healthResponse struct {
	Success   bool                              `json:"success"`
	Online    bool                              `json:"online"`
	Providers map[providers.ID]providers.Status `json:"providers"`
	Timestamp string                            `json:"timestamp"`
}

// handleHealth reports connectivity and per-provider health. Results come
// from the health cache where fresh, so repeated polling is cheap.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	statuses := s.manager.HealthCheck(r.Context())
	s.writeJSON(w, http.StatusOK, healthResponse{
		Success:   true,
		Online:    s.net.Online(),
		Providers: statuses,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
