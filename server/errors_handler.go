package server

import (
	"net/http"

	"go.uber.org/zap"

	"paintly_backend/errlog"
)

type errorStatsResponse struct {
	Success bool         `json:"success"`
	Stats   errlog.Stats `json:"stats"`
}

// handleErrorStats returns aggregated error counts for the admin dashboard.
func (s *Server) handleErrorStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, errorStatsResponse{
		Success: true,
		Stats:   s.errors.Stats(),
	})
}

// handleErrorExport streams the retained error entries as a JSON document.
func (s *Server) handleErrorExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.errors.Export()
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="error-log.json"`)
	if _, err := w.Write(data); err != nil {
		s.log.Warn("failed to write error export", zap.Error(err))
	}
}
