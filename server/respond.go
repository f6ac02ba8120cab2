package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"paintly_backend/core"
)

// errorEnvelope is the JSON shape of every error response.
type errorEnvelope struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Details   string `json:"details,omitempty"`
	Timestamp string `json:"timestamp"`
}

// statusForKind maps an error classification to an HTTP status code.
func statusForKind(kind core.ErrorKind) int {
	switch kind {
	case core.ErrorKindValidation, core.ErrorKindUpload:
		return http.StatusBadRequest
	case core.ErrorKindAuth:
		return http.StatusUnauthorized
	case core.ErrorKindQuota:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON encodes payload with the given status. Encoding failures are
// logged; at that point the status line has already been sent.
func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("failed to encode response", zap.Error(err))
	}
}

// writeError maps err onto the error envelope. The client-facing message is
// the error's own text; details carries the wrapped cause when one exists.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	kind := core.KindOf(err)
	env := errorEnvelope{
		Error:     err.Error(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	var appErr *core.AppError
	if errors.As(err, &appErr) {
		env.Error = appErr.Message
		if appErr.Err != nil {
			env.Details = appErr.Err.Error()
		}
	}
	s.writeJSON(w, statusForKind(kind), env)
}

// writeErrorMessage writes a bare error envelope with an explicit status.
func (s *Server) writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorEnvelope{
		Error:     msg,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
