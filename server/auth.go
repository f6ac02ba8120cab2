package server

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// requireAdmin guards an endpoint with the admin password. The password
// travels as a bearer token and is compared against the configured bcrypt
// hash. An empty hash disables the whole admin surface.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.AdminPasswordHash == "" {
			s.writeErrorMessage(w, http.StatusForbidden, "admin access is not configured")
			return
		}
		password, ok := bearerToken(r)
		if !ok {
			s.writeErrorMessage(w, http.StatusUnauthorized, "missing admin credentials")
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(password)) != nil {
			s.writeErrorMessage(w, http.StatusUnauthorized, "invalid admin credentials")
			return
		}
		next(w, r)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
