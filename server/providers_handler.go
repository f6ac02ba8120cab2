package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"paintly_backend/providers"
)

// providersResponse is the GET /api/ai-providers payload. The same shape is
// sent on failure with an empty provider list so clients keep a usable
// currentProvider to render.
type providersResponse struct {
	Success          bool                              `json:"success"`
	Providers        []providers.Config                `json:"providers"`
	CurrentProvider  providers.ID                      `json:"currentProvider"`
	CurrentConfig    *providers.Config                 `json:"currentConfig,omitempty"`
	HealthStatus     map[providers.ID]providers.Status `json:"healthStatus,omitempty"`
	TotalProviders   int                               `json:"totalProviders"`
	EnabledProviders int                               `json:"enabledProviders"`
	Error            string                            `json:"error,omitempty"`
	Timestamp        string                            `json:"timestamp"`
}

// providersCacheControl lets CDNs serve the provider list while a refresh
// happens in the background.
const providersCacheControl = "public, max-age=60, s-maxage=300, stale-while-revalidate=600"

func (s *Server) handleGetProviders(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", providersCacheControl)

	// Served from the TTL cache within its window, so polling stays cheap.
	health := s.manager.HealthCheck(r.Context())
	available := s.manager.Available()
	if len(available) == 0 {
		s.log.Error("no providers registered")
		s.writeJSON(w, http.StatusInternalServerError, providersResponse{
			Providers:       []providers.Config{},
			CurrentProvider: providers.ID(s.cfg.DefaultProvider),
			Error:           "failed to load provider information",
			Timestamp:       time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	enabled := 0
	for _, p := range available {
		if p.Enabled {
			enabled++
		}
	}

	resp := providersResponse{
		Success:          true,
		Providers:        available,
		CurrentProvider:  s.manager.Current(),
		HealthStatus:     health,
		TotalProviders:   len(available),
		EnabledProviders: enabled,
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
	}
	if cfg, ok := s.manager.CurrentConfig(); ok {
		resp.CurrentConfig = &cfg
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type setProviderRequest struct {
	Provider providers.ID `json:"provider"`
}

type setProviderResponse struct {
	Success          bool              `json:"success"`
	Message          string            `json:"message"`
	PreviousProvider providers.ID      `json:"previousProvider"`
	CurrentProvider  providers.ID      `json:"currentProvider"`
	CurrentConfig    *providers.Config `json:"currentConfig,omitempty"`
}

// handleSetProvider switches the active provider. A rejected switch leaves
// the current selection untouched and reports 400.
func (s *Server) handleSetProvider(w http.ResponseWriter, r *http.Request) {
	var req setProviderRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		s.writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	previous := s.manager.Current()
	if !s.manager.SetCurrent(req.Provider) {
		s.writeErrorMessage(w, http.StatusBadRequest,
			fmt.Sprintf("provider %q is unknown or currently disabled", req.Provider))
		return
	}

	s.log.Info("provider switched",
		zap.String("provider", string(req.Provider)),
		zap.String("previous", string(previous)))

	resp := setProviderResponse{
		Success:          true,
		Message:          fmt.Sprintf("provider switched to %s", req.Provider),
		PreviousProvider: previous,
		CurrentProvider:  s.manager.Current(),
	}
	if cfg, ok := s.manager.CurrentConfig(); ok {
		resp.CurrentConfig = &cfg
	}
	s.writeJSON(w, http.StatusOK, resp)
}
