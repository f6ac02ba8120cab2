package providers

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Status is the health-check outcome for one provider.
type Status struct {
	Healthy   bool      `json:"healthy"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checkedAt"`
}

// ManagerConfig bounds health checking.
type ManagerConfig struct {
	// HealthTimeout bounds a single provider's probe.
	HealthTimeout time.Duration
	// HealthTTL is how long a health result stays fresh. Within the TTL,
	// HealthCheck serves cached results instead of probing again.
	HealthTTL time.Duration
}

// DefaultManagerConfig returns the standard health-check bounds.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		HealthTimeout: 10 * time.Second,
		HealthTTL:     time.Minute,
	}
}

// Manager holds the registered providers, their display metadata, and the
// current selection. The current-provider cell is guarded by the mutex and
// shared by every handler; dispatch snapshots the provider reference before
// any network call, so a concurrent switch never changes a request mid-flight.
type Manager struct {
	mu       sync.RWMutex
	registry map[ID]Provider
	current  ID

	meta   map[ID]Config
	cfg    ManagerConfig
	health *cache.Cache
	log    *zap.Logger
}

// NewManager creates a Manager with no providers registered. defaultID
// becomes the initial selection once a matching provider is registered;
// until then the first registered provider is current.
func NewManager(defaultID ID, meta map[ID]Config, cfg ManagerConfig, log *zap.Logger) *Manager {
	return &Manager{
		registry: make(map[ID]Provider),
		current:  defaultID,
		meta:     meta,
		cfg:      cfg,
		health:   cache.New(cfg.HealthTTL, 2*cfg.HealthTTL),
		log:      log,
	}
}

// Register adds a provider to the registry. If the configured default is
// not registered, the first registered provider becomes current.
func (m *Manager) Register(p Provider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registry[p.ID()] = p
	if _, ok := m.registry[m.current]; !ok {
		m.current = p.ID()
		m.log.Info("current provider fell back to first registered",
			zap.String("provider", string(p.ID())))
	}
}

// Available returns the descriptor of every registered provider, with the
// enabled flag reflecting the latest health state. A provider that has not
// been probed since its last result expired counts as enabled.
func (m *Manager) Available() []Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Config, 0, len(m.registry))
	for _, id := range IDs { // stable order
		if _, ok := m.registry[id]; !ok {
			continue
		}
		cfg := m.meta[id]
		cfg.ID = id
		cfg.Enabled = m.enabledLocked(id)
		out = append(out, cfg)
	}
	return out
}

// enabledLocked reports whether id may serve traffic: registered and not
// known-unhealthy.
func (m *Manager) enabledLocked(id ID) bool {
	if _, ok := m.registry[id]; !ok {
		return false
	}
	if v, ok := m.health.Get(string(id)); ok {
		return v.(Status).Healthy
	}
	return true
}

// Current returns the id of the current selection.
func (m *Manager) Current() ID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// CurrentConfig returns the descriptor of the current selection.
func (m *Manager) CurrentConfig() (Config, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.registry[m.current]; !ok {
		return Config{}, false
	}
	cfg := m.meta[m.current]
	cfg.ID = m.current
	cfg.Enabled = m.enabledLocked(m.current)
	return cfg, true
}

// CurrentProvider snapshots the active provider for dispatch.
func (m *Manager) CurrentProvider() (Provider, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.registry[m.current]
	return p, ok
}

// SetCurrent switches the active provider. Returns false, without mutating
// anything, when id is not a registered member of the provider set or the
// provider is currently disabled by health state. This is a user-facing
// control path, so a bad id is a false return, never an error.
func (m *Manager) SetCurrent(id ID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !id.Valid() {
		m.log.Warn("rejected switch to unknown provider", zap.String("provider", string(id)))
		return false
	}
	if _, ok := m.registry[id]; !ok {
		m.log.Warn("rejected switch to unregistered provider", zap.String("provider", string(id)))
		return false
	}
	if !m.enabledLocked(id) {
		m.log.Warn("rejected switch to disabled provider", zap.String("provider", string(id)))
		return false
	}
	m.current = id
	m.log.Info("switched current provider", zap.String("provider", string(id)))
	return true
}

// HealthCheck probes every registered provider concurrently and returns a
// per-provider status map. A failing probe marks that provider unhealthy
// (disabling it for switching and dispatch) but never affects any other
// provider's entry, and HealthCheck itself never returns an error.
//
// Results are cached for the configured TTL; within it, the cached map is
// returned without probing.
func (m *Manager) HealthCheck(ctx context.Context) map[ID]Status {
	m.mu.RLock()
	targets := make(map[ID]Provider, len(m.registry))
	for id, p := range m.registry {
		targets[id] = p
	}
	m.mu.RUnlock()

	results := make(map[ID]Status, len(targets))
	fresh := true
	for id := range targets {
		v, ok := m.health.Get(string(id))
		if !ok {
			fresh = false
			break
		}
		results[id] = v.(Status)
	}
	if fresh && len(results) == len(targets) {
		return results
	}

	var resMu sync.Mutex
	results = make(map[ID]Status, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	for id, p := range targets {
		id, p := id, p
		g.Go(func() error {
			probeCtx, cancel := context.WithTimeout(gctx, m.cfg.HealthTimeout)
			defer cancel()

			status := Status{Healthy: true, CheckedAt: time.Now()}
			if err := p.HealthCheck(probeCtx); err != nil {
				status.Healthy = false
				status.Error = err.Error()
				m.log.Warn("provider health check failed",
					zap.String("provider", string(id)),
					zap.Error(err))
			}
			resMu.Lock()
			results[id] = status
			resMu.Unlock()
			m.health.Set(string(id), status, cache.DefaultExpiration)
			return nil
		})
	}
	g.Wait() // goroutines never return errors; isolation is per-provider

	return results
}
