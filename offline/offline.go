// Package offline tracks upstream network reachability and defers work
// queued while the process is offline.
//
// In a server process there are no browser connectivity events, so
// transitions come from a periodic reachability probe against a well-known
// endpoint. Work queued while offline is drained in FIFO order on the
// transition back to online.
package offline

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"paintly_backend/core"
	"paintly_backend/errlog"
)

// Thunk is a deferred operation. Thunks run sequentially during a drain; a
// failing thunk is logged and the drain continues.
type Thunk func(ctx context.Context) error

// Probe reports whether the network currently looks reachable.
type Probe func(ctx context.Context) bool

// Manager holds the online flag and the FIFO retry queue.
type Manager struct {
	mu     sync.Mutex
	online bool
	queue  []Thunk

	probe    Probe
	interval time.Duration
	errors   *errlog.Logger
	log      *zap.Logger
}

// Config for a Manager.
type Config struct {
	// ProbeURL is HEAD-requested to decide reachability.
	ProbeURL string
	// Interval between probes. Zero disables the background loop; state then
	// changes only through SetOnline.
	Interval time.Duration
	// Timeout for a single probe request.
	Timeout time.Duration
}

// DefaultConfig probes a lightweight connectivity endpoint every 30 seconds.
func DefaultConfig() Config {
	return Config{
		ProbeURL: "https://connectivitycheck.gstatic.com/generate_204",
		Interval: 30 * time.Second,
		Timeout:  5 * time.Second,
	}
}

// New creates a Manager that starts out online.
func New(cfg Config, errors *errlog.Logger, log *zap.Logger) *Manager {
	return &Manager{
		online:   true,
		probe:    httpProbe(cfg.ProbeURL, cfg.Timeout),
		interval: cfg.Interval,
		errors:   errors,
		log:      log,
	}
}

func httpProbe(url string, timeout time.Duration) Probe {
	client := &http.Client{Timeout: timeout}
	return func(ctx context.Context) bool {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
		if err != nil {
			return false
		}
		resp, err := client.Do(req)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return true
	}
}

// Run probes reachability until ctx is cancelled. Call in its own goroutine.
func (m *Manager) Run(ctx context.Context) {
	if m.interval <= 0 {
		return
	}
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.SetOnline(ctx, m.probe(ctx))
		}
	}
}

// Online reports the current reachability state.
func (m *Manager) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// QueueRequest appends a thunk to the retry queue. FIFO, no deduplication.
func (m *Manager) QueueRequest(t Thunk) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, t)
}

// QueueLen reports how many thunks are waiting.
func (m *Manager) QueueLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// SetOnline records a reachability transition. Moving from offline to online
// drains the queue sequentially; individual thunk failures are logged and do
// not abort the drain. Repeated calls with an unchanged state are no-ops.
func (m *Manager) SetOnline(ctx context.Context, online bool) {
	m.mu.Lock()
	if online == m.online {
		m.mu.Unlock()
		return
	}
	m.online = online
	var pending []Thunk
	if online {
		pending = m.queue
		m.queue = nil
	}
	m.mu.Unlock()

	if !online {
		m.errors.Log(fmt.Errorf("network connection lost"), core.ErrorKindNetwork, nil)
		m.log.Warn("network connection lost")
		return
	}

	m.log.Info("network connection restored", zap.Int("queued", len(pending)))
	for _, t := range pending {
		if err := t(ctx); err != nil {
			m.errors.Log(err, core.ErrorKindNetwork, nil)
		}
	}
}
