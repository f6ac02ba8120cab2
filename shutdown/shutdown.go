// Package shutdown coordinates graceful process termination: signal
// handling, a prioritized hook list, and a bounded drain window.
package shutdown

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// HookFunc is one cleanup step. It receives a context bounded by the
// shutdown timeout.
type HookFunc func(ctx context.Context) error

type hook struct {
	name     string
	priority int // lower runs first
	fn       HookFunc
}

// Coordinator owns the process lifetime context and the ordered cleanup
// hooks. The first SIGINT/SIGTERM cancels the context; a second signal
// forces immediate exit.
type Coordinator struct {
	log     *zap.Logger
	timeout time.Duration

	mu       sync.Mutex
	hooks    []hook
	started  bool
	finished bool

	ctx    context.Context
	cancel context.CancelFunc
	sigCh  chan os.Signal
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithTimeout bounds the whole shutdown sequence. Default 30 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *Coordinator) { c.timeout = d }
}

// New creates a Coordinator. Call Start to begin listening for signals.
func New(log *zap.Logger, opts ...Option) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Coordinator{
		log:     log,
		timeout: 30 * time.Second,
		ctx:     ctx,
		cancel:  cancel,
		sigCh:   make(chan os.Signal, 2),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Context is cancelled when shutdown begins. Long-running components block
// on it.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnShutdown registers a cleanup hook. Lower priorities run first:
// single digits for stopping traffic, tens for background workers, and
// higher values for closing storage and flushing logs.
func (c *Coordinator) OnShutdown(name string, priority int, fn HookFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.finished {
		return
	}
	c.hooks = append(c.hooks, hook{name: name, priority: priority, fn: fn})
}

// Start begins listening for SIGINT and SIGTERM. Safe to call once.
func (c *Coordinator) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return
	}
	c.started = true

	signal.Notify(c.sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-c.sigCh
		c.log.Info("shutdown signal received", zap.String("signal", sig.String()))
		c.cancel()

		sig = <-c.sigCh
		c.log.Warn("second signal received, exiting immediately",
			zap.String("signal", sig.String()))
		os.Exit(1)
	}()
}

// Trigger initiates shutdown without an OS signal.
func (c *Coordinator) Trigger() {
	c.cancel()
}

// Wait blocks until shutdown begins.
func (c *Coordinator) Wait() {
	<-c.ctx.Done()
}

// Run executes the hooks in priority order within the timeout. Every hook
// runs even when earlier ones fail; the first error is returned. Idempotent.
func (c *Coordinator) Run() error {
	c.mu.Lock()
	if c.finished {
		c.mu.Unlock()
		return nil
	}
	c.finished = true
	ordered := make([]hook, len(c.hooks))
	copy(ordered, c.hooks)
	c.mu.Unlock()

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].priority < ordered[j].priority
	})

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	start := time.Now()
	c.log.Info("running shutdown hooks", zap.Int("count", len(ordered)))

	var failures int
	var first error
	for _, h := range ordered {
		if err := h.fn(ctx); err != nil {
			failures++
			if first == nil {
				first = fmt.Errorf("shutdown hook %s failed: %w", h.name, err)
			}
			c.log.Error("shutdown hook failed", zap.String("hook", h.name), zap.Error(err))
		}
	}

	signal.Stop(c.sigCh)

	if failures > 0 {
		c.log.Error("shutdown finished with errors",
			zap.Int("failures", failures),
			zap.Duration("duration", time.Since(start)))
		return first
	}
	c.log.Info("shutdown complete", zap.Duration("duration", time.Since(start)))
	return nil
}
