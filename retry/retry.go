// Package retry executes operations under exponential backoff, classified by
// error kind. Only network, api, and processing errors are ever retried;
// everything else fails immediately without a backoff wait.
package retry

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"paintly_backend/core"
	"paintly_backend/errlog"
)

// Config bounds the retry loop. The worst-case wall clock spent waiting is
// sum(min(BaseDelay*2^i, MaxDelay)) for i in 0..MaxRetries-1, regardless of
// error kind, so callers such as HTTP handlers never hang open-ended.
type Config struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultConfig returns the standard retry bounds: 3 retries, 1s base delay,
// 10s delay ceiling.
func DefaultConfig() Config {
	return Config{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   10 * time.Second,
	}
}

// Manager runs operations with exponential backoff and records every failed
// attempt in the error log.
type Manager struct {
	cfg    Config
	errors *errlog.Logger
	log    *zap.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// New creates a Manager. errors receives one entry per failed attempt plus
// the informational retry entries; log is the structured logger.
func New(cfg Config, errors *errlog.Logger, log *zap.Logger) *Manager {
	return &Manager{
		cfg:    cfg,
		errors: errors,
		log:    log,
		sleep:  sleepCtx,
	}
}

// Do runs op up to MaxRetries+1 times. On the first success it returns nil,
// logging a "retry succeeded" entry if any attempt had failed. A failure
// with a non-retryable kind returns immediately. Between retryable failures
// it waits min(BaseDelay*2^attempt, MaxDelay); the wait aborts if ctx is
// cancelled, returning the context error.
//
// kind is the caller's classification of op's failures. When op returns a
// core.AppError its own kind takes precedence, so an auth failure inside an
// operation declared as api never burns through backoff waits.
func (m *Manager) Do(ctx context.Context, kind core.ErrorKind, op func(context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= m.cfg.MaxRetries; attempt++ {
		err := op(ctx)
		if err == nil {
			if attempt > 0 {
				m.errors.LogRetry(
					fmt.Errorf("retry succeeded after %d attempts", attempt),
					kind, attempt, nil)
				m.log.Info("retry succeeded",
					zap.Int("attempts", attempt),
					zap.String("kind", string(kind)))
			}
			return nil
		}
		lastErr = err

		kind := kind
		if k := core.KindOf(err); k != core.ErrorKindUnknown {
			kind = k
		}
		if !core.IsRetryable(kind) {
			m.errors.LogRetry(lastErr, kind, attempt, nil)
			return lastErr
		}
		if attempt == m.cfg.MaxRetries {
			m.errors.LogRetry(lastErr, kind, attempt, nil)
			return lastErr
		}

		delay := m.cfg.BaseDelay << attempt
		if delay > m.cfg.MaxDelay {
			delay = m.cfg.MaxDelay
		}
		m.errors.LogRetry(
			fmt.Errorf("retrying in %dms (attempt %d/%d)", delay.Milliseconds(), attempt+1, m.cfg.MaxRetries),
			kind, attempt, nil)
		m.log.Info("retrying after failure",
			zap.Duration("delay", delay),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", m.cfg.MaxRetries),
			zap.Error(lastErr))

		if err := m.sleep(ctx, delay); err != nil {
			return err
		}
	}
	return lastErr
}

// Execute runs op through m and returns its value. It exists because methods
// cannot carry type parameters. The value from the last attempt is returned
// even on failure: providers attach partial results (raw response bytes) to
// their errors and callers persist them.
func Execute[T any](ctx context.Context, m *Manager, kind core.ErrorKind, op func(context.Context) (T, error)) (T, error) {
	var result T
	err := m.Do(ctx, kind, func(ctx context.Context) error {
		v, err := op(ctx)
		result = v
		return err
	})
	return result, err
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
