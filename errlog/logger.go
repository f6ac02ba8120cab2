package errlog

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"paintly_backend/core"
)

// Entry is one recorded error.
type Entry struct {
	ID         string         `json:"id"`
	Timestamp  time.Time      `json:"timestamp"`
	Kind       core.ErrorKind `json:"errorKind"`
	Message    string         `json:"message"`
	RetryCount int            `json:"retryCount"`
	Context    map[string]any `json:"context,omitempty"`
}

// Stats summarizes the current buffer contents.
type Stats struct {
	TotalErrors  int                    `json:"totalErrors"`
	ErrorsByKind map[core.ErrorKind]int `json:"errorsByType"`
	RecentErrors int                    `json:"recentErrors"` // last 24 hours
}

// CriticalFunc receives entries whose kind warrants immediate escalation.
// In a full deployment this forwards to an external error tracker; the
// default is a no-op beyond the structured log line.
type CriticalFunc func(Entry)

// Logger records errors into a fixed-capacity ring. Log never fails and
// never blocks on anything but its own mutex; when the ring is full the
// oldest entry is dropped without signal.
type Logger struct {
	ring     *Ring[Entry]
	log      *zap.Logger
	critical CriticalFunc
	now      func() time.Time
}

// Option configures a Logger.
type Option func(*Logger)

// WithCritical installs the escalation hook for auth and api errors.
func WithCritical(fn CriticalFunc) Option {
	return func(l *Logger) { l.critical = fn }
}

// WithClock overrides the timestamp source. Tests use this.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) { l.now = now }
}

// New creates a Logger holding at most capacity entries.
func New(capacity int, log *zap.Logger, opts ...Option) *Logger {
	l := &Logger{
		ring: NewRing[Entry](capacity),
		log:  log,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Log records err under the given kind with optional context. The entry is
// assigned a fresh id and the current timestamp. Kinds auth and api are
// escalated through the critical hook as well.
func (l *Logger) Log(err error, kind core.ErrorKind, context map[string]any) Entry {
	return l.LogRetry(err, kind, 0, context)
}

// LogRetry is Log with an explicit retry count attached to the entry.
func (l *Logger) LogRetry(err error, kind core.ErrorKind, retryCount int, context map[string]any) Entry {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	entry := Entry{
		ID:         uuid.NewString(),
		Timestamp:  l.now(),
		Kind:       kind,
		Message:    msg,
		RetryCount: retryCount,
		Context:    context,
	}
	l.ring.Push(entry)

	l.log.Warn("error recorded",
		zap.String("id", entry.ID),
		zap.String("kind", string(kind)),
		zap.String("message", msg),
		zap.Int("retry_count", retryCount),
	)

	if kind == core.ErrorKindAuth || kind == core.ErrorKindAPI {
		l.log.Error("critical error escalated",
			zap.String("id", entry.ID),
			zap.String("kind", string(kind)),
			zap.String("message", msg),
		)
		if l.critical != nil {
			l.critical(entry)
		}
	}
	return entry
}

// All returns a snapshot of every entry, newest first.
func (l *Logger) All() []Entry {
	return l.ring.NewestFirst()
}

// ByKind returns a newest-first snapshot of entries with the given kind.
func (l *Logger) ByKind(kind core.ErrorKind) []Entry {
	all := l.ring.NewestFirst()
	out := make([]Entry, 0, len(all))
	for _, e := range all {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// ByTimeRange returns a newest-first snapshot of entries whose timestamp t
// satisfies from <= t <= to.
func (l *Logger) ByTimeRange(from, to time.Time) []Entry {
	all := l.ring.NewestFirst()
	out := make([]Entry, 0, len(all))
	for _, e := range all {
		if !e.Timestamp.Before(from) && !e.Timestamp.After(to) {
			out = append(out, e)
		}
	}
	return out
}

// Export serializes the full buffer, newest first, for diagnostics.
func (l *Logger) Export() ([]byte, error) {
	return json.MarshalIndent(l.ring.NewestFirst(), "", "  ")
}

// Stats summarizes the buffer: total entries, per-kind counts over every
// recognized kind, and how many entries landed in the last 24 hours.
func (l *Logger) Stats() Stats {
	byKind := make(map[core.ErrorKind]int, len(core.ErrorKinds))
	for _, k := range core.ErrorKinds {
		byKind[k] = 0
	}
	all := l.ring.NewestFirst()
	cutoff := l.now().Add(-24 * time.Hour)
	recent := 0
	for _, e := range all {
		byKind[e.Kind]++
		if e.Timestamp.After(cutoff) {
			recent++
		}
	}
	return Stats{
		TotalErrors:  len(all),
		ErrorsByKind: byKind,
		RecentErrors: recent,
	}
}
