// Package runlog provides the append-only, timestamped progress log shown to the user
// while a workflow run is in flight.
package runlog

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TimeLayout is the layout of Entry.Timestamp.
const TimeLayout = "15:04:05"

// Entry is a single log line.
type Entry struct {
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
}

// String renders the entry as "[timestamp] message".
func (e Entry) String() string {
	return fmt.Sprintf("[%s] %s", e.Timestamp, e.Message)
}

// Log is an append-only sequence of entries scoped to one workflow run.
// Entries are never removed individually.
type Log struct {
	mu       sync.Mutex
	entries  []Entry
	now      func() time.Time
	logger   *zap.Logger
	onAppend func([]Entry)
}

// Option configures a Log.
type Option func(*Log)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// WithLogger mirrors every entry to a diagnostic logger at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Log) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithObserver registers a callback invoked with a snapshot after every append.
func WithObserver(fn func([]Entry)) Option {
	return func(l *Log) { l.onAppend = fn }
}

// New creates an empty Log.
func New(opts ...Option) *Log {
	l := &Log{
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Add appends a message stamped with the current time.
func (l *Log) Add(message string) {
	l.mu.Lock()
	entry := Entry{Timestamp: l.now().Format(TimeLayout), Message: message}
	l.entries = append(l.entries, entry)
	snapshot := l.snapshotLocked()
	observer := l.onAppend
	l.mu.Unlock()

	l.logger.Debug(message, zap.String("ts", entry.Timestamp))
	if observer != nil {
		observer(snapshot)
	}
}

// Addf appends a formatted message.
func (l *Log) Addf(format string, args ...any) {
	l.Add(fmt.Sprintf(format, args...))
}

// Entries returns a copy of all entries in append order.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// Tail returns a copy of the last n entries.
func (l *Log) Tail(n int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n <= 0 {
		return []Entry{}
	}
	start := max(len(l.entries)-n, 0)
	out := make([]Entry, len(l.entries)-start)
	copy(out, l.entries[start:])
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *Log) snapshotLocked() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Lines renders entries as "[timestamp] message" strings.
func Lines(entries []Entry) []string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.String()
	}
	return lines
}
