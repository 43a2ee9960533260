// Package events provides EventPublisher implementations: a slog
// publisher for the running service and a recorder for tests.
package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ardhilabs/plotshare-backend/internal/domain"
)

// Log publishes events as structured log records.
type Log struct {
	Logger *slog.Logger
}

// NewLog creates a slog-backed publisher. A nil logger uses the
// default.
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{Logger: logger}
}

// Publish implements domain.EventPublisher
func (l *Log) Publish(ctx context.Context, event domain.Event) {
	l.Logger.InfoContext(ctx, "event", "kind", event.Kind(), "payload", event)
}

// Recorder collects published events for assertions in tests.
type Recorder struct {
	mu     sync.Mutex
	events []domain.Event
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Publish implements domain.EventPublisher
func (r *Recorder) Publish(_ context.Context, event domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a snapshot of everything published so far.
func (r *Recorder) Events() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Kinds returns the kind of every published event, in order.
func (r *Recorder) Kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]string, len(r.events))
	for i, e := range r.events {
		kinds[i] = e.Kind()
	}
	return kinds
}
