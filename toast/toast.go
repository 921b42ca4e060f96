// Package toast is an ephemeral notification queue: producers append
// messages, consumers render the queue in insertion order, and every toast
// removes itself after its display duration unless dismissed first.
package toast

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultDuration is how long a toast stays up when the producer does not
// say otherwise.
const DefaultDuration = 5 * time.Second

// Level is the toast severity.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Toast is one queued notification. IDs are UUIDs, so no two toasts share
// one for the lifetime of the process.
type Toast struct {
	ID       string        `json:"id"`
	Message  string        `json:"message"`
	Level    Level         `json:"type"`
	Duration time.Duration `json:"-"`
}

// Store is the toast queue. Insertion order is display order.
type Store struct {
	mu              sync.Mutex
	toasts          []Toast
	timers          map[string]*time.Timer
	defaultDuration time.Duration
}

// StoreOption customizes Store construction.
type StoreOption func(*Store)

// WithDefaultDuration overrides the fallback display duration.
func WithDefaultDuration(d time.Duration) StoreOption {
	return func(s *Store) {
		if d > 0 {
			s.defaultDuration = d
		}
	}
}

// Option customizes a single toast.
type Option func(*Toast)

// WithDuration overrides the display duration for one toast.
func WithDuration(d time.Duration) Option {
	return func(t *Toast) {
		if d > 0 {
			t.Duration = d
		}
	}
}

func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		timers:          map[string]*time.Timer{},
		defaultDuration: DefaultDuration,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

// Add appends a toast and schedules its automatic removal.
func (s *Store) Add(message string, level Level, opts ...Option) Toast {
	t := Toast{
		ID:      uuid.NewString(),
		Message: message,
		Level:   level,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&t)
		}
	}

	if t.Duration <= 0 {
		t.Duration = s.defaultDuration
	}

	s.mu.Lock()
	s.toasts = append(s.toasts, t)
	s.timers[t.ID] = time.AfterFunc(t.Duration, func() {
		s.Remove(t.ID)
	})
	s.mu.Unlock()

	return t
}

// Remove dismisses the toast with that id and cancels its timer. A no-op for
// unknown ids, which covers the race where a manual dismissal lands just
// before the timer fires.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[id]; ok {
		timer.Stop()
		delete(s.timers, id)
	}

	for i, t := range s.toasts {
		if t.ID == id {
			s.toasts = append(s.toasts[:i], s.toasts[i+1:]...)
			return
		}
	}
}

// Clear empties the queue immediately and cancels every pending timer.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
	s.toasts = nil
}

// List returns a copy of the queue in display order.
func (s *Store) List() []Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Toast(nil), s.toasts...)
}

// Len reports the number of queued toasts.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.toasts)
}
