// Package notify delivers transient user-visible notifications.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"codego/internal/observability"
)

// Variant is the visual treatment of a notification.
type Variant string

const (
	Default     Variant = "default"
	Destructive Variant = "destructive"
	Warning     Variant = "warning"
)

// Notification is one toast shown to the user.
type Notification struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Variant     Variant   `json:"variant"`
	UserID      string    `json:"userId,omitempty"`
	At          time.Time `json:"at"`
}

// Notifier receives notifications. Implementations must be safe for concurrent use.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification)

func (f NotifierFunc) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// Info builds a default notification.
func Info(title, description string) Notification {
	return Notification{Title: title, Description: description, Variant: Default}
}

// Error builds a destructive notification.
func Error(title, description string) Notification {
	return Notification{Title: title, Description: description, Variant: Destructive}
}

// Warn builds a warning notification.
func Warn(title, description string) Notification {
	return Notification{Title: title, Description: description, Variant: Warning}
}

// Send stamps n, counts it and hands it to notifier. A nil notifier drops it.
func Send(ctx context.Context, notifier Notifier, n Notification) {
	if n.Variant == "" {
		n.Variant = Default
	}
	if n.At.IsZero() {
		n.At = time.Now()
	}
	observability.NotificationsTotal.WithLabelValues(string(n.Variant)).Inc()
	if notifier != nil {
		notifier.Notify(ctx, n)
	}
}

// LogNotifier writes notifications to a structured logger.
type LogNotifier struct {
	Logger *observability.Logger
}

func (l LogNotifier) Notify(ctx context.Context, n Notification) {
	logger := l.Logger
	if logger == nil {
		logger = observability.GlobalLogger
	}
	level := slog.LevelInfo
	switch n.Variant {
	case Destructive:
		level = slog.LevelError
	case Warning:
		level = slog.LevelWarn
	}
	logger.Log(ctx, level, n.Title,
		slog.String("description", n.Description),
		slog.String("variant", string(n.Variant)),
	)
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// All returns a copy of the recorded notifications in arrival order.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// Titles lists the recorded titles in order.
func (r *Recorder) Titles() []string {
	all := r.All()
	out := make([]string, len(all))
	for i, n := range all {
		out[i] = n.Title
	}
	return out
}

// Len returns the number of recorded notifications.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
}

// Fanout delivers each notification to every wrapped notifier in order.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, n Notification) {
	for _, notifier := range f {
		if notifier != nil {
			notifier.Notify(ctx, n)
		}
	}
}
