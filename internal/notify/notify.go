// Package notify delivers user-visible notifications about data operations.
package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/sumire/freelance/internal/domain"
)

// Notifier accepts notifications. Delivery is fire-and-forget.
type Notifier interface {
	Notify(n domain.Notification)
}

// Func adapts a function to Notifier.
type Func func(n domain.Notification)

func (f Func) Notify(n domain.Notification) { f(n) }

// Discard drops every notification.
var Discard Notifier = Func(func(domain.Notification) {})

// Log writes notifications to the default slog logger.
type Log struct{}

func (Log) Notify(n domain.Notification) {
	level := slog.LevelInfo
	if n.Severity == domain.SeverityError {
		level = slog.LevelWarn
	}
	slog.Log(context.Background(), level, "notification", "title", n.Title, "description", n.Description)
}

// Writer prints notifications as single lines, e.g. "Error: Failed to load projects."
type Writer struct {
	mu  sync.Mutex
	out io.Writer
}

// NewWriter returns a Writer printing to out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

func (w *Writer) Notify(n domain.Notification) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.out, "%s %s\n", n.Title, n.Description)
}

// Recorder keeps every notification it receives.
type Recorder struct {
	mu    sync.Mutex
	items []domain.Notification
}

func (r *Recorder) Notify(n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// All returns the notifications received so far.
func (r *Recorder) All() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Notification(nil), r.items...)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (domain.Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return domain.Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// Reset forgets every recorded notification.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
}
