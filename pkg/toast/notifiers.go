package toast

import (
	"context"
	"log/slog"
	"sync"
)

// LogNotifier writes toasts to a structured logger. The default sink
// for headless and test runs.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier over the given logger. A nil logger
// falls back to slog.Default.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, t Toast) {
	level := slog.LevelInfo
	if t.Level == LevelError {
		level = slog.LevelWarn
	}
	n.logger.LogAttrs(ctx, level, "toast",
		slog.String("toast_id", t.ID),
		slog.String("level", string(t.Level)),
		slog.String("message", t.Message),
	)
}

// Recorder collects toasts in memory so tests can assert on emitted
// notifications.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(_ context.Context, t Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, t)
}

// Toasts returns a copy of everything recorded so far.
func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Toast, len(r.toasts))
	copy(out, r.toasts)
	return out
}

// Reset drops all recorded toasts.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = nil
}

// Multi fans a toast out to several notifiers.
type Multi struct {
	notifiers []Notifier
}

// NewMulti creates a fan-out notifier.
func NewMulti(notifiers ...Notifier) *Multi {
	return &Multi{notifiers: notifiers}
}

func (m *Multi) Notify(ctx context.Context, t Toast) {
	for _, n := range m.notifiers {
		n.Notify(ctx, t)
	}
}
