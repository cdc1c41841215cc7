// Package notify defines the notification port: the boundary through which
// engines report user-facing outcomes.
//
// Engines fire notifications after the corresponding state transition has
// been decided; they never block on the call and never inspect a result.
// Invariant checks stay pure inside the engines - the notifier is the only
// side effect at the operation boundary.
package notify

import "log/slog"

// Kind classifies a user-facing outcome.
type Kind string

const (
	KindSuccess           Kind = "success"
	KindAdded             Kind = "added"
	KindRemoved           Kind = "removed"
	KindCleared           Kind = "cleared"
	KindInsufficientStock Kind = "insufficient_stock"
	KindAlreadyExists     Kind = "already_exists"
)

// Notifier receives fire-and-forget user-facing events.
type Notifier interface {
	Notify(kind Kind, message string)
}

// Func adapts a plain function to the Notifier interface.
type Func func(kind Kind, message string)

func (f Func) Notify(kind Kind, message string) { f(kind, message) }

// Discard swallows all notifications. Engines default to it so that
// callers who don't surface notifications need no wiring.
var Discard Notifier = Func(func(Kind, string) {})

// SlogNotifier logs every notification through a structured logger.
type SlogNotifier struct {
	logger *slog.Logger
}

// NewSlogNotifier creates a notifier backed by the given logger.
// A nil logger falls back to slog.Default().
func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogNotifier{logger: logger}
}

func (n *SlogNotifier) Notify(kind Kind, message string) {
	n.logger.Info("notification", "kind", string(kind), "message", message)
}
