// Package notify delivers user-facing cart messages to fire-and-forget sinks.
package notify

import (
	"context"
	"sync"

	"github.com/fjod/rocketshoes/pkg/logger"
)

// Notifier shows a message to the user. Delivery is best effort and never
// reports back.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// LogNotifier writes each message as a warn line carrying the context's
// logger fields.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, message string) {
	n.log.From(ctx).Warn().Str("notification", message).Msg("cart notification")
}

type multi []Notifier

// Multi fans a message out to every non-nil notifier in order.
func Multi(notifiers ...Notifier) Notifier {
	out := make(multi, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

func (m multi) Notify(ctx context.Context, message string) {
	for _, n := range m {
		n.Notify(ctx, message)
	}
}

// Recorder keeps every message it receives.
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

func (r *Recorder) Notify(_ context.Context, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.messages))
	copy(out, r.messages)
	return out
}

// Last returns the most recent message, if any.
func (r *Recorder) Last() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return "", false
	}
	return r.messages[len(r.messages)-1], true
}
