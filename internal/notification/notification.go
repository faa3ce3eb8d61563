// Package notification is the change channel the host UI subscribes to
// instead of watching shared state. Delivery is best effort; ledger
// commits never depend on it.
package notification

import (
	"context"
	"log/slog"
	"sync"
)

const (
	// KindDeposit indicates funds credited to an account.
	KindDeposit = "deposit"
	// KindWithdrawal indicates funds debited from an account.
	KindWithdrawal = "withdrawal"
	// KindTransfer indicates a completed transfer between accounts.
	KindTransfer = "transfer"
	// KindInterest indicates an interest posting.
	KindInterest = "interest"
)

// Message describes a change event payload.
type Message struct {
	Kind        string
	Destination string
	Body        string
}

// Notifier delivers change events to downstream systems.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier writes change events to the structured logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("notification", "kind", message.Kind, "destination", message.Destination, "body", message.Body)
	return nil
}

// Recorder captures messages in memory for tests.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

// NewRecorder constructs an in-memory notifier.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Send records the message.
func (r *Recorder) Send(_ context.Context, message Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
	return nil
}

// Messages returns a copy of everything recorded so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}
