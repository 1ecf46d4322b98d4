// Package notifier reports statements submitted for banks the processor
// does not support yet.
package notifier

import (
	"context"
	"log/slog"
	"time"
)

// Event is the unsupported bank report
type Event struct {
	Bank        string `json:"bank"`
	ResourceURL string `json:"resource_url"`
	Timestamp   int64  `json:"timestamp"` // unix millis
}

// NewEvent stamps an event with the current time
func NewEvent(bank, resourceURL string, at time.Time) Event {
	return Event{
		Bank:        bank,
		ResourceURL: resourceURL,
		Timestamp:   at.UnixMilli(),
	}
}

// Notifier delivers unsupported bank events
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// LogNotifier writes events to the log only
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, event Event) error {
	n.logger.Warn("unsupported bank requested",
		slog.String("bank", event.Bank),
		slog.String("resource_url", event.ResourceURL),
		slog.Int64("timestamp", event.Timestamp),
	)
	return nil
}
