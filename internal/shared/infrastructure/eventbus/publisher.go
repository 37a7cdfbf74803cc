// Package eventbus publishes analysis lifecycle events, either in process
// or through RabbitMQ.
package eventbus

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Routing keys for analysis events.
const (
	RoutingKeyAnalysisCompleted = "analysis.completed"
)

// Event is one message on the bus.
type Event struct {
	ID         uuid.UUID `json:"id"`
	RoutingKey string    `json:"routing_key"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// NewEvent builds an event with a fresh id and timestamp.
func NewEvent(routingKey string, payload any) Event {
	return Event{
		ID:         uuid.New(),
		RoutingKey: routingKey,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// AnalysisCompleted is the payload published after every scoring call.
type AnalysisCompleted struct {
	Strategy     string  `json:"strategy"`
	TaskCount    int     `json:"task_count"`
	TopTaskTitle string  `json:"top_task_title"`
	TopScore     float64 `json:"top_score"`
	HasCycles    bool    `json:"has_cycles"`
}

// Publisher sends events to the bus.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoopPublisher discards events; used when no broker is configured.
type NoopPublisher struct {
	logger *slog.Logger
}

// NewNoopPublisher creates a publisher that only logs.
func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopPublisher{logger: logger}
}

// Publish logs the event but delivers nothing.
func (p *NoopPublisher) Publish(_ context.Context, event Event) error {
	p.logger.Debug("event discarded (no broker configured)", "routing_key", event.RoutingKey)
	return nil
}

// Close is a no-op.
func (p *NoopPublisher) Close() error { return nil }
