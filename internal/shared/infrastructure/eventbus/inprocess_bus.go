package eventbus

import (
	"context"
	"log/slog"
	"sync"
)

// Handler consumes events delivered by the in-process bus.
type Handler func(ctx context.Context, event Event)

// InProcessBus delivers events synchronously to subscribed handlers. It
// backs the CLI and tests, where no broker is running.
type InProcessBus struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewInProcessBus creates an in-process event bus.
func NewInProcessBus(logger *slog.Logger) *InProcessBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessBus{
		logger:   logger,
		handlers: make(map[string][]Handler),
	}
}

// Subscribe registers a handler for a routing key.
func (b *InProcessBus) Subscribe(routingKey string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[routingKey] = append(b.handlers[routingKey], handler)
}

// Publish dispatches the event to every handler subscribed to its routing
// key. Delivery is synchronous and never fails.
func (b *InProcessBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.RoutingKey]
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(ctx, event)
	}

	b.logger.Debug("event dispatched",
		"routing_key", event.RoutingKey,
		"event_id", event.ID,
		"handlers", len(handlers),
	)
	return nil
}

// Close is a no-op for the in-process bus.
func (b *InProcessBus) Close() error { return nil }
