package services

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/light-bringer/catalog-service/internal/catalog/domain"
)

// EventHandler reacts to one domain event. Handlers run synchronously after
// the business mutation commits; they must be idempotent because the same
// state change can reach them again through a later recomputation.
type EventHandler func(ctx context.Context, event domain.DomainEvent) error

// Dispatcher routes committed domain events to subscribed handlers. The
// deactivation cascade rides on it: variant demotion events feed the product
// aggregator, product demotion events feed the subcategory check, each stage
// an explicit subscription instead of a chained service call.
type Dispatcher struct {
	handlers map[string][]EventHandler
	logger   *zap.Logger
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string][]EventHandler),
		logger:   logger,
	}
}

// Subscribe registers a handler for an event type. Not safe for concurrent
// use; all subscriptions happen during wiring.
func (d *Dispatcher) Subscribe(eventType string, handler EventHandler) {
	d.handlers[eventType] = append(d.handlers[eventType], handler)
}

// Dispatch delivers each event to its subscribers in order. A failing handler
// does not stop delivery; the combined error is returned so callers can
// surface a warning. Derived state a handler failed to refresh is rebuilt by
// the next recomputation over the same rows.
func (d *Dispatcher) Dispatch(ctx context.Context, events []domain.DomainEvent) error {
	var errs error
	for _, event := range events {
		for _, handler := range d.handlers[event.EventType()] {
			if err := handler(ctx, event); err != nil {
				d.logger.Error("event handler failed",
					zap.String("event", event.EventType()),
					zap.String("aggregate_id", event.AggregateID()),
					zap.Error(err),
				)
				errs = multierr.Append(errs, err)
			}
		}
	}
	return errs
}
