// Package messaging publishes record events.
package messaging

import (
	"context"

	"go.uber.org/zap"

	"processflow/application/ports"
	"processflow/domain/events"
)

// LogBus writes every event to the log. It is the bus used when no
// external event bus is configured.
type LogBus struct {
	logger *zap.Logger
}

// NewLogBus creates a log-only event bus
func NewLogBus(logger *zap.Logger) ports.EventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogBus{logger: logger}
}

// Publish logs a single event
func (b *LogBus) Publish(_ context.Context, event events.DomainEvent) error {
	b.logger.Info("Record event",
		zap.String("eventType", event.GetEventType()),
		zap.String("aggregateID", event.GetAggregateID()),
		zap.Time("timestamp", event.GetTimestamp()),
	)
	return nil
}

// PublishBatch logs every event in order
func (b *LogBus) PublishBatch(ctx context.Context, domainEvents []events.DomainEvent) error {
	for _, event := range domainEvents {
		if err := b.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// FanOut publishes to several buses. Every bus is tried; the first error is returned.
type FanOut []ports.EventBus

// Publish sends event to every bus
func (f FanOut) Publish(ctx context.Context, event events.DomainEvent) error {
	var first error
	for _, b := range f {
		if err := b.Publish(ctx, event); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// PublishBatch sends the batch to every bus
func (f FanOut) PublishBatch(ctx context.Context, domainEvents []events.DomainEvent) error {
	var first error
	for _, b := range f {
		if err := b.PublishBatch(ctx, domainEvents); err != nil && first == nil {
			first = err
		}
	}
	return first
}
