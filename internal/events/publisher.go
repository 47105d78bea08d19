package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/saulmartinx/wolk/internal/domain"
)

const contentTypeJSON = "application/json"

// Broker is the message broker surface the publisher needs
type Broker interface {
	PublishWithRetry(ctx context.Context, routingKey string, body []byte, contentType string) error
}

// Publisher sends workflow events to the message broker
type Publisher struct {
	broker Broker
	logger *slog.Logger
}

// NewPublisher creates a Publisher backed by broker
func NewPublisher(broker Broker, logger *slog.Logger) *Publisher {
	return &Publisher{
		broker: broker,
		logger: logger,
	}
}

// Publish encodes evt as JSON and publishes it under routingKey
func (p *Publisher) Publish(ctx context.Context, routingKey string, evt domain.Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return p.PublishRaw(ctx, routingKey, body)
}

// PublishRaw publishes an already encoded JSON body under routingKey
func (p *Publisher) PublishRaw(ctx context.Context, routingKey string, body []byte) error {
	if err := p.broker.PublishWithRetry(ctx, routingKey, body, contentTypeJSON); err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}

	p.logger.Debug("Event published",
		slog.String("routing_key", routingKey),
		slog.Int("body_size", len(body)),
	)

	return nil
}

// Noop discards every event. It is used when the broker is disabled.
type Noop struct{}

func (Noop) Publish(ctx context.Context, routingKey string, evt domain.Event) error {
	return nil
}

func (Noop) PublishRaw(ctx context.Context, routingKey string, body []byte) error {
	return nil
}
