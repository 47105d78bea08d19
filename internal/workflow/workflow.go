// Package workflow orchestrates swipes and the payment lifecycle:
// approve, complete and out-of-band reconciliation of incomplete payments.
package workflow

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/saulmartinx/wolk/internal/domain"
	"github.com/saulmartinx/wolk/internal/model"
)

// Gateway is the payment network client
type Gateway interface {
	Approve(ctx context.Context, paymentID string) error
	Verify(ctx context.Context, paymentID string) (*domain.PaymentDetails, error)
}

type SwipeStore interface {
	CreateSwipe(ctx context.Context, swipe *model.Swipe) error
}

type TransactionStore interface {
	UpsertApproved(ctx context.Context, paymentID string) (*model.Transaction, error)
	UpsertCompleted(ctx context.Context, tx *model.Transaction) (*model.Transaction, error)
	GetTransaction(ctx context.Context, paymentID string) (*model.Transaction, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, evt domain.Event) error
	PublishRaw(ctx context.Context, routingKey string, body []byte) error
}

// Dependencies holds everything the workflow needs
type Dependencies struct {
	Logger       *slog.Logger
	Gateway      Gateway
	Swipes       SwipeStore
	Transactions TransactionStore
	Events       EventPublisher
}

// Service runs the swipe and payment workflow. It keeps no state of its own;
// every call reads and writes through the injected stores.
type Service struct {
	logger       *slog.Logger
	gateway      Gateway
	swipes       SwipeStore
	transactions TransactionStore
	events       EventPublisher
	now          func() time.Time
	newID        func() string
}

// NewService creates a new workflow Service
func NewService(deps *Dependencies) *Service {
	return &Service{
		logger:       deps.Logger,
		gateway:      deps.Gateway,
		swipes:       deps.Swipes,
		transactions: deps.Transactions,
		events:       deps.Events,
		now:          time.Now,
		newID:        func() string { return uuid.New().String() },
	}
}

// publish sends evt and only logs on failure; events never fail the workflow
func (s *Service) publish(ctx context.Context, routingKey string, evt domain.Event) {
	if s.events == nil {
		return
	}

	evt.Type = routingKey
	evt.OccurredAt = s.now().UTC()
	if err := s.events.Publish(ctx, routingKey, evt); err != nil {
		s.logger.Warn("Failed to publish event",
			slog.String("routing_key", routingKey),
			slog.Any("error", err),
		)
	}
}
