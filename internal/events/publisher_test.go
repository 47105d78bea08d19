package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/saulmartinx/wolk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBroker struct {
	routingKey  string
	body        []byte
	contentType string
	err         error
}

func (f *fakeBroker) PublishWithRetry(ctx context.Context, routingKey string, body []byte, contentType string) error {
	f.routingKey = routingKey
	f.body = body
	f.contentType = contentType
	return f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublisher_Publish(t *testing.T) {
	broker := &fakeBroker{}
	p := NewPublisher(broker, discardLogger())

	evt := domain.Event{
		Type:       domain.RoutingKeyPaymentApproved,
		PaymentID:  "P1",
		OccurredAt: time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.Publish(context.Background(), domain.RoutingKeyPaymentApproved, evt))

	assert.Equal(t, domain.RoutingKeyPaymentApproved, broker.routingKey)
	assert.Equal(t, "application/json", broker.contentType)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(broker.body, &decoded))
	assert.Equal(t, "P1", decoded["payment_id"])
	assert.NotContains(t, decoded, "txid")
}

func TestPublisher_PublishRaw_Error(t *testing.T) {
	broker := &fakeBroker{err: errors.New("channel closed")}
	p := NewPublisher(broker, discardLogger())

	err := p.PublishRaw(context.Background(), domain.RoutingKeyPaymentIncomplete, []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payment.incomplete")
	assert.Contains(t, err.Error(), "channel closed")
}

func TestNoop(t *testing.T) {
	var n Noop
	assert.NoError(t, n.Publish(context.Background(), "any", domain.Event{}))
	assert.NoError(t, n.PublishRaw(context.Background(), "any", nil))
}
