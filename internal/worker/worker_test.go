package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/saulmartinx/wolk/internal/domain"
	"github.com/saulmartinx/wolk/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type settlement struct {
	tag     uint64
	ack     bool
	requeue bool
}

type fakeAcknowledger struct {
	mu          sync.Mutex
	settlements []settlement
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settlements = append(f.settlements, settlement{tag: tag, ack: true})
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settlements = append(f.settlements, settlement{tag: tag, requeue: requeue})
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return f.Nack(tag, false, requeue)
}

func (f *fakeAcknowledger) byTag() map[uint64]settlement {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[uint64]settlement, len(f.settlements))
	for _, s := range f.settlements {
		out[s.tag] = s
	}
	return out
}

func (f *fakeAcknowledger) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.settlements)
}

type fakeConsumer struct {
	deliveries chan amqp.Delivery
	qosErr     error
	consumeErr error
	prefetch   int
}

func (f *fakeConsumer) Qos(prefetchCount int) error {
	f.prefetch = prefetchCount
	return f.qosErr
}

func (f *fakeConsumer) Consume(consumerTag string) (<-chan amqp.Delivery, error) {
	if f.consumeErr != nil {
		return nil, f.consumeErr
	}
	return f.deliveries, nil
}

// fakeReconciler answers by payload body
type fakeReconciler struct {
	mu      sync.Mutex
	actions map[string]string
	calls   int
}

func (f *fakeReconciler) ReconcileIncomplete(ctx context.Context, raw []byte) workflow.ReconcileResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return workflow.ReconcileResult{PaymentID: string(raw), Action: f.actions[string(raw)]}
}

func newTestWorker(consumer Consumer, reconciler Reconciler) *Worker {
	return NewWorker(&Config{
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Consumer:    consumer,
		Reconciler:  reconciler,
		ConsumerTag: "test-worker",
		Concurrency: 3,
		JobTimeout:  time.Second,
	})
}

func TestDecide(t *testing.T) {
	tests := []struct {
		action      string
		redelivered bool
		want        outcome
	}{
		{action: domain.ReconcileActionCompleted, want: outcomeAck},
		{action: domain.ReconcileActionIgnore, want: outcomeAck},
		{action: domain.ReconcileActionProcessed, redelivered: true, want: outcomeAck},
		{action: domain.ReconcileActionError, want: outcomeRequeue},
		{action: domain.ReconcileActionError, redelivered: true, want: outcomeDrop},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, decide(tt.action, tt.redelivered), "%s redelivered=%v", tt.action, tt.redelivered)
	}
}

func TestWorker_SettlesDeliveries(t *testing.T) {
	acker := &fakeAcknowledger{}
	consumer := &fakeConsumer{deliveries: make(chan amqp.Delivery)}
	reconciler := &fakeReconciler{actions: map[string]string{
		"P-done":    domain.ReconcileActionCompleted,
		"P-ignored": domain.ReconcileActionIgnore,
		"P-fail":    domain.ReconcileActionError,
		"P-retried": domain.ReconcileActionError,
	}}
	w := newTestWorker(consumer, reconciler)

	errCh := make(chan error, 1)
	go func() { errCh <- w.Start(context.Background()) }()

	messages := []amqp.Delivery{
		{Acknowledger: acker, DeliveryTag: 1, Body: []byte("P-done")},
		{Acknowledger: acker, DeliveryTag: 2, Body: []byte("P-ignored")},
		{Acknowledger: acker, DeliveryTag: 3, Body: []byte("P-fail")},
		{Acknowledger: acker, DeliveryTag: 4, Body: []byte("P-retried"), Redelivered: true},
		{Acknowledger: acker, DeliveryTag: 5, Body: nil},
	}
	for _, msg := range messages {
		consumer.deliveries <- msg
	}
	close(consumer.deliveries)

	err := <-errCh
	assert.ErrorIs(t, err, ErrDeliveriesClosed)

	got := acker.byTag()
	require.Len(t, got, 5)
	assert.True(t, got[1].ack)
	assert.True(t, got[2].ack)
	assert.False(t, got[3].ack)
	assert.True(t, got[3].requeue)
	assert.False(t, got[4].ack)
	assert.False(t, got[4].requeue)
	assert.False(t, got[5].ack)
	assert.False(t, got[5].requeue)

	assert.Equal(t, 4, reconciler.calls)
	assert.Equal(t, Stats{Acked: 2, Requeued: 1, Dropped: 2}, w.Stats())
	assert.Equal(t, 3, consumer.prefetch)
}

func TestWorker_StopsOnContextCancel(t *testing.T) {
	acker := &fakeAcknowledger{}
	consumer := &fakeConsumer{deliveries: make(chan amqp.Delivery)}
	reconciler := &fakeReconciler{actions: map[string]string{"P1": domain.ReconcileActionCompleted}}
	w := newTestWorker(consumer, reconciler)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Start(ctx) }()

	consumer.deliveries <- amqp.Delivery{Acknowledger: acker, DeliveryTag: 1, Body: []byte("P1")}
	require.Eventually(t, func() bool { return acker.count() == 1 }, time.Second, 5*time.Millisecond)

	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after context cancel")
	}
}

func TestWorker_Stop(t *testing.T) {
	consumer := &fakeConsumer{deliveries: make(chan amqp.Delivery)}
	w := newTestWorker(consumer, &fakeReconciler{})

	errCh := make(chan error, 1)
	go func() { errCh <- w.Start(context.Background()) }()

	w.Stop()
	assert.NoError(t, <-errCh)

	// A second Stop is a no-op
	w.Stop()
}

func TestWorker_SetupFailures(t *testing.T) {
	t.Run("qos", func(t *testing.T) {
		w := newTestWorker(&fakeConsumer{qosErr: errors.New("channel closed")}, &fakeReconciler{})
		err := w.Start(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to set QoS")
	})

	t.Run("consume", func(t *testing.T) {
		w := newTestWorker(&fakeConsumer{consumeErr: errors.New("queue missing")}, &fakeReconciler{})
		err := w.Start(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to start consuming")
	})
}

func TestNewWorker_Defaults(t *testing.T) {
	w := NewWorker(&Config{
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Consumer:   &fakeConsumer{},
		Reconciler: &fakeReconciler{},
	})

	assert.Equal(t, 1, w.concurrency)
	assert.Equal(t, 1, w.prefetchCount)
	assert.Equal(t, 30*time.Second, w.jobTimeout)
	assert.Contains(t, w.workerID, "reconciler-")
}
