// Package worker consumes deferred incomplete-payment reconciliations from
// RabbitMQ and retries them on a bounded pool of goroutines.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/saulmartinx/wolk/internal/workflow"
)

// ErrDeliveriesClosed is returned by Start when the broker closes the delivery channel
var ErrDeliveriesClosed = errors.New("delivery channel closed")

// Consumer is the broker surface the worker consumes from
type Consumer interface {
	Qos(prefetchCount int) error
	Consume(consumerTag string) (<-chan amqp.Delivery, error)
}

// Reconciler settles one incomplete payment payload
type Reconciler interface {
	ReconcileIncomplete(ctx context.Context, raw []byte) workflow.ReconcileResult
}

// Config holds worker configuration
type Config struct {
	Logger        *slog.Logger
	Consumer      Consumer
	Reconciler    Reconciler
	ConsumerTag   string
	Concurrency   int
	PrefetchCount int
	JobTimeout    time.Duration
}

// Stats counts delivery outcomes since the worker started
type Stats struct {
	Acked    int64
	Requeued int64
	Dropped  int64
}

// Worker represents the reconciliation worker
type Worker struct {
	logger        *slog.Logger
	consumer      Consumer
	reconciler    Reconciler
	workerID      string
	concurrency   int
	prefetchCount int
	jobTimeout    time.Duration

	jobsChan chan amqp.Delivery
	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	acked    atomic.Int64
	requeued atomic.Int64
	dropped  atomic.Int64
}

// NewWorker creates a new worker instance
func NewWorker(cfg *Config) *Worker {
	workerID := cfg.ConsumerTag
	if workerID == "" {
		workerID = "reconciler-" + uuid.New().String()[:8]
	}

	concurrency := max(cfg.Concurrency, 1)
	prefetch := cfg.PrefetchCount
	if prefetch <= 0 {
		prefetch = concurrency
	}

	jobTimeout := cfg.JobTimeout
	if jobTimeout <= 0 {
		jobTimeout = 30 * time.Second
	}

	return &Worker{
		logger:        cfg.Logger,
		consumer:      cfg.Consumer,
		reconciler:    cfg.Reconciler,
		workerID:      workerID,
		concurrency:   concurrency,
		prefetchCount: prefetch,
		jobTimeout:    jobTimeout,
		jobsChan:      make(chan amqp.Delivery),
		stopChan:      make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Start consumes deliveries until ctx is canceled, Stop is called or the
// broker closes the delivery channel. In-flight deliveries finish before it returns.
func (w *Worker) Start(ctx context.Context) error {
	defer close(w.done)

	w.logger.Info("Starting worker",
		slog.String("worker_id", w.workerID),
		slog.Int("concurrency", w.concurrency),
		slog.Duration("job_timeout", w.jobTimeout),
	)

	deliveries, err := w.setupConsumer()
	if err != nil {
		return err
	}

	w.spawnWorkerPool(ctx)

	err = w.dispatch(ctx, deliveries)

	close(w.jobsChan)
	w.wg.Wait()

	stats := w.Stats()
	w.logger.Info("Worker stopped",
		slog.String("worker_id", w.workerID),
		slog.Int64("acked", stats.Acked),
		slog.Int64("requeued", stats.Requeued),
		slog.Int64("dropped", stats.Dropped),
	)

	return err
}

// Stop signals the dispatcher to stop and waits for in-flight deliveries
func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.stopOnce.Do(func() { close(w.stopChan) })
	<-w.done
}

// Stats returns delivery outcome counters
func (w *Worker) Stats() Stats {
	return Stats{
		Acked:    w.acked.Load(),
		Requeued: w.requeued.Load(),
		Dropped:  w.dropped.Load(),
	}
}
