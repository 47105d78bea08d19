package worker

import (
	"context"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// setupConsumer sets QoS and starts consuming with manual acknowledgement
func (w *Worker) setupConsumer() (<-chan amqp.Delivery, error) {
	if err := w.consumer.Qos(w.prefetchCount); err != nil {
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	deliveries, err := w.consumer.Consume(w.workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}

	w.logger.Info("RabbitMQ consumer started",
		slog.String("consumer_tag", w.workerID),
		slog.Int("prefetch_count", w.prefetchCount),
	)

	return deliveries, nil
}

// dispatch hands deliveries to the worker pool until shutdown
func (w *Worker) dispatch(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Message dispatcher stopped - context canceled")
			return nil

		case <-w.stopChan:
			w.logger.Info("Message dispatcher stopped - stop requested")
			return nil

		case delivery, ok := <-deliveries:
			if !ok {
				w.logger.Warn("RabbitMQ delivery channel closed")
				return ErrDeliveriesClosed
			}

			select {
			case w.jobsChan <- delivery:
			case <-ctx.Done():
				w.requeueOnShutdown(delivery)
				return nil
			case <-w.stopChan:
				w.requeueOnShutdown(delivery)
				return nil
			}
		}
	}
}

func (w *Worker) requeueOnShutdown(delivery amqp.Delivery) {
	if err := delivery.Nack(false, true); err != nil {
		w.logger.Error("Failed to NACK message on shutdown",
			slog.Uint64("delivery_tag", delivery.DeliveryTag),
			slog.Any("error", err),
		)
		return
	}
	w.requeued.Add(1)
}
