package worker

import (
	"context"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/saulmartinx/wolk/internal/domain"
)

type outcome int

const (
	outcomeAck outcome = iota
	outcomeRequeue
	outcomeDrop
)

// decide maps a reconciliation action to the delivery acknowledgement.
// Failures are retried once through a requeue; a redelivered failure is dropped.
func decide(action string, redelivered bool) outcome {
	if action != domain.ReconcileActionError {
		return outcomeAck
	}
	if redelivered {
		return outcomeDrop
	}
	return outcomeRequeue
}

// handleDelivery reconciles one payload under the job timeout and settles the delivery
func (w *Worker) handleDelivery(ctx context.Context, workerName string, delivery amqp.Delivery) {
	if len(delivery.Body) == 0 {
		w.logger.Warn("Dropping empty message",
			slog.String("worker_name", workerName),
			slog.Uint64("delivery_tag", delivery.DeliveryTag),
		)
		w.settle(workerName, delivery, outcomeDrop, "")
		return
	}

	// Shutdown must not abort a reconciliation halfway through
	jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.jobTimeout)
	defer cancel()

	result := w.reconciler.ReconcileIncomplete(jobCtx, delivery.Body)

	w.logger.Info("Reconciliation finished",
		slog.String("worker_name", workerName),
		slog.String("payment_id", result.PaymentID),
		slog.String("action", result.Action),
		slog.String("message", result.Message),
		slog.Bool("redelivered", delivery.Redelivered),
	)

	w.settle(workerName, delivery, decide(result.Action, delivery.Redelivered), result.PaymentID)
}

func (w *Worker) settle(workerName string, delivery amqp.Delivery, o outcome, paymentID string) {
	var err error
	switch o {
	case outcomeAck:
		if err = delivery.Ack(false); err == nil {
			w.acked.Add(1)
		}
	case outcomeRequeue:
		if err = delivery.Nack(false, true); err == nil {
			w.requeued.Add(1)
		}
	case outcomeDrop:
		if err = delivery.Nack(false, false); err == nil {
			w.dropped.Add(1)
		}
	}

	if err != nil {
		w.logger.Error("Failed to settle message",
			slog.String("worker_name", workerName),
			slog.String("payment_id", paymentID),
			slog.Uint64("delivery_tag", delivery.DeliveryTag),
			slog.Any("error", err),
		)
	}
}
