package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/saulmartinx/wolk/internal/domain"
)

type ReconcileResult struct {
	PaymentID string
	Action    string
	Message   string
}

// ReconcileIncomplete decides what to do with a payment the gateway reports as
// incomplete. It never returns an error: the gateway expects an acknowledgement,
// so every failure is reported as an "error" action instead.
func (s *Service) ReconcileIncomplete(ctx context.Context, raw []byte) (result ReconcileResult) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Reconciliation panicked",
				slog.Any("panic", r),
			)
			result = ReconcileResult{
				PaymentID: result.PaymentID,
				Action:    domain.ReconcileActionError,
				Message:   fmt.Sprintf("internal error: %v", r),
			}
		}
	}()

	var payment domain.IncompletePayment
	if err := json.Unmarshal(raw, &payment); err != nil {
		return s.reconcileFailed("", fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err))
	}
	result.PaymentID = payment.Identifier

	if payment.Identifier == "" {
		return ReconcileResult{
			Action:  domain.ReconcileActionProcessed,
			Message: "No payment identifier in payload",
		}
	}

	existing, err := s.transactions.GetTransaction(ctx, payment.Identifier)
	switch {
	case err == nil && existing.Status.IsTerminal():
		s.logger.Info("Incomplete payment already completed locally",
			slog.String("payment_id", payment.Identifier),
		)
		return ReconcileResult{
			PaymentID: payment.Identifier,
			Action:    domain.ReconcileActionIgnore,
			Message:   "Payment already completed",
		}
	case err != nil && !errors.Is(err, domain.ErrTransactionNotFound):
		return s.reconcileFailed(payment.Identifier, err)
	}

	txid := payment.TxID()
	if payment.Status == domain.IncompleteStatusPending && txid != "" {
		if _, err := s.CompletePayment(ctx, payment.Identifier, txid); err != nil {
			return s.reconcileFailed(payment.Identifier, err)
		}
		return ReconcileResult{
			PaymentID: payment.Identifier,
			Action:    domain.ReconcileActionCompleted,
			Message:   "Incomplete payment completed",
		}
	}

	s.logger.Info("Incomplete payment acknowledged without action",
		slog.String("payment_id", payment.Identifier),
		slog.String("status", payment.Status),
	)

	return ReconcileResult{
		PaymentID: payment.Identifier,
		Action:    domain.ReconcileActionProcessed,
		Message:   "Incomplete payment processed",
	}
}

func (s *Service) reconcileFailed(paymentID string, err error) ReconcileResult {
	s.logger.Error("Failed to reconcile incomplete payment",
		slog.String("payment_id", paymentID),
		slog.Any("error", err),
	)
	return ReconcileResult{
		PaymentID: paymentID,
		Action:    domain.ReconcileActionError,
		Message:   err.Error(),
	}
}

// DeferReconcile hands raw to the reconciliation worker through the broker
func (s *Service) DeferReconcile(ctx context.Context, raw []byte) error {
	if s.events == nil {
		return nil
	}
	if err := s.events.PublishRaw(ctx, domain.RoutingKeyPaymentIncomplete, raw); err != nil {
		return fmt.Errorf("failed to defer reconciliation: %w", err)
	}
	return nil
}
