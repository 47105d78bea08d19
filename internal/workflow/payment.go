package workflow

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/saulmartinx/wolk/internal/domain"
	"github.com/saulmartinx/wolk/internal/model"
	"github.com/shopspring/decimal"
)

// ApprovePayment approves paymentID with the gateway and records it locally.
// Nothing is written when the gateway rejects the approval or cannot be reached.
func (s *Service) ApprovePayment(ctx context.Context, paymentID string) (*model.Transaction, error) {
	if err := s.gateway.Approve(ctx, paymentID); err != nil {
		s.logger.Warn("Payment approval failed",
			slog.String("payment_id", paymentID),
			slog.Any("error", err),
		)
		return nil, err
	}

	tx, err := s.transactions.UpsertApproved(ctx, paymentID)
	if err != nil {
		s.logger.Error("Failed to store approved transaction",
			slog.String("payment_id", paymentID),
			slog.Any("error", err),
		)
		return nil, err
	}

	s.logger.Info("Payment approved",
		slog.String("payment_id", paymentID),
		slog.String("status", string(tx.Status)),
	)

	s.publish(ctx, domain.RoutingKeyPaymentApproved, domain.Event{PaymentID: paymentID})

	return tx, nil
}

// CompletePayment verifies paymentID with the gateway and stores it as completed.
// Calling it again for the same payment updates the same record.
func (s *Service) CompletePayment(ctx context.Context, paymentID, txid string) (*model.Transaction, error) {
	details, err := s.gateway.Verify(ctx, paymentID)
	if err != nil {
		s.logger.Warn("Payment verification failed",
			slog.String("payment_id", paymentID),
			slog.Any("error", err),
		)
		return nil, err
	}

	if details == nil {
		s.logger.Warn("Payment verification returned no details",
			slog.String("payment_id", paymentID),
		)
		return nil, fmt.Errorf("%w: no details for payment %s", domain.ErrPaymentVerificationFailed, paymentID)
	}

	tx, err := s.transactions.UpsertCompleted(ctx, &model.Transaction{
		PaymentID:   paymentID,
		Status:      domain.TransactionStatusCompleted,
		Amount:      decimal.NewNullDecimal(details.Amount),
		TxID:        sql.NullString{String: txid, Valid: txid != ""},
		PaymentData: details.Raw,
	})
	if err != nil {
		s.logger.Error("Failed to store completed transaction",
			slog.String("payment_id", paymentID),
			slog.Any("error", err),
		)
		return nil, err
	}

	s.logger.Info("Payment completed",
		slog.String("payment_id", paymentID),
		slog.String("txid", txid),
		slog.String("amount", details.Amount.String()),
	)

	amount := details.Amount
	s.publish(ctx, domain.RoutingKeyPaymentCompleted, domain.Event{
		PaymentID: paymentID,
		TxID:      txid,
		Amount:    &amount,
	})

	return tx, nil
}
