package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/saulmartinx/wolk/internal/domain"
	"github.com/saulmartinx/wolk/internal/model"
)

const transactionColumns = `
	payment_id, status, amount, txid, payment_data,
	created_at, updated_at, completed_at
`

// UpsertApproved records an approval for paymentID.
// The update only applies while the row is still approved, so an approval that
// loses a race against a completion leaves the completed row untouched.
// The returned transaction is the row as stored after the call.
func (s *Storage) UpsertApproved(ctx context.Context, paymentID string) (*model.Transaction, error) {
	query := `
		INSERT INTO transactions (payment_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (payment_id) DO UPDATE
		SET updated_at = EXCLUDED.updated_at
		WHERE transactions.status = $2
		RETURNING ` + transactionColumns

	var tx model.Transaction
	err := s.db.GetContext(ctx, &tx, query, paymentID, domain.TransactionStatusApproved, s.now().UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("Approval skipped - transaction already moved past approved",
				slog.String("payment_id", paymentID),
			)
			return s.GetTransaction(ctx, paymentID)
		}
		return nil, storageErr("upsert approved transaction", err)
	}

	return &tx, nil
}

// UpsertCompleted stores the completed state for tx.PaymentID.
// Repeated calls converge on one row; the latest verified payload wins and
// completed_at keeps its first value.
func (s *Storage) UpsertCompleted(ctx context.Context, tx *model.Transaction) (*model.Transaction, error) {
	query := `
		INSERT INTO transactions (
			payment_id, status, amount, txid, payment_data,
			created_at, updated_at, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $6, $6)
		ON CONFLICT (payment_id) DO UPDATE
		SET status = EXCLUDED.status,
		    amount = EXCLUDED.amount,
		    txid = EXCLUDED.txid,
		    payment_data = EXCLUDED.payment_data,
		    updated_at = EXCLUDED.updated_at,
		    completed_at = COALESCE(transactions.completed_at, EXCLUDED.completed_at)
		RETURNING ` + transactionColumns

	var paymentData sql.NullString
	if len(tx.PaymentData) > 0 {
		// lib/pq sends []byte as bytea, which jsonb rejects
		paymentData = sql.NullString{String: string(tx.PaymentData), Valid: true}
	}

	var stored model.Transaction
	err := s.db.GetContext(ctx, &stored, query,
		tx.PaymentID,
		domain.TransactionStatusCompleted,
		tx.Amount,
		tx.TxID,
		paymentData,
		s.now().UTC(),
	)
	if err != nil {
		return nil, storageErr("upsert completed transaction", err)
	}

	return &stored, nil
}

func (s *Storage) GetTransaction(ctx context.Context, paymentID string) (*model.Transaction, error) {
	var tx model.Transaction
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE payment_id = $1`

	err := s.db.GetContext(ctx, &tx, query, paymentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, storageErr("get transaction", err)
	}

	return &tx, nil
}

// ListTransactions returns up to filter.Limit+1 rows, newest first, so callers
// can tell whether another page exists.
func (s *Storage) ListTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.Cursor != nil {
		query += fmt.Sprintf(" AND (created_at, payment_id) < ($%d, $%d)", argIdx, argIdx+1)
		args = append(args, filter.Cursor.CreatedAt, filter.Cursor.PaymentID)
		argIdx += 2
	}

	query += " ORDER BY created_at DESC, payment_id DESC"
	query += fmt.Sprintf(" LIMIT $%d", argIdx)
	args = append(args, filter.Limit+1)

	txs := []model.Transaction{}
	if err := s.db.SelectContext(ctx, &txs, query, args...); err != nil {
		return nil, storageErr("list transactions", err)
	}

	return txs, nil
}
