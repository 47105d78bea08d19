package dto

import (
	"encoding/json"
	"time"

	"github.com/saulmartinx/wolk/internal/model"
)

type ListTransactionsRequest struct {
	Limit  int    `form:"limit"`
	Cursor string `form:"cursor"`
}

type ListTransactionsResponse struct {
	Transactions []TransactionDTO `json:"transactions"`
	NextCursor   string           `json:"next_cursor,omitempty"`
}

type TransactionDTO struct {
	PaymentID   string          `json:"payment_id"`
	Status      string          `json:"status"`
	Amount      *float64        `json:"amount"`
	TxID        string          `json:"txid,omitempty"`
	PaymentData json.RawMessage `json:"payment_data,omitempty"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
	CompletedAt string          `json:"completed_at,omitempty"`
}

func NewTransactionDTO(tx *model.Transaction) TransactionDTO {
	out := TransactionDTO{
		PaymentID: tx.PaymentID,
		Status:    string(tx.Status),
		TxID:      tx.TxID.String,
		CreatedAt: tx.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: tx.UpdatedAt.UTC().Format(time.RFC3339),
	}

	if tx.Amount.Valid {
		amount := tx.Amount.Decimal.InexactFloat64()
		out.Amount = &amount
	}

	if len(tx.PaymentData) > 0 && json.Valid(tx.PaymentData) {
		out.PaymentData = json.RawMessage(tx.PaymentData)
	}

	if tx.CompletedAt.Valid {
		out.CompletedAt = tx.CompletedAt.Time.UTC().Format(time.RFC3339)
	}

	return out
}
