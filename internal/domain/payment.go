package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentDetails is the authoritative payment record returned by the payment network
type PaymentDetails struct {
	Identifier  string                  `json:"identifier"`
	UserUID     string                  `json:"user_uid"`
	Amount      decimal.Decimal         `json:"amount"`
	Memo        string                  `json:"memo"`
	Metadata    map[string]any          `json:"metadata,omitempty"`
	FromAddress string                  `json:"from_address"`
	ToAddress   string                  `json:"to_address"`
	Direction   string                  `json:"direction"`
	Network     string                  `json:"network"`
	CreatedAt   string                  `json:"created_at"`
	Status      PaymentNetworkStatus    `json:"status"`
	Transaction *PaymentNetworkTransfer `json:"transaction"`

	// Raw is the undecoded response body, stored alongside completed transactions
	Raw json.RawMessage `json:"-"`
}

// PaymentNetworkStatus mirrors the status flags the payment network keeps per payment
type PaymentNetworkStatus struct {
	DeveloperApproved   bool `json:"developer_approved"`
	TransactionVerified bool `json:"transaction_verified"`
	DeveloperCompleted  bool `json:"developer_completed"`
	Cancelled           bool `json:"cancelled"`
	UserCancelled       bool `json:"user_cancelled"`
}

// PaymentNetworkTransfer is the on-chain transfer attached to a payment
type PaymentNetworkTransfer struct {
	TxID     string `json:"txid"`
	Verified bool   `json:"verified"`
	Link     string `json:"_link"`
}

// IncompletePayment is the payload the payment network sends for payments it
// considers unfinished on the app side.
type IncompletePayment struct {
	Identifier  string                  `json:"identifier"`
	Status      string                  `json:"status"`
	Transaction *PaymentNetworkTransfer `json:"transaction"`
}

// TxID returns the transfer id carried by the payload, if any
func (p *IncompletePayment) TxID() string {
	if p.Transaction == nil {
		return ""
	}
	return p.Transaction.TxID
}

// Event is published to the message broker on workflow state changes
type Event struct {
	Type       string           `json:"type"`
	JobID      string           `json:"job_id,omitempty"`
	UserID     string           `json:"user_id,omitempty"`
	Action     string           `json:"action,omitempty"`
	PaymentID  string           `json:"payment_id,omitempty"`
	TxID       string           `json:"txid,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}
