package domain

import (
	"database/sql/driver"
	"fmt"
)

// TransactionStatus is the lifecycle state of a payment record.
type TransactionStatus string

const (
	TransactionStatusApproved  TransactionStatus = "approved"
	TransactionStatusCompleted TransactionStatus = "completed"
)

// rank orders statuses; a record may only move to a higher rank.
func (s TransactionStatus) rank() int {
	switch s {
	case TransactionStatusApproved:
		return 1
	case TransactionStatusCompleted:
		return 2
	default:
		return 0
	}
}

// Valid reports whether s is a known status
func (s TransactionStatus) Valid() bool {
	return s.rank() > 0
}

// IsTerminal reports whether no further transition is possible.
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusCompleted
}

// CanTransitionTo reports whether a record in status s may be overwritten with next.
// Re-applying the same status is allowed so upserts stay idempotent.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	if !next.Valid() {
		return false
	}
	if !s.Valid() {
		return true
	}
	return next.rank() >= s.rank()
}

// Scan implements sql.Scanner
func (s *TransactionStatus) Scan(src any) error {
	switch v := src.(type) {
	case string:
		*s = TransactionStatus(v)
	case []byte:
		*s = TransactionStatus(v)
	default:
		return fmt.Errorf("unsupported transaction status type %T", src)
	}
	if !s.Valid() {
		return fmt.Errorf("unknown transaction status %q", string(*s))
	}
	return nil
}

// Value implements driver.Valuer
func (s TransactionStatus) Value() (driver.Value, error) {
	return string(s), nil
}
