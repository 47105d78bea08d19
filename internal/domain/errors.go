package domain

import "errors"

var (
	// ErrJobNotFound is returned when a job cannot be found in the store
	ErrJobNotFound = errors.New("job not found")

	// ErrTransactionNotFound is returned when no local record exists for a payment id
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrStorage wraps any persistence failure
	ErrStorage = errors.New("storage error")

	// ErrPaymentApprovalRejected is returned when the payment network declines an approval
	ErrPaymentApprovalRejected = errors.New("payment approval rejected")

	// ErrPaymentVerificationFailed is returned when the payment network returns no payment details
	ErrPaymentVerificationFailed = errors.New("payment verification failed")

	// ErrGatewayUnavailable is returned on network or transport failures talking to the payment network
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrInvalidPayload is returned when a reconciliation payload cannot be decoded
	ErrInvalidPayload = errors.New("invalid payment payload")
)
