package domain

// Swipe actions
const (
	SwipeActionAccept = "accept"
	SwipeActionReject = "reject"
)

// Reconciliation actions reported back to the payment network
const (
	ReconcileActionIgnore    = "ignore"
	ReconcileActionCompleted = "completed"
	ReconcileActionProcessed = "processed"
	ReconcileActionError     = "error"
)

// IncompleteStatusPending is the payload status that allows completing a payment out of band.
const IncompleteStatusPending = "pending"

// Event routing keys
const (
	RoutingKeySwipeRecorded     = "swipe.recorded"
	RoutingKeyPaymentApproved   = "payment.approved"
	RoutingKeyPaymentCompleted  = "payment.completed"
	RoutingKeyPaymentIncomplete = "payment.incomplete"
)
