package dto

type ApprovePaymentRequest struct {
	PaymentID string `json:"paymentId" binding:"required"`
}

type ApprovePaymentResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	PaymentID string `json:"paymentId"`
}

type CompletePaymentRequest struct {
	PaymentID string `json:"paymentId" binding:"required"`
	TxID      string `json:"txid" binding:"required"`
}

type CompletePaymentResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	TxID    string   `json:"txid"`
	Amount  *float64 `json:"amount"`
}

type ReconcileResponse struct {
	Action  string `json:"action"`
	Message string `json:"message"`
}
