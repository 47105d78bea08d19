package dto

type SwipeRequest struct {
	JobID  string `json:"job_id"`
	UserID string `json:"user_id"`
	Action string `json:"action"`
}

type SwipeResponse struct {
	Message         string `json:"message"`
	Match           bool   `json:"match"`
	RequiresPayment bool   `json:"requires_payment"`
}
