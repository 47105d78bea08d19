package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saulmartinx/wolk/internal/api/dto"
	"github.com/saulmartinx/wolk/internal/domain"
)

// PaymentHandler exposes the payment lifecycle callbacks used by the Pi SDK
type PaymentHandler struct {
	logger   *slog.Logger
	workflow Workflow
}

func NewPaymentHandler(deps *Dependencies) *PaymentHandler {
	return &PaymentHandler{
		logger:   deps.Logger,
		workflow: deps.Workflow,
	}
}

// ApprovePayment handles POST /api/payments/approve
func (h *PaymentHandler) ApprovePayment(c *gin.Context) {
	var req dto.ApprovePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.logger, "paymentId is required", err)
		return
	}
	c.Set(ContextKeyPaymentID, req.PaymentID)

	if _, err := h.workflow.ApprovePayment(c.Request.Context(), req.PaymentID); err != nil {
		respondError(c, h.logger, "Failed to approve payment", err)
		return
	}

	c.JSON(http.StatusOK, dto.ApprovePaymentResponse{
		Status:    "success",
		Message:   "Payment approved",
		PaymentID: req.PaymentID,
	})
}

// CompletePayment handles POST /api/payments/complete
func (h *PaymentHandler) CompletePayment(c *gin.Context) {
	var req dto.CompletePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.logger, "paymentId and txid are required", err)
		return
	}
	c.Set(ContextKeyPaymentID, req.PaymentID)

	tx, err := h.workflow.CompletePayment(c.Request.Context(), req.PaymentID, req.TxID)
	if err != nil {
		respondError(c, h.logger, "Failed to complete payment", err)
		return
	}

	resp := dto.CompletePaymentResponse{
		Status:  "success",
		Message: "Payment completed",
		TxID:    req.TxID,
	}
	if tx.Amount.Valid {
		amount := tx.Amount.Decimal.InexactFloat64()
		resp.Amount = &amount
	}

	c.JSON(http.StatusOK, resp)
}

// HandleIncomplete handles POST /api/payments/incomplete
// Always answers 200 so the payment network stops redelivering; failures are
// reported in the body and handed to the reconciliation worker.
func (h *PaymentHandler) HandleIncomplete(c *gin.Context) {
	ctx := c.Request.Context()

	raw, err := c.GetRawData()
	if err != nil {
		h.logger.Error("Failed to read incomplete payment payload",
			slog.Any("error", err),
		)
		c.JSON(http.StatusOK, dto.ReconcileResponse{
			Action:  domain.ReconcileActionError,
			Message: err.Error(),
		})
		return
	}

	result := h.workflow.ReconcileIncomplete(ctx, raw)
	c.Set(ContextKeyPaymentID, result.PaymentID)
	c.Set(ContextKeyReconcileAction, result.Action)

	if result.Action == domain.ReconcileActionError && result.PaymentID != "" {
		if err := h.workflow.DeferReconcile(ctx, raw); err != nil {
			h.logger.Warn("Failed to defer reconciliation",
				slog.String("payment_id", result.PaymentID),
				slog.Any("error", err),
			)
		}
	}

	c.JSON(http.StatusOK, dto.ReconcileResponse{
		Action:  result.Action,
		Message: result.Message,
	})
}
