package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saulmartinx/wolk/internal/api/dto"
	"github.com/saulmartinx/wolk/internal/storage"
)

const (
	defaultTransactionsLimit = 20
	maxTransactionsLimit     = 100
)

type TransactionHandler struct {
	logger       *slog.Logger
	transactions TransactionStore
}

func NewTransactionHandler(deps *Dependencies) *TransactionHandler {
	return &TransactionHandler{
		logger:       deps.Logger,
		transactions: deps.Transactions,
	}
}

// ListTransactions handles GET /api/transactions
// Newest first, with keyset pagination through next_cursor
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	var req dto.ListTransactionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, h.logger, "Invalid query parameters", err)
		return
	}

	if req.Limit <= 0 {
		req.Limit = defaultTransactionsLimit
	}

	if req.Limit > maxTransactionsLimit {
		req.Limit = maxTransactionsLimit
	}

	cursor, err := DecodeTransactionCursor(req.Cursor)
	if err != nil {
		respondBadRequest(c, h.logger, "Invalid cursor", err)
		return
	}

	txs, err := h.transactions.ListTransactions(c.Request.Context(), storage.TransactionFilter{
		Limit:  req.Limit,
		Cursor: cursor,
	})
	if err != nil {
		respondError(c, h.logger, "Failed to list transactions", err)
		return
	}

	hasMore := len(txs) > req.Limit
	if hasMore {
		txs = txs[:req.Limit]
	}

	resp := dto.ListTransactionsResponse{
		Transactions: make([]dto.TransactionDTO, len(txs)),
	}
	for i := range txs {
		resp.Transactions[i] = dto.NewTransactionDTO(&txs[i])
	}

	if hasMore {
		last := txs[len(txs)-1]
		resp.NextCursor = EncodeTransactionCursor(&storage.TransactionCursor{
			CreatedAt: last.CreatedAt,
			PaymentID: last.PaymentID,
		})
	}

	c.JSON(http.StatusOK, resp)
}
