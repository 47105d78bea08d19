package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saulmartinx/wolk/internal/api/dto"
	"github.com/saulmartinx/wolk/internal/workflow"
)

// SwipeHandler records accept/reject decisions on jobs
type SwipeHandler struct {
	logger   *slog.Logger
	workflow Workflow
}

func NewSwipeHandler(deps *Dependencies) *SwipeHandler {
	return &SwipeHandler{
		logger:   deps.Logger,
		workflow: deps.Workflow,
	}
}

// RecordSwipe handles POST /api/swipe
func (h *SwipeHandler) RecordSwipe(c *gin.Context) {
	var req dto.SwipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.logger, "Invalid request body", err)
		return
	}
	c.Set(ContextKeyJobID, req.JobID)
	c.Set(ContextKeyUserID, req.UserID)

	result, err := h.workflow.RecordSwipe(c.Request.Context(), workflow.SwipeInput{
		JobID:  req.JobID,
		UserID: req.UserID,
		Action: req.Action,
	})
	if err != nil {
		respondError(c, h.logger, "Failed to record swipe", err)
		return
	}

	c.JSON(http.StatusOK, dto.SwipeResponse{
		Message:         result.Message,
		Match:           result.Match,
		RequiresPayment: result.RequiresPayment,
	})
}
