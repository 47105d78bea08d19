package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saulmartinx/wolk/internal/domain"
)

// statusFor maps workflow and storage errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrPaymentApprovalRejected),
		errors.Is(err, domain.ErrPaymentVerificationFailed):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrGatewayUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func detailFor(err error) string {
	if errors.Is(err, domain.ErrJobNotFound) {
		return "Job not found"
	}
	return err.Error()
}

func respondError(c *gin.Context, logger *slog.Logger, msg string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error(msg,
			slog.String("path", c.Request.URL.Path),
			slog.Any("error", err),
		)
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{
		"detail": detailFor(err),
	})
}

func respondBadRequest(c *gin.Context, logger *slog.Logger, detail string, err error) {
	logger.Warn("Invalid request",
		slog.String("path", c.Request.URL.Path),
		slog.String("error", err.Error()),
	)
	c.JSON(http.StatusBadRequest, gin.H{
		"detail": detail,
	})
}
