package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/saulmartinx/wolk/internal/api/dto"
	"github.com/saulmartinx/wolk/internal/model"
)

// AuthHandler links Pi platform identities to local user records
type AuthHandler struct {
	logger *slog.Logger
	users  UserStore
	now    func() time.Time
}

func NewAuthHandler(deps *Dependencies) *AuthHandler {
	return &AuthHandler{
		logger: deps.Logger,
		users:  deps.Users,
		now:    time.Now,
	}
}

// PiAuth handles POST /api/pi/auth
// Upserts the linked user on every authentication
func (h *AuthHandler) PiAuth(c *gin.Context) {
	var req dto.PiAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.logger, "uid is required", err)
		return
	}
	c.Set(ContextKeyUserID, req.UID)

	user := &model.LinkedUser{
		UID:         req.UID,
		Username:    req.Username,
		AccessToken: req.AccessToken,
		LastSeenAt:  h.now().UTC(),
	}

	if err := h.users.UpsertUser(c.Request.Context(), user); err != nil {
		respondError(c, h.logger, "Failed to link user", err)
		return
	}

	h.logger.Info("Pi user authenticated",
		slog.String("uid", req.UID),
		slog.String("username", req.Username),
	)

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "User authenticated",
	})
}
