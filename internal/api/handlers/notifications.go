package handlers

import (
	"net/http"
	"strconv"

	"pinsync/internal/logger"
	"pinsync/internal/notify"

	"github.com/gin-gonic/gin"
)

type NotificationsHandler struct {
	notifier *notify.Notifier
	logger   *logger.Logger
}

func NewNotificationsHandler(notifier *notify.Notifier, logger *logger.Logger) *NotificationsHandler {
	return &NotificationsHandler{notifier: notifier, logger: logger}
}

// List returns recent sync notifications, newest first.
func (h *NotificationsHandler) List(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	notifications, err := h.notifier.List(limit)
	if err != nil {
		h.logger.Error("Failed to list notifications: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}
