package http

import (
	"net/http"

	"postboard/internal/usecase"
	"postboard/pkg/logger"
	"postboard/pkg/middleware"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationUseCase usecase.NotificationUseCase
	logger              *logger.Logger
}

func NewNotificationHandler(notificationUseCase usecase.NotificationUseCase, logger *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
		logger:              logger,
	}
}

// ListNotifications godoc
// @Summary      Recent notifications
// @Description  Likes and comments on the current user's posts, newest first.
// @Tags         notifications
// @Produce      json
// @Security     SessionCookie
// @Success      200  {array}   entity.Notification
// @Failure      401  {object}  map[string]string
// @Router       /notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	notifications, err := h.notificationUseCase.List(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, notifications)
}
