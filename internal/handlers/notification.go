package handlers

import (
	"errors"

	"github.com/collabhub/collabhub-api/internal/constants"
	"github.com/collabhub/collabhub-api/internal/dto"
	apierrors "github.com/collabhub/collabhub-api/internal/errors"
	"github.com/collabhub/collabhub-api/internal/services"
	"github.com/collabhub/collabhub-api/internal/utils"
	"github.com/gin-gonic/gin"
)

// NotificationHandler serves the caller's notifications.
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// ListNotifications returns a page of notifications, newest first
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	page := utils.GetPageParams(c, constants.DefaultNotificationPageSize)
	notifications, total, err := h.notificationService.ListNotifications(c.Request.Context(), userID, page)
	if err != nil {
		respondNotificationError(c, err)
		return
	}

	apierrors.Success(c, dto.NewPageDTO(dto.ToNotificationDTOs(notifications), page, total))
}

// UnreadCount returns the number of unread notifications
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	count, err := h.notificationService.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		respondNotificationError(c, err)
		return
	}

	apierrors.Success(c, dto.UnreadCountDTO{Count: count})
}

// MarkAsRead marks one notification read
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "Invalid notification ID")
	if !ok {
		return
	}

	if err := h.notificationService.MarkAsRead(c.Request.Context(), id, userID); err != nil {
		respondNotificationError(c, err)
		return
	}

	apierrors.SuccessMessage(c, nil, "Notification marked as read")
}

// MarkAllAsRead marks all of the caller's notifications read
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkAllAsRead(c.Request.Context(), userID); err != nil {
		respondNotificationError(c, err)
		return
	}

	apierrors.SuccessMessage(c, nil, "All notifications marked as read")
}

func respondNotificationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotificationNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		respondInternal(c, err)
	}
}
