package dto

import (
	"time"

	"github.com/collabhub/collabhub-api/internal/models"
)

// NotificationDTO represents a notification in API responses
type NotificationDTO struct {
	ID            uint64                  `json:"id"`
	Type          models.NotificationType `json:"type"`
	Title         string                  `json:"title"`
	Body          *string                 `json:"body"`
	ReferenceID   *uint64                 `json:"referenceId"`
	ReferenceType *string                 `json:"referenceType"`
	IsRead        bool                    `json:"isRead"`
	CreatedAt     time.Time               `json:"createdAt"`
}

// UnreadCountDTO wraps the unread notification count
type UnreadCountDTO struct {
	Count int64 `json:"count"`
}

// ToNotificationDTOs converts notifications to DTOs
func ToNotificationDTOs(notifications []models.Notification) []NotificationDTO {
	out := make([]NotificationDTO, len(notifications))
	for i, n := range notifications {
		out[i] = NotificationDTO{
			ID:            n.ID,
			Type:          n.Type,
			Title:         n.Title,
			Body:          n.Body,
			ReferenceID:   n.ReferenceID,
			ReferenceType: n.ReferenceType,
			IsRead:        n.IsRead,
			CreatedAt:     n.CreatedAt,
		}
	}
	return out
}
