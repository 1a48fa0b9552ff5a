package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/collabhub/collabhub-api/internal/logger"
	"github.com/collabhub/collabhub-api/internal/models"
	"github.com/collabhub/collabhub-api/internal/repository"
	"github.com/collabhub/collabhub-api/internal/telemetry"
	"github.com/collabhub/collabhub-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound = errors.New("Notification not found")
)

// Notifier records in-app notifications.
type Notifier interface {
	Notify(ctx context.Context, inputs ...NotifyInput) error
}

// NotifyInput describes one notification to record.
type NotifyInput struct {
	RecipientID   uint64
	Type          models.NotificationType
	Title         string
	Body          *string
	ReferenceID   *uint64
	ReferenceType string
}

// NotificationService stores notifications and serves the polling endpoints.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
	}
}

// Notify inserts the notifications in one statement.
func (s *NotificationService) Notify(ctx context.Context, inputs ...NotifyInput) error {
	notifications := make([]*models.Notification, 0, len(inputs))
	for _, in := range inputs {
		n := &models.Notification{
			RecipientID: in.RecipientID,
			Type:        in.Type,
			Title:       in.Title,
			Body:        in.Body,
			ReferenceID: in.ReferenceID,
		}
		if in.ReferenceType != "" {
			refType := in.ReferenceType
			n.ReferenceType = &refType
		}
		notifications = append(notifications, n)
	}

	if err := s.notificationRepo.Create(ctx, notifications...); err != nil {
		return fmt.Errorf("failed to create notifications: %w", err)
	}
	return nil
}

// ListNotifications returns a page of the user's notifications, newest first.
func (s *NotificationService) ListNotifications(ctx context.Context, userID uint64, page utils.PageParams) ([]models.Notification, int64, error) {
	notifications, total, err := s.notificationRepo.ListByRecipient(ctx, userID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, total, nil
}

// UnreadCount returns how many notifications the user has not read.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	count, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkAsRead marks one notification read. Another user's notification is
// reported as not found.
func (s *NotificationService) MarkAsRead(ctx context.Context, id, userID uint64) error {
	if err := s.notificationRepo.MarkAsRead(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	return nil
}

// MarkAllAsRead marks every notification of the user read.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uint64) error {
	if err := s.notificationRepo.MarkAllAsRead(ctx, userID); err != nil {
		return fmt.Errorf("failed to mark notifications as read: %w", err)
	}
	return nil
}

// notifyBestEffort runs after the triggering transaction has committed. A
// failure is logged and counted but never returned to the caller, and the
// insert survives the request being cancelled.
func notifyBestEffort(ctx context.Context, notifier Notifier, inputs ...NotifyInput) {
	if notifier == nil || len(inputs) == 0 {
		return
	}
	if err := notifier.Notify(context.WithoutCancel(ctx), inputs...); err != nil {
		for _, in := range inputs {
			telemetry.NotificationsFailed.WithLabelValues(string(in.Type)).Inc()
		}
		logger.Warn().
			Err(err).
			Str("type", string(inputs[0].Type)).
			Int("count", len(inputs)).
			Msg("failed to dispatch notification")
	}
}
