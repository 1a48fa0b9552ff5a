package repository

import (
	"context"

	"github.com/collabhub/collabhub-api/internal/database"
	"github.com/collabhub/collabhub-api/internal/models"
	"github.com/collabhub/collabhub-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormNotificationRepository is a GORM implementation of NotificationRepository
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create inserts one or more notifications
func (r *GormNotificationRepository) Create(ctx context.Context, notifications ...*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(notifications).Error
}

// ListByRecipient lists a user's notifications, newest first
func (r *GormNotificationRepository) ListByRecipient(ctx context.Context, userID uint64, page utils.PageParams) ([]models.Notification, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Notification{}).Where("recipient_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	if err := query.
		Order("created_at DESC").
		Order("id DESC").
		Scopes(database.Paginate(page)).
		Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

// CountUnread counts the user's unread notifications
func (r *GormNotificationRepository) CountUnread(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkAsRead marks one of the user's notifications read
func (r *GormNotificationRepository) MarkAsRead(ctx context.Context, id, userID uint64) error {
	var notification models.Notification
	if err := r.db.WithContext(ctx).
		Where("id = ? AND recipient_id = ?", id, userID).
		First(&notification).Error; err != nil {
		return err
	}
	if notification.IsRead {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&notification).
		Update("is_read", true).Error
}

// MarkAllAsRead marks every unread notification of the user read
func (r *GormNotificationRepository) MarkAllAsRead(ctx context.Context, userID uint64) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}
