package models

import "time"

type NotificationType string

const (
	NotificationJoinRequestReceived NotificationType = "JOIN_REQUEST_RECEIVED"
	NotificationJoinRequestApproved NotificationType = "JOIN_REQUEST_APPROVED"
	NotificationJoinRequestRejected NotificationType = "JOIN_REQUEST_REJECTED"
	NotificationMemberLeft          NotificationType = "MEMBER_LEFT"
	NotificationMemberRemoved       NotificationType = "MEMBER_REMOVED"
	NotificationProjectUpdated      NotificationType = "PROJECT_UPDATED"
)

type Notification struct {
	ID            uint64           `gorm:"primarykey" json:"id"`
	RecipientID   uint64           `gorm:"not null;index:idx_notifications_recipient_created" json:"recipientId"`
	Type          NotificationType `gorm:"type:varchar(40);not null" json:"type"`
	Title         string           `gorm:"type:varchar(255);not null" json:"title"`
	Body          *string          `gorm:"type:text" json:"body"`
	ReferenceID   *uint64          `json:"referenceId"`
	ReferenceType *string          `gorm:"type:varchar(50)" json:"referenceType"`
	IsRead        bool             `gorm:"not null;default:false" json:"isRead"`
	CreatedAt     time.Time        `gorm:"index:idx_notifications_recipient_created" json:"createdAt"`

	// Relations
	Recipient User `gorm:"foreignKey:RecipientID" json:"-"`
}
