package models

import "time"

const (
	RoleOwner  = "Owner"
	RoleMember = "Member"
)

type ProjectMember struct {
	ProjectID uint64    `gorm:"primarykey" json:"projectId"`
	UserID    uint64    `gorm:"primarykey;index" json:"userId"`
	Role      string    `gorm:"type:varchar(50);not null;default:'Member'" json:"role"`
	JoinedAt  time.Time `json:"joinedAt"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
