package models

import (
	"time"
)

// ProjectInterest is a user's bookmark on a project.
type ProjectInterest struct {
	UserID    uint64    `gorm:"primarykey" json:"userId"`
	ProjectID uint64    `gorm:"primarykey;index" json:"projectId"`
	CreatedAt time.Time `json:"createdAt"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
