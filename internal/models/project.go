package models

import (
	"time"
)

type ProjectStatus string

const (
	ProjectStatusRecruiting ProjectStatus = "RECRUITING"
	ProjectStatusInProgress ProjectStatus = "IN_PROGRESS"
	ProjectStatusCompleted  ProjectStatus = "COMPLETED"
	ProjectStatusArchived   ProjectStatus = "ARCHIVED"
)

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusRecruiting, ProjectStatusInProgress, ProjectStatusCompleted, ProjectStatusArchived:
		return true
	}
	return false
}

type ProjectVisibility string

const (
	VisibilityPublic   ProjectVisibility = "PUBLIC"
	VisibilityUnlisted ProjectVisibility = "UNLISTED"
)

type Project struct {
	ID           uint64            `gorm:"primarykey" json:"id"`
	OwnerID      uint64            `gorm:"not null;index" json:"ownerId"`
	Title        string            `gorm:"type:varchar(200);not null" json:"title"`
	Description  string            `gorm:"type:text;not null" json:"description"`
	MaxTeamSize  int               `gorm:"not null" json:"maxTeamSize"`
	GithubURL    *string           `gorm:"type:varchar(500)" json:"githubUrl"`
	Status       ProjectStatus     `gorm:"type:varchar(20);not null;default:'RECRUITING';index" json:"status"`
	Visibility   ProjectVisibility `gorm:"type:varchar(20);not null;default:'PUBLIC'" json:"visibility"`
	CustomSkills []string          `gorm:"type:text;serializer:json" json:"customSkills"`
	CreatedAt    time.Time         `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`

	// Relations
	Owner   User            `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Skills  []Skill         `gorm:"many2many:project_skills" json:"skills,omitempty"`
	Tasks   []ProjectTask   `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
	Members []ProjectMember `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
}
