package models

import (
	"time"
)

type User struct {
	ID            uint64    `gorm:"primarykey" json:"id"`
	Email         string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash  string    `gorm:"type:varchar(255);not null" json:"-"`
	FirstName     string    `gorm:"type:varchar(100);not null" json:"firstName"`
	LastName      string    `gorm:"type:varchar(100);not null" json:"lastName"`
	Bio           *string   `gorm:"type:text" json:"bio"`
	ProfilePicURL *string   `gorm:"type:varchar(500)" json:"profilePicUrl"`
	LinkedinURL   *string   `gorm:"type:varchar(500)" json:"linkedinUrl"`
	GithubURL     *string   `gorm:"type:varchar(500)" json:"githubUrl"`
	SchoolName    *string   `gorm:"type:varchar(200)" json:"schoolName"`
	CustomSkills  []string  `gorm:"type:text;serializer:json" json:"customSkills"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	// Relations
	Skills        []Skill         `gorm:"many2many:user_skills" json:"skills,omitempty"`
	OwnedProjects []Project       `gorm:"foreignKey:OwnerID" json:"-"`
	Memberships   []ProjectMember `gorm:"foreignKey:UserID" json:"-"`
}

// FullName joins first and last name with a space.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
