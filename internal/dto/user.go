package dto

import (
	"time"

	"github.com/collabhub/collabhub-api/internal/models"
)

// SkillDTO represents a catalog skill in API responses
type SkillDTO struct {
	ID       uint64               `json:"id"`
	Name     string               `json:"name"`
	Category models.SkillCategory `json:"category"`
}

// UserDTO represents a user profile in API responses
type UserDTO struct {
	ID            uint64     `json:"id"`
	Email         string     `json:"email"`
	FirstName     string     `json:"firstName"`
	LastName      string     `json:"lastName"`
	Bio           *string    `json:"bio"`
	ProfilePicURL *string    `json:"profilePicUrl"`
	LinkedinURL   *string    `json:"linkedinUrl"`
	GithubURL     *string    `json:"githubUrl"`
	SchoolName    *string    `json:"schoolName"`
	Skills        []SkillDTO `json:"skills"`
	CustomSkills  []string   `json:"customSkills"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// ToSkillDTO converts a skill to DTO
func ToSkillDTO(skill models.Skill) SkillDTO {
	return SkillDTO{
		ID:       skill.ID,
		Name:     skill.Name,
		Category: skill.Category,
	}
}

// ToSkillDTOs converts skills to DTOs; never returns nil
func ToSkillDTOs(skills []models.Skill) []SkillDTO {
	out := make([]SkillDTO, len(skills))
	for i, s := range skills {
		out[i] = ToSkillDTO(s)
	}
	return out
}

// ToGroupedSkillDTOs converts a category map to DTOs
func ToGroupedSkillDTOs(grouped map[models.SkillCategory][]models.Skill) map[models.SkillCategory][]SkillDTO {
	out := make(map[models.SkillCategory][]SkillDTO, len(grouped))
	for category, skills := range grouped {
		out[category] = ToSkillDTOs(skills)
	}
	return out
}

// ToUserDTO converts a user to DTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:            user.ID,
		Email:         user.Email,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Bio:           user.Bio,
		ProfilePicURL: user.ProfilePicURL,
		LinkedinURL:   user.LinkedinURL,
		GithubURL:     user.GithubURL,
		SchoolName:    user.SchoolName,
		Skills:        ToSkillDTOs(user.Skills),
		CustomSkills:  nonNilStrings(user.CustomSkills),
		CreatedAt:     user.CreatedAt,
	}
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
