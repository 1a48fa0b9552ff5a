package dto

import (
	"time"

	"github.com/collabhub/collabhub-api/internal/models"
)

// ProjectTaskDTO represents an open role on a project
type ProjectTaskDTO struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsFilled    bool   `json:"isFilled"`
}

// ProjectMemberDTO represents a member with a user summary
type ProjectMemberDTO struct {
	UserID        uint64    `json:"userId"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	ProfilePicURL *string   `json:"profilePicUrl"`
	Role          string    `json:"role"`
	JoinedAt      time.Time `json:"joinedAt"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID             uint64                   `json:"id"`
	OwnerID        uint64                   `json:"ownerId"`
	OwnerFirstName string                   `json:"ownerFirstName"`
	OwnerLastName  string                   `json:"ownerLastName"`
	Title          string                   `json:"title"`
	Description    string                   `json:"description"`
	MaxTeamSize    int                      `json:"maxTeamSize"`
	GithubURL      *string                  `json:"githubUrl"`
	Status         models.ProjectStatus     `json:"status"`
	Visibility     models.ProjectVisibility `json:"visibility"`
	Skills         []SkillDTO               `json:"skills"`
	CustomSkills   []string                 `json:"customSkills"`
	Tasks          []ProjectTaskDTO         `json:"tasks"`
	Members        []ProjectMemberDTO       `json:"members"`
	CreatedAt      time.Time                `json:"createdAt"`
	UpdatedAt      time.Time                `json:"updatedAt"`
}

// SuggestedTaskDTO is an AI task suggestion
type SuggestedTaskDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ToProjectMemberDTO converts a member to DTO
func ToProjectMemberDTO(member models.ProjectMember) ProjectMemberDTO {
	return ProjectMemberDTO{
		UserID:        member.UserID,
		FirstName:     member.User.FirstName,
		LastName:      member.User.LastName,
		ProfilePicURL: member.User.ProfilePicURL,
		Role:          member.Role,
		JoinedAt:      member.JoinedAt,
	}
}

// ToProjectMemberDTOs converts members to DTOs
func ToProjectMemberDTOs(members []models.ProjectMember) []ProjectMemberDTO {
	out := make([]ProjectMemberDTO, len(members))
	for i, m := range members {
		out[i] = ToProjectMemberDTO(m)
	}
	return out
}

// ToProjectDTO converts a project to DTO. Relations that were not loaded
// come out as empty arrays.
func ToProjectDTO(project models.Project) ProjectDTO {
	tasks := make([]ProjectTaskDTO, len(project.Tasks))
	for i, t := range project.Tasks {
		tasks[i] = ProjectTaskDTO{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			IsFilled:    t.IsFilled,
		}
	}

	return ProjectDTO{
		ID:             project.ID,
		OwnerID:        project.OwnerID,
		OwnerFirstName: project.Owner.FirstName,
		OwnerLastName:  project.Owner.LastName,
		Title:          project.Title,
		Description:    project.Description,
		MaxTeamSize:    project.MaxTeamSize,
		GithubURL:      project.GithubURL,
		Status:         project.Status,
		Visibility:     project.Visibility,
		Skills:         ToSkillDTOs(project.Skills),
		CustomSkills:   nonNilStrings(project.CustomSkills),
		Tasks:          tasks,
		Members:        ToProjectMemberDTOs(project.Members),
		CreatedAt:      project.CreatedAt,
		UpdatedAt:      project.UpdatedAt,
	}
}

// ToProjectDTOs converts projects to DTOs
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	out := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		out[i] = ToProjectDTO(p)
	}
	return out
}
