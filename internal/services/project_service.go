package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/collabhub/collabhub-api/internal/constants"
	"github.com/collabhub/collabhub-api/internal/logger"
	"github.com/collabhub/collabhub-api/internal/models"
	"github.com/collabhub/collabhub-api/internal/repository"
	"github.com/collabhub/collabhub-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound        = errors.New("Project not found")
	ErrTitleRequired          = errors.New("Title is required")
	ErrDescriptionRequired    = errors.New("Description is required")
	ErrInvalidTeamSize        = errors.New("Max team size must be between 2 and 20")
	ErrTeamSizeBelowMembers   = errors.New("Max team size cannot be less than the current number of members")
	ErrInvalidProjectStatus   = errors.New("Invalid project status")
	ErrUnknownSkill           = errors.New("One or more skills do not exist")
	ErrTaskTitleRequired      = errors.New("Task title is required")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not suggest any tasks")
)

// ProjectService handles project business logic
type ProjectService struct {
	projectRepo repository.ProjectRepository
	memberRepo  repository.MembershipRepository
	skillRepo   repository.SkillRepository
	notifier    Notifier
	aiService   *AIService
}

// NewProjectService creates a new ProjectService
func NewProjectService(
	projectRepo repository.ProjectRepository,
	memberRepo repository.MembershipRepository,
	skillRepo repository.SkillRepository,
	notifier Notifier,
	aiService *AIService,
) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		memberRepo:  memberRepo,
		skillRepo:   skillRepo,
		notifier:    notifier,
		aiService:   aiService,
	}
}

// TaskInput is one open role on a project
type TaskInput struct {
	Title       string
	Description string
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Title        string
	Description  string
	MaxTeamSize  int
	GithubURL    *string
	SkillIDs     []uint64
	CustomSkills []string
	Tasks        []TaskInput
}

// UpdateProjectInput represents a partial project update. A nil field is
// left unchanged; a non-nil slice replaces the relation.
type UpdateProjectInput struct {
	Title        *string
	Description  *string
	MaxTeamSize  *int
	GithubURL    *string
	Status       *string
	SkillIDs     *[]uint64
	CustomSkills *[]string
	Tasks        *[]TaskInput
}

// ListProjectsInput represents filters for browsing projects
type ListProjectsInput struct {
	Query    string
	SkillIDs []uint64
	Status   string
	School   string
	Page     utils.PageParams
}

// CreateProject creates a project with the owner as its first member
func (s *ProjectService) CreateProject(ctx context.Context, ownerID uint64, input CreateProjectInput) (*models.Project, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}
	if !validTeamSize(input.MaxTeamSize) {
		return nil, ErrInvalidTeamSize
	}

	skills, err := s.resolveSkills(ctx, input.SkillIDs)
	if err != nil {
		return nil, err
	}
	tasks, err := buildTasks(input.Tasks)
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		OwnerID:      ownerID,
		Title:        title,
		Description:  description,
		MaxTeamSize:  input.MaxTeamSize,
		GithubURL:    optionalString(input.GithubURL),
		Status:       models.ProjectStatusRecruiting,
		Visibility:   models.VisibilityPublic,
		CustomSkills: normalizeCustomSkills(input.CustomSkills),
		Skills:       skills,
		Tasks:        tasks,
	}
	owner := &models.ProjectMember{
		Role:     models.RoleOwner,
		JoinedAt: time.Now(),
	}

	if err := s.projectRepo.CreateWithOwner(ctx, project, owner); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.GetProject(ctx, project.ID)
}

// ListProjects returns a page of public projects, newest first
func (s *ProjectService) ListProjects(ctx context.Context, input ListProjectsInput) ([]models.Project, int64, error) {
	filter := repository.ProjectFilter{
		Query:    input.Query,
		SkillIDs: input.SkillIDs,
		School:   input.School,
		Page:     input.Page,
	}
	if input.Status != "" {
		status := models.ProjectStatus(strings.ToUpper(input.Status))
		if !status.Valid() {
			return nil, 0, ErrInvalidProjectStatus
		}
		filter.Status = &status
	}

	projects, total, err := s.projectRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// GetProject returns a project with owner, skills, tasks and members
func (s *ProjectService) GetProject(ctx context.Context, id uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, id, repository.ProjectDetailPreloads...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// UpdateProject applies a partial update and tells the other members
func (s *ProjectService) UpdateProject(ctx context.Context, id, actorID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.requireOwner(ctx, id, actorID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		project.Title = title
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return nil, ErrDescriptionRequired
		}
		project.Description = description
	}
	if input.MaxTeamSize != nil {
		if !validTeamSize(*input.MaxTeamSize) {
			return nil, ErrInvalidTeamSize
		}
		count, err := s.memberRepo.CountMembers(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to count members: %w", err)
		}
		if int64(*input.MaxTeamSize) < count {
			return nil, ErrTeamSizeBelowMembers
		}
		project.MaxTeamSize = *input.MaxTeamSize
	}
	if input.GithubURL != nil {
		project.GithubURL = optionalString(input.GithubURL)
	}
	if input.Status != nil {
		status := models.ProjectStatus(strings.ToUpper(strings.TrimSpace(*input.Status)))
		if !status.Valid() {
			return nil, ErrInvalidProjectStatus
		}
		project.Status = status
	}
	if input.CustomSkills != nil {
		project.CustomSkills = normalizeCustomSkills(*input.CustomSkills)
	}

	var rel repository.ProjectRelations
	if input.SkillIDs != nil {
		skills, err := s.resolveSkills(ctx, *input.SkillIDs)
		if err != nil {
			return nil, err
		}
		rel.ReplaceSkills = true
		rel.Skills = skills
	}
	if input.Tasks != nil {
		tasks, err := buildTasks(*input.Tasks)
		if err != nil {
			return nil, err
		}
		rel.ReplaceTasks = true
		rel.Tasks = tasks
	}

	if err := s.projectRepo.Update(ctx, project, rel); err != nil {
		if errors.Is(err, repository.ErrTeamSizeBelowMembers) {
			return nil, ErrTeamSizeBelowMembers
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	s.notifyMembersOfUpdate(ctx, project)

	return s.GetProject(ctx, id)
}

// DeleteProject deletes a project and everything attached to it
func (s *ProjectService) DeleteProject(ctx context.Context, id, actorID uint64) error {
	if _, err := s.requireOwner(ctx, id, actorID); err != nil {
		return err
	}

	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// ListOwnedProjects lists the projects the user owns
func (s *ProjectService) ListOwnedProjects(ctx context.Context, userID uint64) ([]models.Project, error) {
	projects, err := s.projectRepo.ListOwned(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned projects: %w", err)
	}
	return projects, nil
}

// ListJoinedProjects lists projects the user joined but does not own
func (s *ProjectService) ListJoinedProjects(ctx context.Context, userID uint64) ([]models.Project, error) {
	projects, err := s.projectRepo.ListJoined(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list joined projects: %w", err)
	}
	return projects, nil
}

// ListInterestedProjects lists the user's bookmarks
func (s *ProjectService) ListInterestedProjects(ctx context.Context, userID uint64) ([]models.Project, error) {
	projects, err := s.projectRepo.ListInterested(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarked projects: %w", err)
	}
	return projects, nil
}

// SuggestTasksInput represents a project draft to plan tasks for
type SuggestTasksInput struct {
	Title       string
	Description string
}

// SuggestTasks uses AI to propose tasks for a project draft
func (s *ProjectService) SuggestTasks(ctx context.Context, input SuggestTasksInput) ([]SuggestedTask, error) {
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	suggested, err := s.aiService.SuggestTasksFromProject(ctx, title, strings.TrimSpace(input.Description))
	if err != nil {
		return nil, fmt.Errorf("failed to suggest tasks: %w", err)
	}

	valid := make([]SuggestedTask, 0, len(suggested))
	for _, t := range suggested {
		t.Title = strings.TrimSpace(t.Title)
		if t.Title == "" {
			continue
		}
		t.Description = strings.TrimSpace(t.Description)
		valid = append(valid, t)
		if len(valid) == constants.MaxSuggestedTasks {
			break
		}
	}
	if len(valid) == 0 {
		return nil, ErrAINoTasksGenerated
	}

	return valid, nil
}

func (s *ProjectService) requireOwner(ctx context.Context, id, actorID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if project.OwnerID != actorID {
		return nil, ErrNotProjectOwner
	}
	return project, nil
}

func (s *ProjectService) resolveSkills(ctx context.Context, ids []uint64) ([]models.Skill, error) {
	unique := uniqueIDs(ids)
	if len(unique) == 0 {
		return []models.Skill{}, nil
	}

	skills, err := s.skillRepo.FindByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("failed to load skills: %w", err)
	}
	if len(skills) != len(unique) {
		return nil, ErrUnknownSkill
	}
	return skills, nil
}

func (s *ProjectService) notifyMembersOfUpdate(ctx context.Context, project *models.Project) {
	members, err := s.memberRepo.ListMembers(ctx, project.ID)
	if err != nil {
		logger.Warn().Err(err).Uint64("project_id", project.ID).Msg("failed to list members for update notification")
		return
	}

	inputs := make([]NotifyInput, 0, len(members))
	for _, m := range members {
		if m.UserID == project.OwnerID {
			continue
		}
		inputs = append(inputs, NotifyInput{
			RecipientID:   m.UserID,
			Type:          models.NotificationProjectUpdated,
			Title:         fmt.Sprintf("%s was updated", project.Title),
			ReferenceID:   &project.ID,
			ReferenceType: constants.ReferenceTypeProject,
		})
	}
	notifyBestEffort(ctx, s.notifier, inputs...)
}

func buildTasks(inputs []TaskInput) ([]models.ProjectTask, error) {
	tasks := make([]models.ProjectTask, 0, len(inputs))
	for _, in := range inputs {
		title := strings.TrimSpace(in.Title)
		if title == "" {
			return nil, ErrTaskTitleRequired
		}
		tasks = append(tasks, models.ProjectTask{
			Title:       title,
			Description: strings.TrimSpace(in.Description),
		})
	}
	return tasks, nil
}

func validTeamSize(size int) bool {
	return size >= constants.MinTeamSize && size <= constants.MaxTeamSize
}
