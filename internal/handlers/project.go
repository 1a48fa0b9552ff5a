package handlers

import (
	"errors"

	"github.com/collabhub/collabhub-api/internal/constants"
	"github.com/collabhub/collabhub-api/internal/dto"
	apierrors "github.com/collabhub/collabhub-api/internal/errors"
	"github.com/collabhub/collabhub-api/internal/services"
	"github.com/collabhub/collabhub-api/internal/utils"
	"github.com/gin-gonic/gin"
)

// ProjectHandler serves project CRUD and listings.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

type taskRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"max=2000"`
}

func toTaskInputs(tasks []taskRequest) []services.TaskInput {
	inputs := make([]services.TaskInput, len(tasks))
	for i, t := range tasks {
		inputs[i] = services.TaskInput{Title: t.Title, Description: t.Description}
	}
	return inputs
}

// ListProjects browses public projects
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	skillIDs, ok := parseIDList(c.QueryArray("skillIds"))
	if !ok {
		apierrors.BadRequest(c, "Invalid skillIds parameter")
		return
	}

	page := utils.GetPageParams(c, constants.DefaultProjectPageSize)
	projects, total, err := h.projectService.ListProjects(c.Request.Context(), services.ListProjectsInput{
		Query:    c.Query("q"),
		SkillIDs: skillIDs,
		Status:   c.Query("status"),
		School:   c.Query("school"),
		Page:     page,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	apierrors.Success(c, dto.NewPageDTO(dto.ToProjectDTOs(projects), page, total))
}

// GetProject returns one project with its details
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, ok := requireProjectID(c)
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(c.Request.Context(), projectID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	apierrors.Success(c, dto.ToProjectDTO(*project))
}

// CreateProject creates a project owned by the caller
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	type CreateProjectRequest struct {
		Title        string        `json:"title" binding:"required,max=200"`
		Description  string        `json:"description" binding:"required,max=5000"`
		MaxTeamSize  int           `json:"maxTeamSize" binding:"required"`
		GithubURL    *string       `json:"githubUrl" binding:"omitempty,max=500"`
		SkillIDs     []uint64      `json:"skillIds"`
		CustomSkills []string      `json:"customSkills" binding:"omitempty,dive,max=100"`
		Tasks        []taskRequest `json:"tasks" binding:"omitempty,dive"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), userID, services.CreateProjectInput{
		Title:        req.Title,
		Description:  req.Description,
		MaxTeamSize:  req.MaxTeamSize,
		GithubURL:    req.GithubURL,
		SkillIDs:     req.SkillIDs,
		CustomSkills: req.CustomSkills,
		Tasks:        toTaskInputs(req.Tasks),
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	apierrors.Created(c, dto.ToProjectDTO(*project), "Project created")
}

// UpdateProject applies a partial update (owner only)
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	projectID, ok := requireProjectID(c)
	if !ok {
		return
	}

	type UpdateProjectRequest struct {
		Title        *string        `json:"title" binding:"omitempty,max=200"`
		Description  *string        `json:"description" binding:"omitempty,max=5000"`
		MaxTeamSize  *int           `json:"maxTeamSize"`
		GithubURL    *string        `json:"githubUrl" binding:"omitempty,max=500"`
		Status       *string        `json:"status"`
		SkillIDs     *[]uint64      `json:"skillIds"`
		CustomSkills *[]string      `json:"customSkills"`
		Tasks        *[]taskRequest `json:"tasks"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateProjectInput{
		Title:        req.Title,
		Description:  req.Description,
		MaxTeamSize:  req.MaxTeamSize,
		GithubURL:    req.GithubURL,
		Status:       req.Status,
		SkillIDs:     req.SkillIDs,
		CustomSkills: req.CustomSkills,
	}
	if req.Tasks != nil {
		tasks := toTaskInputs(*req.Tasks)
		input.Tasks = &tasks
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), projectID, userID, input)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	apierrors.SuccessMessage(c, dto.ToProjectDTO(*project), "Project updated")
}

// DeleteProject deletes a project (owner only)
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	projectID, ok := requireProjectID(c)
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), projectID, userID); err != nil {
		respondProjectError(c, err)
		return
	}

	apierrors.SuccessMessage(c, nil, "Project deleted")
}

// ListOwnedProjects lists the caller's projects
func (h *ProjectHandler) ListOwnedProjects(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	projects, err := h.projectService.ListOwnedProjects(c.Request.Context(), userID)
	if err != nil {
		respondProjectError(c, err)
		return
	}
	apierrors.Success(c, dto.ToProjectDTOs(projects))
}

// ListJoinedProjects lists projects the caller joined
func (h *ProjectHandler) ListJoinedProjects(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	projects, err := h.projectService.ListJoinedProjects(c.Request.Context(), userID)
	if err != nil {
		respondProjectError(c, err)
		return
	}
	apierrors.Success(c, dto.ToProjectDTOs(projects))
}

// ListInterestedProjects lists the caller's bookmarks
func (h *ProjectHandler) ListInterestedProjects(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	projects, err := h.projectService.ListInterestedProjects(c.Request.Context(), userID)
	if err != nil {
		respondProjectError(c, err)
		return
	}
	apierrors.Success(c, dto.ToProjectDTOs(projects))
}

// SuggestTasks proposes tasks for a project draft
func (h *ProjectHandler) SuggestTasks(c *gin.Context) {
	type SuggestTasksRequest struct {
		Title       string `json:"title" binding:"required,max=200"`
		Description string `json:"description" binding:"max=5000"`
	}

	var req SuggestTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	suggested, err := h.projectService.SuggestTasks(c.Request.Context(), services.SuggestTasksInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	out := make([]dto.SuggestedTaskDTO, len(suggested))
	for i, t := range suggested {
		out[i] = dto.SuggestedTaskDTO{Title: t.Title, Description: t.Description}
	}
	apierrors.Success(c, out)
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotProjectOwner):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrDescriptionRequired),
		errors.Is(err, services.ErrInvalidTeamSize),
		errors.Is(err, services.ErrInvalidProjectStatus),
		errors.Is(err, services.ErrUnknownSkill),
		errors.Is(err, services.ErrTaskTitleRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTeamSizeBelowMembers):
		apierrors.InvalidOperation(c, err.Error())
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, err.Error())
	case errors.Is(err, services.ErrAINoTasksGenerated):
		apierrors.InvalidOperation(c, err.Error())
	default:
		respondInternal(c, err)
	}
}
