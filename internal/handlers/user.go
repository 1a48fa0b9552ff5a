package handlers

import (
	"errors"
	"net/http"

	"github.com/collabhub/collabhub-api/internal/constants"
	"github.com/collabhub/collabhub-api/internal/dto"
	apierrors "github.com/collabhub/collabhub-api/internal/errors"
	"github.com/collabhub/collabhub-api/internal/services"
	"github.com/gin-gonic/gin"
)

// multipart framing on top of the file itself
const uploadOverhead = 1 << 20

// UserHandler serves profiles.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GetUser returns a public profile
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "userId", "Invalid user ID")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		respondUserError(c, err)
		return
	}

	apierrors.Success(c, dto.ToUserDTO(*user))
}

// GetCurrentUser returns the authenticated user.
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondUserError(c, err)
		return
	}

	apierrors.Success(c, dto.ToUserDTO(*user))
}

// UpdateProfile applies a partial profile update
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	type UpdateProfileRequest struct {
		FirstName    *string   `json:"firstName" binding:"omitempty,max=100"`
		LastName     *string   `json:"lastName" binding:"omitempty,max=100"`
		Bio          *string   `json:"bio" binding:"omitempty,max=2000"`
		LinkedinURL  *string   `json:"linkedinUrl" binding:"omitempty,max=500"`
		GithubURL    *string   `json:"githubUrl" binding:"omitempty,max=500"`
		SchoolName   *string   `json:"schoolName" binding:"omitempty,max=200"`
		CustomSkills *[]string `json:"customSkills"`
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, services.UpdateProfileInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Bio:          req.Bio,
		LinkedinURL:  req.LinkedinURL,
		GithubURL:    req.GithubURL,
		SchoolName:   req.SchoolName,
		CustomSkills: req.CustomSkills,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	apierrors.SuccessMessage(c, dto.ToUserDTO(*user), "Profile updated")
}

// UpdateSkills replaces the caller's catalog skills
func (h *UserHandler) UpdateSkills(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	type UpdateSkillsRequest struct {
		SkillIDs []uint64 `json:"skillIds"`
	}

	var req UpdateSkillsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateSkills(c.Request.Context(), userID, req.SkillIDs)
	if err != nil {
		respondUserError(c, err)
		return
	}

	apierrors.SuccessMessage(c, dto.ToUserDTO(*user), "Skills updated")
}

// UpdateProfilePic uploads a new profile picture from the "file" form field
func (h *UserHandler) UpdateProfilePic(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, constants.MaxUploadSize+uploadOverhead)
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apierrors.BadRequest(c, services.ErrFileTooLarge.Error())
			return
		}
		apierrors.BadRequest(c, "A file is required")
		return
	}
	if header.Size > constants.MaxUploadSize {
		apierrors.BadRequest(c, services.ErrFileTooLarge.Error())
		return
	}

	file, err := header.Open()
	if err != nil {
		respondInternal(c, err)
		return
	}
	defer file.Close()

	user, err := h.userService.UpdateProfilePic(c.Request.Context(), userID, file)
	if err != nil {
		respondUserError(c, err)
		return
	}

	apierrors.SuccessMessage(c, dto.ToUserDTO(*user), "Profile picture updated")
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrFirstNameMissing),
		errors.Is(err, services.ErrLastNameMissing),
		errors.Is(err, services.ErrUnknownSkill),
		errors.Is(err, services.ErrEmptyFile),
		errors.Is(err, services.ErrFileTooLarge),
		errors.Is(err, services.ErrUnsupportedFileType):
		apierrors.BadRequest(c, err.Error())
	default:
		respondInternal(c, err)
	}
}
