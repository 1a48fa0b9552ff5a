package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/collabhub/collabhub-api/internal/constants"
	"github.com/collabhub/collabhub-api/internal/logger"
	"github.com/collabhub/collabhub-api/internal/models"
	"github.com/collabhub/collabhub-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound     = errors.New("User not found")
	ErrFirstNameMissing = errors.New("First name cannot be empty")
	ErrLastNameMissing  = errors.New("Last name cannot be empty")
)

// UserService handles profile reads and updates
type UserService struct {
	userRepo  repository.UserRepository
	skillRepo repository.SkillRepository
	storage   FileStorage
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, skillRepo repository.SkillRepository, storage FileStorage) *UserService {
	return &UserService{
		userRepo:  userRepo,
		skillRepo: skillRepo,
		storage:   storage,
	}
}

// UpdateProfileInput represents a partial profile update. Optional text
// fields set to "" are cleared.
type UpdateProfileInput struct {
	FirstName    *string
	LastName     *string
	Bio          *string
	LinkedinURL  *string
	GithubURL    *string
	SchoolName   *string
	CustomSkills *[]string
}

// GetUser returns a user with their skills
func (s *UserService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the non-nil fields of input
func (s *UserService) UpdateProfile(ctx context.Context, id uint64, input UpdateProfileInput) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		name := strings.TrimSpace(*input.FirstName)
		if name == "" {
			return nil, ErrFirstNameMissing
		}
		user.FirstName = name
	}
	if input.LastName != nil {
		name := strings.TrimSpace(*input.LastName)
		if name == "" {
			return nil, ErrLastNameMissing
		}
		user.LastName = name
	}
	if input.Bio != nil {
		user.Bio = optionalString(input.Bio)
	}
	if input.LinkedinURL != nil {
		user.LinkedinURL = optionalString(input.LinkedinURL)
	}
	if input.GithubURL != nil {
		user.GithubURL = optionalString(input.GithubURL)
	}
	if input.SchoolName != nil {
		user.SchoolName = optionalString(input.SchoolName)
	}
	if input.CustomSkills != nil {
		user.CustomSkills = normalizeCustomSkills(*input.CustomSkills)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// UpdateSkills replaces the user's catalog skills
func (s *UserService) UpdateSkills(ctx context.Context, id uint64, skillIDs []uint64) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	unique := uniqueIDs(skillIDs)
	skills, err := s.skillRepo.FindByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("failed to load skills: %w", err)
	}
	if len(skills) != len(unique) {
		return nil, ErrUnknownSkill
	}

	if err := s.userRepo.ReplaceSkills(ctx, user, skills); err != nil {
		return nil, fmt.Errorf("failed to update skills: %w", err)
	}
	return user, nil
}

// UpdateProfilePic stores a new picture and points the user at it. The
// previous file is removed once the user row is saved.
func (s *UserService) UpdateProfilePic(ctx context.Context, id uint64, file io.Reader) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.Store(ctx, constants.ProfilePicSubfolder, file)
	if err != nil {
		return nil, err
	}

	previous := user.ProfilePicURL
	user.ProfilePicURL = &url
	if err := s.userRepo.Update(ctx, user); err != nil {
		_ = s.storage.Remove(ctx, url)
		return nil, fmt.Errorf("failed to update profile picture: %w", err)
	}

	if previous != nil {
		if err := s.storage.Remove(ctx, *previous); err != nil {
			logger.Warn().Err(err).Uint64("user_id", id).Msg("failed to remove previous profile picture")
		}
	}
	return user, nil
}
