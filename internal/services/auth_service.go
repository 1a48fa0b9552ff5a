package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/collabhub/collabhub-api/internal/models"
	"github.com/collabhub/collabhub-api/internal/repository"
	"github.com/collabhub/collabhub-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("An account with this email already exists")
	ErrInvalidCredentials   = errors.New("Invalid email or password")
	ErrWeakPassword         = errors.New("Password must be at least 8 characters and contain an uppercase letter, a lowercase letter and a digit")
	ErrEmailRequired        = errors.New("Email is required")
	ErrRefreshTokenRequired = errors.New("Refresh token is required")
	ErrInvalidRefreshToken  = errors.New("Invalid or expired refresh token")
	ErrRefreshTokenExpired  = errors.New("Refresh token has expired")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToIssueTokens  = errors.New("failed to issue tokens")
)

// AuthService handles registration, login and the refresh token lifecycle.
type AuthService struct {
	userRepo   repository.UserRepository
	tokenRepo  repository.RefreshTokenRepository
	tokens     *utils.TokenManager
	refreshTTL time.Duration
	now        func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.RefreshTokenRepository,
	tokens *utils.TokenManager,
	refreshTTL time.Duration,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		tokens:     tokens,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email     string
	Password  string
	ClientIP  string
	UserAgent string
}

// RefreshInput carries the presented refresh token and client details.
type RefreshInput struct {
	Token     string
	ClientIP  string
	UserAgent string
}

// AuthResult is what a successful login or refresh hands back.
type AuthResult struct {
	AccessToken      string
	ExpiresIn        int64
	RefreshToken     string
	RefreshExpiresAt time.Time
	User             *models.User
}

// Register creates a new user.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	firstName := strings.TrimSpace(input.FirstName)
	if firstName == "" {
		return nil, ErrFirstNameMissing
	}
	lastName := strings.TrimSpace(input.LastName)
	if lastName == "" {
		return nil, ErrLastNameMissing
	}
	if !utils.IsStrongPassword(input.Password) {
		return nil, ErrWeakPassword
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		FirstName:    firstName,
		LastName:     lastName,
		CustomSkills: []string{},
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and issues an access and refresh token pair.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	result, next, err := s.issue(user, input.ClientIP, input.UserAgent)
	if err != nil {
		return nil, err
	}
	if err := s.tokenRepo.Create(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return result, nil
}

// Refresh exchanges an active refresh token for a new pair. The presented
// token is revoked and linked to its replacement.
func (s *AuthService) Refresh(ctx context.Context, input RefreshInput) (*AuthResult, error) {
	if input.Token == "" {
		return nil, ErrRefreshTokenRequired
	}

	current, err := s.tokenRepo.FindByHash(ctx, utils.HashToken(input.Token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to find refresh token: %w", err)
	}
	if current.RevokedAt != nil {
		return nil, ErrInvalidRefreshToken
	}
	now := s.now()
	if !now.Before(current.ExpiresAt) {
		return nil, ErrRefreshTokenExpired
	}

	user, err := s.userRepo.FindByID(ctx, current.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	result, next, err := s.issue(user, input.ClientIP, input.UserAgent)
	if err != nil {
		return nil, err
	}
	if err := s.tokenRepo.Rotate(ctx, current, next, now); err != nil {
		if errors.Is(err, repository.ErrTokenAlreadyRevoked) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return result, nil
}

// Logout revokes the refresh token. A missing or already revoked token is not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.tokenRepo.RevokeByHash(ctx, utils.HashToken(token), s.now()); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (s *AuthService) issue(user *models.User, clientIP, userAgent string) (*AuthResult, *models.RefreshToken, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, nil, ErrFailedToIssueTokens
	}
	refresh, hash, err := utils.GenerateRefreshToken()
	if err != nil {
		return nil, nil, ErrFailedToIssueTokens
	}

	expiresAt := s.now().Add(s.refreshTTL)
	record := &models.RefreshToken{
		UserID:      user.ID,
		TokenHash:   hash,
		ExpiresAt:   expiresAt,
		CreatedByIP: truncate(clientIP, 64),
		UserAgent:   truncate(userAgent, 255),
	}

	return &AuthResult{
		AccessToken:      access,
		ExpiresIn:        int64(s.tokens.TTL().Seconds()),
		RefreshToken:     refresh,
		RefreshExpiresAt: expiresAt,
		User:             user,
	}, record, nil
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
