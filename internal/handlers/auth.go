package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/collabhub/collabhub-api/internal/constants"
	"github.com/collabhub/collabhub-api/internal/dto"
	apierrors "github.com/collabhub/collabhub-api/internal/errors"
	"github.com/collabhub/collabhub-api/internal/services"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RefreshSessionOptions are the cookie settings of the refresh token session.
func RefreshSessionOptions(ttl time.Duration, secure bool) sessions.Options {
	return sessions.Options{
		Path:     constants.RefreshCookiePath,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// Register creates a new account.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Email     string `json:"email" binding:"required,email,max=255"`
		Password  string `json:"password" binding:"required,max=72"`
		FirstName string `json:"firstName" binding:"required,max=100"`
		LastName  string `json:"lastName" binding:"required,max=100"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	apierrors.Created(c, dto.ToUserDTO(*user), "Registration successful")
}

// Login authenticates a user and stores the refresh token in the session.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	h.writeTokens(c, result)
}

// Refresh rotates the session's refresh token and issues a new access token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	session := sessions.Default(c)
	token, _ := session.Get(constants.SessionKeyRefresh).(string)

	result, err := h.authService.Refresh(c.Request.Context(), services.RefreshInput{
		Token:     token,
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		if !errors.Is(err, services.ErrRefreshTokenRequired) {
			session.Clear()
			_ = session.Save()
		}
		respondAuthError(c, err)
		return
	}

	h.writeTokens(c, result)
}

// Logout revokes the refresh token and removes the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	token, _ := session.Get(constants.SessionKeyRefresh).(string)

	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		respondAuthError(c, err)
		return
	}

	session.Clear()
	session.Options(sessions.Options{Path: constants.RefreshCookiePath, MaxAge: -1, HttpOnly: true})
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	apierrors.SuccessMessage(c, nil, "Logged out successfully")
}

func (h *AuthHandler) writeTokens(c *gin.Context, result *services.AuthResult) {
	session := sessions.Default(c)
	session.Set(constants.SessionKeyRefresh, result.RefreshToken)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	apierrors.Success(c, dto.AuthResponse{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   result.ExpiresIn,
		User:        dto.ToUserDTO(*result.User),
	})
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrWeakPassword),
		errors.Is(err, services.ErrEmailRequired),
		errors.Is(err, services.ErrFirstNameMissing),
		errors.Is(err, services.ErrLastNameMissing):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, err.Error())
	case errors.Is(err, services.ErrRefreshTokenRequired),
		errors.Is(err, services.ErrInvalidRefreshToken),
		errors.Is(err, services.ErrRefreshTokenExpired):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrFailedToHashPassword),
		errors.Is(err, services.ErrFailedToIssueTokens):
		apierrors.InternalError(c, err.Error())
	default:
		respondInternal(c, err)
	}
}
