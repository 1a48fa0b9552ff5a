package constants

import "time"

// Context keys
const (
	ContextKeyUserID    = "user_id"
	ContextKeyEmail     = "user_email"
	ContextKeyProjectID = "project_id"
	ContextKeyRequestID = "request_id"
)

// Session
const (
	// RefreshCookieName is the session cookie that carries the refresh token.
	RefreshCookieName = "refreshToken"
	RefreshCookiePath = "/api/v1/auth"
	SessionKeyRefresh = "refresh_token"
)

// Auth
const (
	MinPasswordLength      = 8
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Pagination (pages are zero-based)
const (
	MinPage                     = 0
	DefaultProjectPageSize      = 9
	DefaultNotificationPageSize = 20
	MaxPageSize                 = 50
)

// Projects
const (
	MinTeamSize          = 2
	MaxTeamSize          = 20
	MaxSuggestedTasks    = 5
	ReferenceTypeProject = "PROJECT"
)

// Uploads
const (
	MaxUploadSize       = 5 << 20
	ProfilePicSubfolder = "profile-pics"
)
