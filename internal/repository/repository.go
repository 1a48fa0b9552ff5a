package repository

import (
	"context"
	"time"

	"github.com/collabhub/collabhub-api/internal/models"
	"github.com/collabhub/collabhub-api/internal/utils"
)

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// CreateWithOwner creates a project, its tasks and skill links, and the
	// owner's membership within a single transaction.
	CreateWithOwner(ctx context.Context, project *models.Project, owner *models.ProjectMember) error

	// FindByID finds a project by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Project, error)

	// List retrieves public projects with filtering and pagination
	List(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error)

	// Update saves scalar fields and replaces the relations flagged in rel
	Update(ctx context.Context, project *models.Project, rel ProjectRelations) error

	// Delete deletes a project and everything hanging off it
	Delete(ctx context.Context, id uint64) error

	// ListOwned lists projects owned by the user
	ListOwned(ctx context.Context, userID uint64) ([]models.Project, error)

	// ListJoined lists projects the user is a member of but does not own
	ListJoined(ctx context.Context, userID uint64) ([]models.Project, error)

	// ListInterested lists projects the user bookmarked
	ListInterested(ctx context.Context, userID uint64) ([]models.Project, error)
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	Query    string
	SkillIDs []uint64
	Status   *models.ProjectStatus
	School   string
	Page     utils.PageParams
}

// ProjectRelations says which to-many relations Update replaces wholesale
type ProjectRelations struct {
	ReplaceSkills bool
	Skills        []models.Skill
	ReplaceTasks  bool
	Tasks         []models.ProjectTask
}

// MembershipRepository covers members, join requests and bookmarks
type MembershipRepository interface {
	// FindMember finds a specific project member
	FindMember(ctx context.Context, projectID, userID uint64) (*models.ProjectMember, error)

	// ListMembers lists all members of a project with their users
	ListMembers(ctx context.Context, projectID uint64) ([]models.ProjectMember, error)

	// CountMembers counts the members of a project
	CountMembers(ctx context.Context, projectID uint64) (int64, error)

	// RemoveMember deletes a membership; gorm.ErrRecordNotFound if none existed
	RemoveMember(ctx context.Context, projectID, userID uint64) error

	// CreateJoinRequest inserts a PENDING request and its submission event
	CreateJoinRequest(ctx context.Context, req *models.JoinRequest) error

	// FindJoinRequest finds a join request by ID with its user
	FindJoinRequest(ctx context.Context, id uint64) (*models.JoinRequest, error)

	// FindPendingJoinRequest finds the user's PENDING request for a project
	FindPendingJoinRequest(ctx context.Context, projectID, userID uint64) (*models.JoinRequest, error)

	// ListJoinRequests lists a project's requests in a status, oldest first
	ListJoinRequests(ctx context.Context, projectID uint64, status models.JoinRequestStatus) ([]models.JoinRequest, error)

	// ListJoinRequestEvents returns a request's history in order
	ListJoinRequestEvents(ctx context.Context, requestID uint64) ([]models.JoinRequestEvent, error)

	// DecideJoinRequest moves a PENDING request to a terminal status
	DecideJoinRequest(ctx context.Context, decision JoinRequestDecision) error

	// AddInterest bookmarks a project; an existing bookmark is left as is
	AddInterest(ctx context.Context, userID, projectID uint64) error

	// RemoveInterest removes a bookmark if present
	RemoveInterest(ctx context.Context, userID, projectID uint64) error

	// HasInterest reports whether the user bookmarked the project
	HasInterest(ctx context.Context, userID, projectID uint64) (bool, error)
}

// JoinRequestDecision describes one terminal transition of a join request
type JoinRequestDecision struct {
	RequestID uint64
	ProjectID uint64
	UserID    uint64
	ActorID   uint64
	Status    models.JoinRequestStatus
	At        time.Time
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID with skills loaded
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by normalized email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// ExistsByEmail reports whether the email is taken
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Update saves the user's own columns
	Update(ctx context.Context, user *models.User) error

	// ReplaceSkills replaces the user's skill set
	ReplaceSkills(ctx context.Context, user *models.User, skills []models.Skill) error
}

// SkillRepository defines the interface for the skill catalog
type SkillRepository interface {
	// List returns all skills ordered by name
	List(ctx context.Context) ([]models.Skill, error)

	// FindByIDs returns the skills whose IDs are given
	FindByIDs(ctx context.Context, ids []uint64) ([]models.Skill, error)
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	// Create inserts notifications
	Create(ctx context.Context, notifications ...*models.Notification) error

	// ListByRecipient lists a user's notifications, newest first
	ListByRecipient(ctx context.Context, userID uint64, page utils.PageParams) ([]models.Notification, int64, error)

	// CountUnread counts unread notifications
	CountUnread(ctx context.Context, userID uint64) (int64, error)

	// MarkAsRead marks one notification read; gorm.ErrRecordNotFound if it is not the user's
	MarkAsRead(ctx context.Context, id, userID uint64) error

	// MarkAllAsRead marks every notification of the user read
	MarkAllAsRead(ctx context.Context, userID uint64) error
}

// RefreshTokenRepository defines the interface for refresh token storage
type RefreshTokenRepository interface {
	// Create stores a new token
	Create(ctx context.Context, token *models.RefreshToken) error

	// FindByHash finds a token by its hash
	FindByHash(ctx context.Context, hash string) (*models.RefreshToken, error)

	// Rotate stores next and revokes current in one transaction
	Rotate(ctx context.Context, current, next *models.RefreshToken, at time.Time) error

	// RevokeByHash revokes an active token; unknown tokens are ignored
	RevokeByHash(ctx context.Context, hash string, at time.Time) error
}
