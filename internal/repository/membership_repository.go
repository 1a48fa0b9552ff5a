package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/collabhub/collabhub-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrJoinRequestNotPending is returned when a decision finds the request already decided.
	ErrJoinRequestNotPending = errors.New("membership repository: join request is not pending")
	// ErrTeamFull is returned when an approval would exceed the project's max team size.
	ErrTeamFull = errors.New("membership repository: team is full")
	// ErrJoinRequestExists is returned when the user already has a PENDING request for the project.
	ErrJoinRequestExists = errors.New("membership repository: pending join request exists")
	// ErrCreateMember is returned when inserting the membership fails inside an approval.
	ErrCreateMember = errors.New("membership repository: create member failed")
	// ErrAppendEvent is returned when writing the join request history fails.
	ErrAppendEvent = errors.New("membership repository: append join request event failed")
)

const (
	seqSubmitted = 0
	seqDecided   = 1
)

// GormMembershipRepository is a GORM implementation of MembershipRepository
type GormMembershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &GormMembershipRepository{db: db}
}

// FindMember finds a specific project member
func (r *GormMembershipRepository) FindMember(ctx context.Context, projectID, userID uint64) (*models.ProjectMember, error) {
	var member models.ProjectMember
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers lists all members of a project
func (r *GormMembershipRepository) ListMembers(ctx context.Context, projectID uint64) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("project_id = ?", projectID).
		Order("joined_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// CountMembers counts the members of a project
func (r *GormMembershipRepository) CountMembers(ctx context.Context, projectID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProjectMember{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	return count, err
}

// RemoveMember removes a member from a project
func (r *GormMembershipRepository) RemoveMember(ctx context.Context, projectID, userID uint64) error {
	res := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMember{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateJoinRequest inserts the request and its submission event atomically.
// A second PENDING request for the same pair fails with ErrJoinRequestExists.
func (r *GormMembershipRepository) CreateJoinRequest(ctx context.Context, req *models.JoinRequest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		req.Status = models.JoinRequestPending
		pendingUserID := req.UserID
		req.PendingUserID = &pendingUserID
		if err := tx.Omit(clause.Associations).Create(req).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrJoinRequestExists
			}
			return err
		}

		event := &models.JoinRequestEvent{
			JoinRequestID: req.ID,
			Seq:           seqSubmitted,
			ProjectID:     req.ProjectID,
			UserID:        req.UserID,
			Status:        models.JoinRequestPending,
			ActorID:       req.UserID,
			CreatedAt:     req.CreatedAt,
		}
		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrAppendEvent, err)
		}

		return nil
	})
}

// FindJoinRequest finds a join request by ID
func (r *GormMembershipRepository) FindJoinRequest(ctx context.Context, id uint64) (*models.JoinRequest, error) {
	var req models.JoinRequest
	if err := r.db.WithContext(ctx).Preload("User").First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// FindPendingJoinRequest finds the user's PENDING request for a project
func (r *GormMembershipRepository) FindPendingJoinRequest(ctx context.Context, projectID, userID uint64) (*models.JoinRequest, error) {
	var req models.JoinRequest
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ? AND status = ?", projectID, userID, models.JoinRequestPending).
		Order("id DESC").
		First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// ListJoinRequests lists a project's join requests in a status, oldest first
func (r *GormMembershipRepository) ListJoinRequests(ctx context.Context, projectID uint64, status models.JoinRequestStatus) ([]models.JoinRequest, error) {
	var reqs []models.JoinRequest
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("project_id = ? AND status = ?", projectID, status).
		Order("created_at ASC").
		Order("id ASC").
		Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

// ListJoinRequestEvents returns the request's history in order
func (r *GormMembershipRepository) ListJoinRequestEvents(ctx context.Context, requestID uint64) ([]models.JoinRequestEvent, error) {
	var events []models.JoinRequestEvent
	if err := r.db.WithContext(ctx).
		Where("join_request_id = ?", requestID).
		Order("seq ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// DecideJoinRequest applies a terminal status in one transaction. The
// conditional update lets exactly one concurrent decision through; an
// approval also re-checks capacity and inserts the membership.
func (r *GormMembershipRepository) DecideJoinRequest(ctx context.Context, d JoinRequestDecision) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":          d.Status,
			"pending_user_id": nil,
		}
		if d.Status != models.JoinRequestCancelled {
			updates["reviewed_at"] = d.At
		}

		res := tx.Model(&models.JoinRequest{}).
			Where("id = ? AND status = ?", d.RequestID, models.JoinRequestPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrJoinRequestNotPending
		}

		if d.Status == models.JoinRequestApproved {
			if err := addMemberWithinCapacity(tx, d); err != nil {
				return err
			}
		}

		event := &models.JoinRequestEvent{
			JoinRequestID: d.RequestID,
			Seq:           seqDecided,
			ProjectID:     d.ProjectID,
			UserID:        d.UserID,
			Status:        d.Status,
			ActorID:       d.ActorID,
			CreatedAt:     d.At,
		}
		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrAppendEvent, err)
		}

		return nil
	})
}

// lockProject reads the project's capacity with a row lock held until tx
// ends, so capacity checks on the same project run one at a time.
func lockProject(tx *gorm.DB, projectID uint64) (*models.Project, error) {
	var project models.Project
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "max_team_size").
		First(&project, projectID).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func countMembers(tx *gorm.DB, projectID uint64) (int64, error) {
	var count int64
	err := tx.Model(&models.ProjectMember{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	return count, err
}

func addMemberWithinCapacity(tx *gorm.DB, d JoinRequestDecision) error {
	project, err := lockProject(tx, d.ProjectID)
	if err != nil {
		return err
	}

	count, err := countMembers(tx, d.ProjectID)
	if err != nil {
		return err
	}
	if count >= int64(project.MaxTeamSize) {
		return ErrTeamFull
	}

	member := &models.ProjectMember{
		ProjectID: d.ProjectID,
		UserID:    d.UserID,
		Role:      models.RoleMember,
		JoinedAt:  d.At,
	}
	if err := tx.Omit(clause.Associations).Create(member).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrCreateMember, err)
	}
	return nil
}

// AddInterest bookmarks a project
func (r *GormMembershipRepository) AddInterest(ctx context.Context, userID, projectID uint64) error {
	interest := &models.ProjectInterest{
		UserID:    userID,
		ProjectID: projectID,
		CreatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "project_id"}},
			DoNothing: true,
		}).
		Create(interest).Error
}

// RemoveInterest removes a bookmark
func (r *GormMembershipRepository) RemoveInterest(ctx context.Context, userID, projectID uint64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Delete(&models.ProjectInterest{}).Error
}

// HasInterest reports whether the bookmark exists
func (r *GormMembershipRepository) HasInterest(ctx context.Context, userID, projectID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProjectInterest{}).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Count(&count).Error
	return count > 0, err
}
