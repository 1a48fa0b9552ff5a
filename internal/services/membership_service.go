package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/collabhub/collabhub-api/internal/constants"
	"github.com/collabhub/collabhub-api/internal/models"
	"github.com/collabhub/collabhub-api/internal/repository"
	"github.com/collabhub/collabhub-api/internal/telemetry"
	"gorm.io/gorm"
)

var (
	ErrNotProjectOwner            = errors.New("Only the project owner can perform this action")
	ErrCannotJoinOwnProject       = errors.New("You cannot request to join your own project")
	ErrAlreadyProjectMember       = errors.New("You are already a member of this project")
	ErrJoinRequestPending         = errors.New("You already have a pending join request for this project")
	ErrTeamFull                   = errors.New("This project's team is full")
	ErrTeamFullOnApproval         = errors.New("Cannot approve: team is full")
	ErrJoinMessageTooLong         = errors.New("Message must be at most 1000 characters")
	ErrJoinRequestNotFound        = errors.New("Join request not found")
	ErrJoinRequestWrongProject    = errors.New("Join request not found for this project")
	ErrJoinRequestAlreadyReviewed = errors.New("This join request has already been reviewed")
	ErrInvalidReviewDecision      = errors.New("Status must be APPROVED or REJECTED")
	ErrNoPendingJoinRequest       = errors.New("You have no pending join request for this project")
	ErrOwnerCannotLeave           = errors.New("The project owner cannot leave. Delete the project instead.")
	ErrNotProjectMember           = errors.New("You are not a member of this project")
	ErrCannotRemoveYourself       = errors.New("You cannot remove yourself from the project")
	ErrMemberNotFound             = errors.New("Member not found in this project")
	ErrCannotBookmarkOwnProject   = errors.New("You cannot bookmark your own project")
)

const maxJoinMessageLength = 1000

// ProjectRelation is how a user relates to a project.
type ProjectRelation string

const (
	RelationOwner   ProjectRelation = "OWNER"
	RelationMember  ProjectRelation = "MEMBER"
	RelationPending ProjectRelation = "PENDING"
	RelationNone    ProjectRelation = "NONE"
)

// MembershipStatus is a user's standing on a project.
type MembershipStatus struct {
	Status     ProjectRelation
	Interested bool
}

// MembershipService owns the join request lifecycle, member removal and
// bookmarks. Every operation takes the acting user explicitly.
type MembershipService struct {
	projectRepo repository.ProjectRepository
	memberRepo  repository.MembershipRepository
	userRepo    repository.UserRepository
	notifier    Notifier
	now         func() time.Time
}

// NewMembershipService creates a new MembershipService.
func NewMembershipService(
	projectRepo repository.ProjectRepository,
	memberRepo repository.MembershipRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
) *MembershipService {
	return &MembershipService{
		projectRepo: projectRepo,
		memberRepo:  memberRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		now:         time.Now,
	}
}

// CreateJoinRequest submits a PENDING request from actorID and notifies the owner.
func (s *MembershipService) CreateJoinRequest(ctx context.Context, projectID, actorID uint64, message string) (*models.JoinRequest, error) {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	message = strings.TrimSpace(message)
	if utf8.RuneCountInString(message) > maxJoinMessageLength {
		return nil, ErrJoinMessageTooLong
	}
	if project.OwnerID == actorID {
		return nil, ErrCannotJoinOwnProject
	}

	isMember, err := s.isMember(ctx, projectID, actorID)
	if err != nil {
		return nil, err
	}
	if isMember {
		return nil, ErrAlreadyProjectMember
	}

	if _, err := s.memberRepo.FindPendingJoinRequest(ctx, projectID, actorID); err == nil {
		return nil, ErrJoinRequestPending
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check pending join request: %w", err)
	}

	count, err := s.memberRepo.CountMembers(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}
	if count >= int64(project.MaxTeamSize) {
		return nil, ErrTeamFull
	}

	requester, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load requester: %w", err)
	}

	req := &models.JoinRequest{
		ProjectID: projectID,
		UserID:    actorID,
	}
	if message != "" {
		req.Message = &message
	}

	if err := s.memberRepo.CreateJoinRequest(ctx, req); err != nil {
		if errors.Is(err, repository.ErrJoinRequestExists) {
			return nil, ErrJoinRequestPending
		}
		return nil, fmt.Errorf("failed to create join request: %w", err)
	}
	req.User = *requester
	telemetry.JoinRequestTransitions.WithLabelValues(string(models.JoinRequestPending)).Inc()

	notifyBestEffort(ctx, s.notifier, NotifyInput{
		RecipientID:   project.OwnerID,
		Type:          models.NotificationJoinRequestReceived,
		Title:         joinRequestReceivedTitle(requester, project),
		Body:          req.Message,
		ReferenceID:   &project.ID,
		ReferenceType: constants.ReferenceTypeProject,
	})

	return req, nil
}

// ListPendingJoinRequests returns the project's PENDING requests, oldest first.
func (s *MembershipService) ListPendingJoinRequests(ctx context.Context, projectID, actorID uint64) ([]models.JoinRequest, error) {
	if _, err := s.requireOwner(ctx, projectID, actorID); err != nil {
		return nil, err
	}

	reqs, err := s.memberRepo.ListJoinRequests(ctx, projectID, models.JoinRequestPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list join requests: %w", err)
	}
	return reqs, nil
}

// ReviewJoinRequest approves or rejects a PENDING request. Approval adds the
// member in the same transaction; the requester is notified after commit.
func (s *MembershipService) ReviewJoinRequest(ctx context.Context, projectID, requestID, actorID uint64, decision models.JoinRequestStatus) (*models.JoinRequest, error) {
	if decision != models.JoinRequestApproved && decision != models.JoinRequestRejected {
		return nil, ErrInvalidReviewDecision
	}

	project, err := s.requireOwner(ctx, projectID, actorID)
	if err != nil {
		return nil, err
	}

	req, err := s.findJoinRequest(ctx, projectID, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != models.JoinRequestPending {
		return nil, ErrJoinRequestAlreadyReviewed
	}

	reviewedAt := s.now()
	err = s.memberRepo.DecideJoinRequest(ctx, repository.JoinRequestDecision{
		RequestID: req.ID,
		ProjectID: projectID,
		UserID:    req.UserID,
		ActorID:   actorID,
		Status:    decision,
		At:        reviewedAt,
	})
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrJoinRequestNotPending):
		return nil, ErrJoinRequestAlreadyReviewed
	case errors.Is(err, repository.ErrTeamFull):
		return nil, ErrTeamFullOnApproval
	default:
		return nil, fmt.Errorf("failed to review join request: %w", err)
	}

	req.Status = decision
	req.ReviewedAt = &reviewedAt
	telemetry.JoinRequestTransitions.WithLabelValues(string(decision)).Inc()

	notifyBestEffort(ctx, s.notifier, NotifyInput{
		RecipientID:   req.UserID,
		Type:          reviewNotificationType(decision),
		Title:         joinRequestReviewedTitle(decision, project),
		ReferenceID:   &project.ID,
		ReferenceType: constants.ReferenceTypeProject,
	})

	return req, nil
}

// CancelJoinRequest withdraws the actor's own PENDING request.
func (s *MembershipService) CancelJoinRequest(ctx context.Context, projectID, actorID uint64) (*models.JoinRequest, error) {
	if _, err := s.findProject(ctx, projectID); err != nil {
		return nil, err
	}

	req, err := s.memberRepo.FindPendingJoinRequest(ctx, projectID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoPendingJoinRequest
		}
		return nil, fmt.Errorf("failed to find join request: %w", err)
	}

	err = s.memberRepo.DecideJoinRequest(ctx, repository.JoinRequestDecision{
		RequestID: req.ID,
		ProjectID: projectID,
		UserID:    actorID,
		ActorID:   actorID,
		Status:    models.JoinRequestCancelled,
		At:        s.now(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrJoinRequestNotPending) {
			return nil, ErrNoPendingJoinRequest
		}
		return nil, fmt.Errorf("failed to cancel join request: %w", err)
	}

	req.Status = models.JoinRequestCancelled
	telemetry.JoinRequestTransitions.WithLabelValues(string(models.JoinRequestCancelled)).Inc()
	return req, nil
}

// JoinRequestHistory returns the events recorded for a request of the project.
func (s *MembershipService) JoinRequestHistory(ctx context.Context, projectID, requestID, actorID uint64) ([]models.JoinRequestEvent, error) {
	if _, err := s.requireOwner(ctx, projectID, actorID); err != nil {
		return nil, err
	}
	if _, err := s.findJoinRequest(ctx, projectID, requestID); err != nil {
		return nil, err
	}

	events, err := s.memberRepo.ListJoinRequestEvents(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list join request events: %w", err)
	}
	return events, nil
}

// LeaveProject removes the actor's own membership and notifies the owner.
func (s *MembershipService) LeaveProject(ctx context.Context, projectID, actorID uint64) error {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return err
	}
	if project.OwnerID == actorID {
		return ErrOwnerCannotLeave
	}

	leaver, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.memberRepo.RemoveMember(ctx, projectID, actorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotProjectMember
		}
		return fmt.Errorf("failed to leave project: %w", err)
	}

	notifyBestEffort(ctx, s.notifier, NotifyInput{
		RecipientID:   project.OwnerID,
		Type:          models.NotificationMemberLeft,
		Title:         memberLeftTitle(leaver, project),
		ReferenceID:   &project.ID,
		ReferenceType: constants.ReferenceTypeProject,
	})
	return nil
}

// RemoveMember lets the owner remove another member.
func (s *MembershipService) RemoveMember(ctx context.Context, projectID, targetID, actorID uint64) error {
	project, err := s.requireOwner(ctx, projectID, actorID)
	if err != nil {
		return err
	}
	if targetID == actorID {
		return ErrCannotRemoveYourself
	}

	if err := s.memberRepo.RemoveMember(ctx, projectID, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to remove member: %w", err)
	}

	notifyBestEffort(ctx, s.notifier, NotifyInput{
		RecipientID:   targetID,
		Type:          models.NotificationMemberRemoved,
		Title:         memberRemovedTitle(project),
		ReferenceID:   &project.ID,
		ReferenceType: constants.ReferenceTypeProject,
	})
	return nil
}

// ListMembers returns the project's members, earliest joined first.
func (s *MembershipService) ListMembers(ctx context.Context, projectID uint64) ([]models.ProjectMember, error) {
	if _, err := s.findProject(ctx, projectID); err != nil {
		return nil, err
	}

	members, err := s.memberRepo.ListMembers(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// AddInterest bookmarks a project. Bookmarking twice is a no-op.
func (s *MembershipService) AddInterest(ctx context.Context, projectID, actorID uint64) error {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return err
	}
	if project.OwnerID == actorID {
		return ErrCannotBookmarkOwnProject
	}

	if err := s.memberRepo.AddInterest(ctx, actorID, projectID); err != nil {
		return fmt.Errorf("failed to add interest: %w", err)
	}
	return nil
}

// RemoveInterest removes a bookmark if one exists.
func (s *MembershipService) RemoveInterest(ctx context.Context, projectID, actorID uint64) error {
	if _, err := s.findProject(ctx, projectID); err != nil {
		return err
	}

	if err := s.memberRepo.RemoveInterest(ctx, actorID, projectID); err != nil {
		return fmt.Errorf("failed to remove interest: %w", err)
	}
	return nil
}

// GetUserProjectStatus reports the user's relation to the project and
// whether they bookmarked it.
func (s *MembershipService) GetUserProjectStatus(ctx context.Context, projectID, userID uint64) (*MembershipStatus, error) {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	interested, err := s.memberRepo.HasInterest(ctx, userID, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to check interest: %w", err)
	}
	status := &MembershipStatus{Status: RelationNone, Interested: interested}

	if project.OwnerID == userID {
		status.Status = RelationOwner
		return status, nil
	}

	isMember, err := s.isMember(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if isMember {
		status.Status = RelationMember
		return status, nil
	}

	if _, err := s.memberRepo.FindPendingJoinRequest(ctx, projectID, userID); err == nil {
		status.Status = RelationPending
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check pending join request: %w", err)
	}

	return status, nil
}

func (s *MembershipService) findProject(ctx context.Context, projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

func (s *MembershipService) requireOwner(ctx context.Context, projectID, actorID uint64) (*models.Project, error) {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.OwnerID != actorID {
		return nil, ErrNotProjectOwner
	}
	return project, nil
}

func (s *MembershipService) findJoinRequest(ctx context.Context, projectID, requestID uint64) (*models.JoinRequest, error) {
	req, err := s.memberRepo.FindJoinRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJoinRequestNotFound
		}
		return nil, fmt.Errorf("failed to find join request: %w", err)
	}
	if req.ProjectID != projectID {
		return nil, ErrJoinRequestWrongProject
	}
	return req, nil
}

func (s *MembershipService) isMember(ctx context.Context, projectID, userID uint64) (bool, error) {
	if _, err := s.memberRepo.FindMember(ctx, projectID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return true, nil
}

func reviewNotificationType(decision models.JoinRequestStatus) models.NotificationType {
	if decision == models.JoinRequestApproved {
		return models.NotificationJoinRequestApproved
	}
	return models.NotificationJoinRequestRejected
}

func joinRequestReceivedTitle(requester *models.User, project *models.Project) string {
	return fmt.Sprintf("%s wants to join %s", requester.FullName(), project.Title)
}

func joinRequestReviewedTitle(decision models.JoinRequestStatus, project *models.Project) string {
	if decision == models.JoinRequestApproved {
		return fmt.Sprintf("Your request to join %s was approved", project.Title)
	}
	return fmt.Sprintf("Your request to join %s was rejected", project.Title)
}

func memberLeftTitle(leaver *models.User, project *models.Project) string {
	return fmt.Sprintf("%s left %s", leaver.FullName(), project.Title)
}

func memberRemovedTitle(project *models.Project) string {
	return fmt.Sprintf("You were removed from %s", project.Title)
}
