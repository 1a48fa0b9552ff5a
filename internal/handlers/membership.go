package handlers

import (
	"errors"
	"io"

	"github.com/collabhub/collabhub-api/internal/dto"
	apierrors "github.com/collabhub/collabhub-api/internal/errors"
	"github.com/collabhub/collabhub-api/internal/models"
	"github.com/collabhub/collabhub-api/internal/services"
	"github.com/gin-gonic/gin"
)

// MembershipHandler serves join requests, members and bookmarks.
type MembershipHandler struct {
	membershipService *services.MembershipService
}

// NewMembershipHandler creates a new MembershipHandler.
func NewMembershipHandler(membershipService *services.MembershipService) *MembershipHandler {
	return &MembershipHandler{
		membershipService: membershipService,
	}
}

// CreateJoinRequest asks to join a project
func (h *MembershipHandler) CreateJoinRequest(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	projectID, ok := requireProjectID(c)
	if !ok {
		return
	}

	type JoinRequestBody struct {
		Message string `json:"message" binding:"max=1000"`
	}

	// The body is optional
	var body JoinRequestBody
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	req, err := h.membershipService.CreateJoinRequest(c.Request.Context(), projectID, userID, body.Message)
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	apierrors.Created(c, dto.ToJoinRequestDTO(*req), "Join request sent")
}

// ListJoinRequests lists pending requests for the owner
func (h *MembershipHandler) ListJoinRequests(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	projectID, ok := requireProjectID(c)
	if !ok {
		return
	}

	reqs, err := h.membershipService.ListPendingJoinRequests(c.Request.Context(), projectID, userID)
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	apierrors.Success(c, dto.ToJoinRequestDTOs(reqs))
}

// ReviewJoinRequest approves or rejects a request
func (h *MembershipHandler) ReviewJoinRequest(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	projectID, ok := requireProjectID(c)
	if !ok {
		return
	}
	requestID, ok := parseIDParam(c, "reqId", "Invalid join request ID")
	if !ok {
		return
	}

	type ReviewRequest struct {
		Status string `json:"status" binding:"required,oneof=APPROVED REJECTED"`
	}

	var body ReviewRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apierrors.BadRequest(c, "Status must be APPROVED or REJECTED")
		return
	}

	req, err := h.membershipService.ReviewJoinRequest(c.Request.Context(), projectID, requestID, userID, models.JoinRequestStatus(body.Status))
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	message := "Join request rejected"
	if req.Status == models.JoinRequestApproved {
		message = "Join request approved"
	}
	apierrors.SuccessMessage(c, dto.ToJoinRequestDTO(*req), message)
}

// CancelJoinRequest withdraws the caller's pending request
func (h *MembershipHandler) CancelJoinRequest(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	projectID, ok := requireProjectID(c)
	if !ok {
		return
	}

	req, err := h.membershipService.CancelJoinRequest(c.Request.Context(), projectID, userID)
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	apierrors.SuccessMessage(c, dto.ToJoinRequestDTO(*req), "Join request cancelled")
}

// JoinRequestHistory lists the recorded transitions of a request
func (h *MembershipHandler) JoinRequestHistory(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	projectID, ok := requireProjectID(c)
	if !ok {
		return
	}
	requestID, ok := parseIDParam(c, "reqId", "Invalid join request ID")
	if !ok {
		return
	}

	events, err := h.membershipService.JoinRequestHistory(c.Request.Context(), projectID, requestID, userID)
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	apierrors.Success(c, dto.ToJoinRequestEventDTOs(events))
}

// LeaveProject removes the caller from the project
func (h *MembershipHandler) LeaveProject(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	projectID, ok := requireProjectID(c)
	if !ok {
		return
	}

	if err := h.membershipService.LeaveProject(c.Request.Context(), projectID, userID); err != nil {
		respondMembershipError(c, err)
		return
	}

	apierrors.SuccessMessage(c, nil, "You left the project")
}

// RemoveMember removes another member (owner only)
func (h *MembershipHandler) RemoveMember(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	projectID, ok := requireProjectID(c)
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "userId", "Invalid user ID")
	if !ok {
		return
	}

	if err := h.membershipService.RemoveMember(c.Request.Context(), projectID, targetID, userID); err != nil {
		respondMembershipError(c, err)
		return
	}

	apierrors.SuccessMessage(c, nil, "Member removed")
}

// ListMembers lists a project's members
func (h *MembershipHandler) ListMembers(c *gin.Context) {
	projectID, ok := requireProjectID(c)
	if !ok {
		return
	}

	members, err := h.membershipService.ListMembers(c.Request.Context(), projectID)
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	apierrors.Success(c, dto.ToProjectMemberDTOs(members))
}

// AddInterest bookmarks a project
func (h *MembershipHandler) AddInterest(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	projectID, ok := requireProjectID(c)
	if !ok {
		return
	}

	if err := h.membershipService.AddInterest(c.Request.Context(), projectID, userID); err != nil {
		respondMembershipError(c, err)
		return
	}

	apierrors.SuccessMessage(c, nil, "Project bookmarked")
}

// RemoveInterest removes a bookmark
func (h *MembershipHandler) RemoveInterest(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	projectID, ok := requireProjectID(c)
	if !ok {
		return
	}

	if err := h.membershipService.RemoveInterest(c.Request.Context(), projectID, userID); err != nil {
		respondMembershipError(c, err)
		return
	}

	apierrors.SuccessMessage(c, nil, "Bookmark removed")
}

// GetMembershipStatus reports the caller's relation to the project
func (h *MembershipHandler) GetMembershipStatus(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	projectID, ok := requireProjectID(c)
	if !ok {
		return
	}

	status, err := h.membershipService.GetUserProjectStatus(c.Request.Context(), projectID, userID)
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	apierrors.Success(c, dto.MembershipStatusDTO{
		Status:     string(status.Status),
		Interested: status.Interested,
	})
}

func respondMembershipError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrJoinRequestNotFound),
		errors.Is(err, services.ErrJoinRequestWrongProject),
		errors.Is(err, services.ErrNoPendingJoinRequest),
		errors.Is(err, services.ErrMemberNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotProjectOwner):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrAlreadyProjectMember),
		errors.Is(err, services.ErrJoinRequestPending):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidReviewDecision),
		errors.Is(err, services.ErrJoinMessageTooLong):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrCannotJoinOwnProject),
		errors.Is(err, services.ErrTeamFull),
		errors.Is(err, services.ErrTeamFullOnApproval),
		errors.Is(err, services.ErrJoinRequestAlreadyReviewed),
		errors.Is(err, services.ErrOwnerCannotLeave),
		errors.Is(err, services.ErrNotProjectMember),
		errors.Is(err, services.ErrCannotRemoveYourself),
		errors.Is(err, services.ErrCannotBookmarkOwnProject):
		apierrors.InvalidOperation(c, err.Error())
	default:
		respondInternal(c, err)
	}
}
