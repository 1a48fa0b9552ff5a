package dto

import (
	"time"

	"github.com/collabhub/collabhub-api/internal/models"
)

// JoinRequestDTO represents a join request with the requester's summary
type JoinRequestDTO struct {
	ID                uint64                   `json:"id"`
	ProjectID         uint64                   `json:"projectId"`
	UserID            uint64                   `json:"userId"`
	UserFirstName     string                   `json:"userFirstName"`
	UserLastName      string                   `json:"userLastName"`
	UserProfilePicURL *string                  `json:"userProfilePicUrl"`
	Message           *string                  `json:"message"`
	Status            models.JoinRequestStatus `json:"status"`
	ReviewedAt        *time.Time               `json:"reviewedAt"`
	CreatedAt         time.Time                `json:"createdAt"`
}

// JoinRequestEventDTO is one entry of a join request's history
type JoinRequestEventDTO struct {
	Seq       int                      `json:"seq"`
	Status    models.JoinRequestStatus `json:"status"`
	ActorID   uint64                   `json:"actorId"`
	CreatedAt time.Time                `json:"createdAt"`
}

// MembershipStatusDTO is the caller's relation to a project
type MembershipStatusDTO struct {
	Status     string `json:"status"`
	Interested bool   `json:"interested"`
}

// ToJoinRequestDTO converts a join request to DTO
func ToJoinRequestDTO(req models.JoinRequest) JoinRequestDTO {
	return JoinRequestDTO{
		ID:                req.ID,
		ProjectID:         req.ProjectID,
		UserID:            req.UserID,
		UserFirstName:     req.User.FirstName,
		UserLastName:      req.User.LastName,
		UserProfilePicURL: req.User.ProfilePicURL,
		Message:           req.Message,
		Status:            req.Status,
		ReviewedAt:        req.ReviewedAt,
		CreatedAt:         req.CreatedAt,
	}
}

// ToJoinRequestDTOs converts join requests to DTOs
func ToJoinRequestDTOs(reqs []models.JoinRequest) []JoinRequestDTO {
	out := make([]JoinRequestDTO, len(reqs))
	for i, r := range reqs {
		out[i] = ToJoinRequestDTO(r)
	}
	return out
}

// ToJoinRequestEventDTOs converts history events to DTOs
func ToJoinRequestEventDTOs(events []models.JoinRequestEvent) []JoinRequestEventDTO {
	out := make([]JoinRequestEventDTO, len(events))
	for i, e := range events {
		out[i] = JoinRequestEventDTO{
			Seq:       e.Seq,
			Status:    e.Status,
			ActorID:   e.ActorID,
			CreatedAt: e.CreatedAt,
		}
	}
	return out
}
