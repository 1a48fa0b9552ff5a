package models

import "time"

type JoinRequestStatus string

const (
	JoinRequestPending   JoinRequestStatus = "PENDING"
	JoinRequestApproved  JoinRequestStatus = "APPROVED"
	JoinRequestRejected  JoinRequestStatus = "REJECTED"
	JoinRequestCancelled JoinRequestStatus = "CANCELLED"
)

// IsTerminal reports whether no further transition is possible.
func (s JoinRequestStatus) IsTerminal() bool {
	return s == JoinRequestApproved || s == JoinRequestRejected || s == JoinRequestCancelled
}

// JoinRequest is one application by a user to join a project. Status holds
// the outcome of the latest JoinRequestEvent for the request; a pair may
// apply again after any terminal outcome.
//
// PendingUserID mirrors UserID while the request is PENDING and is NULL
// afterwards. Its unique index with ProjectID allows at most one PENDING
// request per (project, user); NULLs never collide.
type JoinRequest struct {
	ID            uint64            `gorm:"primarykey" json:"id"`
	ProjectID     uint64            `gorm:"not null;index:idx_join_requests_project_user;uniqueIndex:idx_join_requests_one_pending" json:"projectId"`
	UserID        uint64            `gorm:"not null;index:idx_join_requests_project_user" json:"userId"`
	PendingUserID *uint64           `gorm:"uniqueIndex:idx_join_requests_one_pending" json:"-"`
	Message       *string           `gorm:"type:text" json:"message"`
	Status        JoinRequestStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	ReviewedAt    *time.Time        `json:"reviewedAt"`
	CreatedAt     time.Time         `json:"createdAt"`

	// Relations
	Project Project            `gorm:"foreignKey:ProjectID" json:"-"`
	User    User               `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Events  []JoinRequestEvent `gorm:"foreignKey:JoinRequestID" json:"-"`
}

// JoinRequestEvent is an immutable entry in a join request's history.
// Seq 0 is the submission; seq 1 is the single decision. The unique
// (join_request_id, seq) pair rejects a second decision.
type JoinRequestEvent struct {
	ID            uint64            `gorm:"primarykey" json:"id"`
	JoinRequestID uint64            `gorm:"not null;uniqueIndex:idx_join_request_events_seq" json:"joinRequestId"`
	Seq           int               `gorm:"not null;uniqueIndex:idx_join_request_events_seq" json:"seq"`
	ProjectID     uint64            `gorm:"not null;index" json:"projectId"`
	UserID        uint64            `gorm:"not null" json:"userId"`
	Status        JoinRequestStatus `gorm:"type:varchar(20);not null" json:"status"`
	ActorID       uint64            `gorm:"not null" json:"actorId"`
	CreatedAt     time.Time         `json:"createdAt"`
}
