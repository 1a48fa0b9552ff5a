package models

import "time"

// RefreshToken stores only the SHA-256 hash of the token handed to the client.
type RefreshToken struct {
	ID                uint64     `gorm:"primarykey" json:"id"`
	UserID            uint64     `gorm:"not null;index" json:"userId"`
	TokenHash         string     `gorm:"type:char(64);uniqueIndex;not null" json:"-"`
	ExpiresAt         time.Time  `gorm:"not null;index" json:"expiresAt"`
	RevokedAt         *time.Time `json:"revokedAt"`
	ReplacedByTokenID *uint64    `json:"replacedByTokenId"`
	CreatedByIP       string     `gorm:"type:varchar(64)" json:"createdByIp"`
	UserAgent         string     `gorm:"type:varchar(255)" json:"userAgent"`
	CreatedAt         time.Time  `json:"createdAt"`
}

// IsActive reports whether the token can still be exchanged.
func (t *RefreshToken) IsActive(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}
