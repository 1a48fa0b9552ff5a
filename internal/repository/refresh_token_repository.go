package repository

import (
	"context"
	"errors"
	"time"

	"github.com/collabhub/collabhub-api/internal/models"
	"gorm.io/gorm"
)

// ErrTokenAlreadyRevoked is returned when a rotation loses a race with
// another rotation or a logout.
var ErrTokenAlreadyRevoked = errors.New("refresh token repository: token already revoked")

// GormRefreshTokenRepository is a GORM implementation of RefreshTokenRepository
type GormRefreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository creates a new RefreshTokenRepository
func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &GormRefreshTokenRepository{db: db}
}

// Create stores a new refresh token
func (r *GormRefreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

// FindByHash finds a token by hash
func (r *GormRefreshTokenRepository) FindByHash(ctx context.Context, hash string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := r.db.WithContext(ctx).Where("token_hash = ?", hash).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// Rotate creates next and revokes current, linking the two
func (r *GormRefreshTokenRepository) Rotate(ctx context.Context, current, next *models.RefreshToken, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(next).Error; err != nil {
			return err
		}

		res := tx.Model(&models.RefreshToken{}).
			Where("id = ? AND revoked_at IS NULL", current.ID).
			Updates(map[string]interface{}{
				"revoked_at":           at,
				"replaced_by_token_id": next.ID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTokenAlreadyRevoked
		}

		current.RevokedAt = &at
		current.ReplacedByTokenID = &next.ID
		return nil
	})
}

// RevokeByHash revokes the token if it is still active
func (r *GormRefreshTokenRepository) RevokeByHash(ctx context.Context, hash string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("token_hash = ? AND revoked_at IS NULL", hash).
		Update("revoked_at", at).Error
}
