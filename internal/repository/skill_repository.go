package repository

import (
	"context"

	"github.com/collabhub/collabhub-api/internal/models"
	"gorm.io/gorm"
)

// GormSkillRepository is a GORM implementation of SkillRepository
type GormSkillRepository struct {
	db *gorm.DB
}

// NewSkillRepository creates a new SkillRepository
func NewSkillRepository(db *gorm.DB) SkillRepository {
	return &GormSkillRepository{db: db}
}

// List returns all skills ordered by name
func (r *GormSkillRepository) List(ctx context.Context) ([]models.Skill, error) {
	var skills []models.Skill
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&skills).Error; err != nil {
		return nil, err
	}
	return skills, nil
}

// FindByIDs returns the skills with the given IDs
func (r *GormSkillRepository) FindByIDs(ctx context.Context, ids []uint64) ([]models.Skill, error) {
	if len(ids) == 0 {
		return []models.Skill{}, nil
	}
	var skills []models.Skill
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&skills).Error; err != nil {
		return nil, err
	}
	return skills, nil
}
