package services

import (
	"context"
	"fmt"

	"github.com/collabhub/collabhub-api/internal/models"
	"github.com/collabhub/collabhub-api/internal/repository"
)

// SkillService serves the skill catalog
type SkillService struct {
	skillRepo repository.SkillRepository
}

// NewSkillService creates a new SkillService
func NewSkillService(skillRepo repository.SkillRepository) *SkillService {
	return &SkillService{skillRepo: skillRepo}
}

// ListSkills returns every skill ordered by name
func (s *SkillService) ListSkills(ctx context.Context) ([]models.Skill, error) {
	skills, err := s.skillRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	return skills, nil
}

// ListGrouped returns the catalog keyed by category, each group sorted by name
func (s *SkillService) ListGrouped(ctx context.Context) (map[models.SkillCategory][]models.Skill, error) {
	skills, err := s.ListSkills(ctx)
	if err != nil {
		return nil, err
	}

	grouped := make(map[models.SkillCategory][]models.Skill)
	for _, skill := range skills {
		grouped[skill.Category] = append(grouped[skill.Category], skill)
	}
	return grouped, nil
}
