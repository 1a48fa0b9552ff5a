package database

import (
	"github.com/collabhub/collabhub-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var defaultSkills = []models.Skill{
	{Name: "Java", Category: models.SkillCategoryLanguage},
	{Name: "Python", Category: models.SkillCategoryLanguage},
	{Name: "JavaScript", Category: models.SkillCategoryLanguage},
	{Name: "TypeScript", Category: models.SkillCategoryLanguage},
	{Name: "Go", Category: models.SkillCategoryLanguage},
	{Name: "C++", Category: models.SkillCategoryLanguage},
	{Name: "Rust", Category: models.SkillCategoryLanguage},
	{Name: "SQL", Category: models.SkillCategoryLanguage},
	{Name: "React", Category: models.SkillCategoryFramework},
	{Name: "Spring Boot", Category: models.SkillCategoryFramework},
	{Name: "Django", Category: models.SkillCategoryFramework},
	{Name: "Node.js", Category: models.SkillCategoryFramework},
	{Name: "Flutter", Category: models.SkillCategoryFramework},
	{Name: "PyTorch", Category: models.SkillCategoryFramework},
	{Name: "Docker", Category: models.SkillCategoryTool},
	{Name: "Git", Category: models.SkillCategoryTool},
	{Name: "AWS", Category: models.SkillCategoryTool},
	{Name: "Figma", Category: models.SkillCategoryTool},
	{Name: "Machine Learning", Category: models.SkillCategoryConcept},
	{Name: "Distributed Systems", Category: models.SkillCategoryConcept},
	{Name: "UI/UX Design", Category: models.SkillCategoryConcept},
	{Name: "Embedded Systems", Category: models.SkillCategoryConcept},
	{Name: "Technical Writing", Category: models.SkillCategoryOther},
}

// SeedSkills inserts the default skill catalog, leaving existing rows alone.
func SeedSkills(db *gorm.DB) error {
	skills := make([]models.Skill, len(defaultSkills))
	copy(skills, defaultSkills)
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&skills).Error
}
