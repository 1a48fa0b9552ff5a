package models

type SkillCategory string

const (
	SkillCategoryLanguage  SkillCategory = "LANGUAGE"
	SkillCategoryFramework SkillCategory = "FRAMEWORK"
	SkillCategoryTool      SkillCategory = "TOOL"
	SkillCategoryConcept   SkillCategory = "CONCEPT"
	SkillCategoryOther     SkillCategory = "OTHER"
)

type Skill struct {
	ID       uint64        `gorm:"primarykey" json:"id"`
	Name     string        `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Category SkillCategory `gorm:"type:varchar(20);not null" json:"category"`
}
