package models

type ProjectTask struct {
	ID          uint64 `gorm:"primarykey" json:"id"`
	ProjectID   uint64 `gorm:"not null;index" json:"projectId"`
	Title       string `gorm:"type:varchar(200);not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	IsFilled    bool   `gorm:"not null;default:false" json:"isFilled"`
}
