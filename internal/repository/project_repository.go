package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/collabhub/collabhub-api/internal/database"
	"github.com/collabhub/collabhub-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrTeamSizeBelowMembers is returned when an update would set max team size
// below the current member count.
var ErrTeamSizeBelowMembers = errors.New("project repository: max team size below member count")

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// ProjectDetailPreloads are the relations a full project response needs
var ProjectDetailPreloads = []string{"Owner", "Skills", "Tasks", "Members.User"}

// CreateWithOwner creates the project and the owner's membership atomically
func (r *GormProjectRepository) CreateWithOwner(ctx context.Context, project *models.Project, owner *models.ProjectMember) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Skills already exist; only the join rows are written
		if err := tx.Omit("Skills.*", "Owner", "Members").Create(project).Error; err != nil {
			return err
		}

		owner.ProjectID = project.ID
		owner.UserID = project.OwnerID
		if err := tx.Omit(clause.Associations).Create(owner).Error; err != nil {
			return err
		}

		return nil
	})
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// List retrieves public projects with filtering and pagination
func (r *GormProjectRepository) List(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error) {
	db := r.db.WithContext(ctx)
	var projects []models.Project

	query := db.Model(&models.Project{}).Where("projects.visibility = ?", models.VisibilityPublic)

	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("(LOWER(projects.title) LIKE ? OR LOWER(projects.description) LIKE ?)", like, like)
	}
	if len(filter.SkillIDs) > 0 {
		skillSubQuery := db.Table("project_skills").
			Select("project_skills.project_id").
			Where("project_skills.skill_id IN ?", filter.SkillIDs)
		query = query.Where("projects.id IN (?)", skillSubQuery)
	}
	if filter.Status != nil {
		query = query.Where("projects.status = ?", *filter.Status)
	}
	if school := strings.TrimSpace(filter.School); school != "" {
		ownerSubQuery := db.Model(&models.User{}).
			Select("users.id").
			Where("LOWER(users.school_name) = ?", strings.ToLower(school))
		query = query.Where("projects.owner_id IN (?)", ownerSubQuery)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("projects.created_at DESC").
		Order("projects.id DESC").
		Scopes(database.Paginate(filter.Page)).
		Preload("Owner").
		Preload("Skills").
		Preload("Tasks").
		Preload("Members.User").
		Find(&projects).Error
	if err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// Update saves the project and replaces the flagged relations. The member
// count is checked against MaxTeamSize under the project row lock that
// approvals also take.
func (r *GormProjectRepository) Update(ctx context.Context, project *models.Project, rel ProjectRelations) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockProject(tx, project.ID); err != nil {
			return err
		}
		count, err := countMembers(tx, project.ID)
		if err != nil {
			return err
		}
		if count > int64(project.MaxTeamSize) {
			return ErrTeamSizeBelowMembers
		}

		if err := tx.Omit(clause.Associations).Save(project).Error; err != nil {
			return err
		}

		if rel.ReplaceSkills {
			assoc := tx.Model(project).Omit("Skills.*").Association("Skills")
			if len(rel.Skills) == 0 {
				err = assoc.Clear()
			} else {
				err = assoc.Replace(rel.Skills)
			}
			if err != nil {
				return err
			}
			project.Skills = rel.Skills
		}

		if rel.ReplaceTasks {
			if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectTask{}).Error; err != nil {
				return err
			}
			for i := range rel.Tasks {
				rel.Tasks[i].ID = 0
				rel.Tasks[i].ProjectID = project.ID
			}
			if len(rel.Tasks) > 0 {
				if err := tx.Create(&rel.Tasks).Error; err != nil {
					return err
				}
			}
			project.Tasks = rel.Tasks
		}

		return nil
	})
}

// Delete removes a project and all related rows in a transaction
func (r *GormProjectRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dependents := []interface{}{
			&models.JoinRequestEvent{},
			&models.JoinRequest{},
			&models.ProjectInterest{},
			&models.ProjectMember{},
			&models.ProjectTask{},
		}
		for _, model := range dependents {
			if err := tx.Where("project_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&models.Project{ID: id}).Association("Skills").Clear(); err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}

// ListOwned lists projects owned by the user, newest first
func (r *GormProjectRepository) ListOwned(ctx context.Context, userID uint64) ([]models.Project, error) {
	var projects []models.Project
	err := r.withDetails(r.db.WithContext(ctx)).
		Where("projects.owner_id = ?", userID).
		Order("projects.created_at DESC").
		Find(&projects).Error
	return projects, err
}

// ListJoined lists projects where the user is a non-owner member
func (r *GormProjectRepository) ListJoined(ctx context.Context, userID uint64) ([]models.Project, error) {
	var projects []models.Project
	err := r.withDetails(r.db.WithContext(ctx)).
		Joins("JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.user_id = ? AND projects.owner_id <> ?", userID, userID).
		Order("project_members.joined_at DESC").
		Find(&projects).Error
	return projects, err
}

// ListInterested lists projects bookmarked by the user, latest bookmark first
func (r *GormProjectRepository) ListInterested(ctx context.Context, userID uint64) ([]models.Project, error) {
	var projects []models.Project
	err := r.withDetails(r.db.WithContext(ctx)).
		Joins("JOIN project_interests ON project_interests.project_id = projects.id").
		Where("project_interests.user_id = ?", userID).
		Order("project_interests.created_at DESC").
		Find(&projects).Error
	return projects, err
}

func (r *GormProjectRepository) withDetails(db *gorm.DB) *gorm.DB {
	for _, p := range ProjectDetailPreloads {
		db = db.Preload(p)
	}
	return db
}
