// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"

	"github.com/collabhub/collabhub-api/internal/database"
	"github.com/collabhub/collabhub-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a migrated in-memory SQLite database and registers it as
// the package-level database. The pool is pinned to one connection because
// every new ":memory:" connection is a separate empty database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(database.AllModels()...))
	require.NoError(t, database.MigrateDatabase(db))

	database.SetDB(db)

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

// CreateUser inserts a user with a placeholder password hash.
func CreateUser(t *testing.T, db *gorm.DB, email, first, last string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "hashedpassword",
		FirstName:    first,
		LastName:     last,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateProject inserts a public project together with its owner membership.
func CreateProject(t *testing.T, db *gorm.DB, owner *models.User, title string, maxTeamSize int) *models.Project {
	t.Helper()
	project := &models.Project{
		OwnerID:     owner.ID,
		Title:       title,
		Description: title + " description",
		MaxTeamSize: maxTeamSize,
		Status:      models.ProjectStatusRecruiting,
		Visibility:  models.VisibilityPublic,
	}
	require.NoError(t, db.Omit("Owner", "Skills", "Tasks", "Members").Create(project).Error)
	require.NoError(t, db.Omit("Project", "User").Create(&models.ProjectMember{
		ProjectID: project.ID,
		UserID:    owner.ID,
		Role:      models.RoleOwner,
	}).Error)
	return project
}

// AddMember inserts a plain membership row.
func AddMember(t *testing.T, db *gorm.DB, projectID, userID uint64) {
	t.Helper()
	require.NoError(t, db.Omit("Project", "User").Create(&models.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		Role:      models.RoleMember,
	}).Error)
}
