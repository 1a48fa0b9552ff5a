package database

import (
	"fmt"

	applog "github.com/collabhub/collabhub-api/internal/logger"
	"github.com/collabhub/collabhub-api/internal/models"
	"gorm.io/gorm"
)

// AddIndexes adds the composite indexes that struct tags cannot express.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model   interface{}
		name    string
		columns string
	}{
		// listPending and getUserProjectStatus
		{&models.JoinRequest{}, "idx_join_requests_project_status", "project_id, status"},
		{&models.JoinRequest{}, "idx_join_requests_user_status", "user_id, status"},

		// unread count and mark-all-read
		{&models.Notification{}, "idx_notifications_recipient_read", "recipient_id, is_read"},

		// public listing ordered by newest
		{&models.Project{}, "idx_projects_visibility_created", "visibility, created_at"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			continue
		}

		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(idx.model); err != nil {
			return fmt.Errorf("failed to parse model for index %s: %w", idx.name, err)
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, stmt.Schema.Table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		applog.Info().Str("index", idx.name).Str("table", stmt.Schema.Table).Msg("Created index")
	}

	return nil
}

// BackfillPendingMarkers sets pending_user_id on PENDING rows written before
// the column existed. Only the newest row per (project, user) is marked.
func BackfillPendingMarkers(db *gorm.DB) error {
	res := db.Exec(`UPDATE join_requests SET pending_user_id = user_id
		WHERE pending_user_id IS NULL AND id IN (
			SELECT id FROM (
				SELECT MAX(id) AS id FROM join_requests
				WHERE status = ? GROUP BY project_id, user_id
			) latest
		) AND NOT EXISTS (
			SELECT 1 FROM (
				SELECT project_id, user_id FROM join_requests WHERE pending_user_id IS NOT NULL
			) marked
			WHERE marked.project_id = join_requests.project_id AND marked.user_id = join_requests.user_id
		)`, models.JoinRequestPending)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		applog.Info().Int64("rows", res.RowsAffected).Msg("Backfilled pending join request markers")
	}
	return nil
}

// MigrateDatabase runs the steps that follow AutoMigrate
func MigrateDatabase(db *gorm.DB) error {
	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	if err := BackfillPendingMarkers(db); err != nil {
		return fmt.Errorf("failed to backfill pending join requests: %w", err)
	}

	if err := SeedSkills(db); err != nil {
		return fmt.Errorf("failed to seed skills: %w", err)
	}

	return nil
}
