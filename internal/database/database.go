package database

import (
	"fmt"

	"github.com/collabhub/collabhub-api/internal/config"
	applog "github.com/collabhub/collabhub-api/internal/logger"
	"github.com/collabhub/collabhub-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect opens the database selected by cfg.Database.Driver.
func Connect(cfg *config.Config) error {
	dialector, err := dialectorFor(cfg.Database)
	if err != nil {
		return err
	}

	logLevel := logger.Warn
	if cfg.Server.GinMode == "debug" {
		logLevel = logger.Info
	}

	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Database.Driver == "sqlite" {
		// sqlite needs this for ON DELETE CASCADE and FK checks
		if err := DB.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return fmt.Errorf("failed to enable sqlite foreign keys: %w", err)
		}
	}

	applog.Info().Str("driver", cfg.Database.Driver).Msg("Database connection established")
	return nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.Name,
		)
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			cfg.Host,
			cfg.Port,
			cfg.User,
			cfg.Password,
			cfg.Name,
		)
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(cfg.Path), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

// AllModels lists every table owned by the API, in dependency order.
func AllModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Skill{},
		&models.Project{},
		&models.ProjectTask{},
		&models.ProjectMember{},
		&models.JoinRequest{},
		&models.JoinRequestEvent{},
		&models.ProjectInterest{},
		&models.Notification{},
		&models.RefreshToken{},
	}
}

func Migrate() error {
	applog.Info().Msg("Running database migrations...")
	if err := DB.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := MigrateDatabase(DB); err != nil {
		return err
	}
	applog.Info().Msg("Database migrations completed")
	return nil
}

func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (used for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
