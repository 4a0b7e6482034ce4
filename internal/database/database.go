package database

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/automeet/automeet/backend/internal/config"
	"github.com/automeet/automeet/backend/internal/models"
)

// Connect opens a database handle for the configured engine.
func Connect(cfg config.Config) (*gorm.DB, error) {
	switch cfg.DBEngine {
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("open sqlite database: %w", err)
		}
		return db, nil
	case "mysql":
		db, err := gorm.Open(mysql.Open(cfg.MySQLDSN()), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("open mysql database: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database engine %q", cfg.DBEngine)
	}
}

// Migrate applies automatic migrations for every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.NotificationSetting{},
		&models.Role{},
		&models.Permission{},
		&models.RolePermission{},
		&models.UserRole{},
		&models.TeamRole{},
		&models.TeamInvite{},
		&models.Meeting{},
		&models.VerificationCode{},
		&models.ActivityLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
