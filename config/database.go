package config

import (
	"fmt"
	"log"

	"imex-website/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB connects to MySQL, migrates the schema and seeds lookup rows.
func InitDB(cfg *Config) (*gorm.DB, error) {
	// In production, suppress SQL logs unless explicitly re-enabled via DEBUG_SQL=true.
	logLevel := logger.Info
	if cfg.App.IsProduction() && !cfg.Database.DebugSQL {
		logLevel = logger.Warn
	}

	gormConfig := &gorm.Config{
		Logger: logger.New(
			log.New(LogWriter, "\r\n", log.LstdFlags),
			logger.Config{LogLevel: logLevel},
		),
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	DB = db
	Log.Info("Database connected successfully")
	return db, nil
}

// Migrate creates or updates the schema and seeds the classifications.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Classification{},
		&models.Message{},
		&models.Job{},
		&models.Application{},
		&models.CV{},
		&models.Project{},
		&models.Picture{},
		&models.Policy{},
		&models.User{},
		&models.UserToken{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	classifications := []models.Classification{
		{ClassificationID: models.ClassificationRead, Name: "Read"},
		{ClassificationID: models.ClassificationUnread, Name: "Unread"},
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&classifications).Error; err != nil {
		return fmt.Errorf("failed to seed classifications: %w", err)
	}
	return nil
}
