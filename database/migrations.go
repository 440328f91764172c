package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"bod/models"
)

func RunMigrations(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")

	err := db.AutoMigrate(
		&models.User{},
		&models.ContactMessage{},
		&models.SiteSetting{},
		&models.Service{},
		&models.Article{},
		&models.WorkItem{},
		&models.DigitalSolution{},
		&models.PageVisit{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	log.Info("migrations completed")
	return nil
}
