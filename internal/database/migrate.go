package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/Egoriy286/yandex-cloud-instance-start/internal/model"
)

// AutoMigrate migrates the database schema.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.AutoStartRecord{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}

	return nil
}
