package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/rbnotify/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.UserModel{},
		&models.RoomModel{},
		&models.BlockingModel{},
		&models.BlockedRoomModel{},
	}
}

// GormAutoMigrateStrategy derives the schema from the persistence models.
// Used for throwaway databases such as tests.
type GormAutoMigrateStrategy struct{}

func NewGormAutoMigrateStrategy() Strategy {
	return &GormAutoMigrateStrategy{}
}

func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AutoMigrateModels()...); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	return nil
}

func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}
