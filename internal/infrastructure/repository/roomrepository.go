package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/rbnotify/internal/domain/room"
	"github.com/orris-inc/rbnotify/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/rbnotify/internal/infrastructure/persistence/models"
	"github.com/orris-inc/rbnotify/internal/shared/db"
	"github.com/orris-inc/rbnotify/internal/shared/logger"
)

// RoomRepository implements room.RoomRepository with GORM
type RoomRepository struct {
	db     *gorm.DB
	mapper mappers.BlockingMapper
	logger logger.Interface
}

func NewRoomRepository(db *gorm.DB, logger logger.Interface) room.RoomRepository {
	return &RoomRepository{
		db:     db,
		mapper: mappers.NewBlockingMapper(),
		logger: logger,
	}
}

func (r *RoomRepository) Create(ctx context.Context, entity *room.Room) error {
	model := &models.RoomModel{
		Name:     entity.Name(),
		Location: entity.Location(),
		OwnerID:  entity.Owner().ID(),
	}

	if err := db.GetTxFromContext(ctx, r.db).Omit("Owner").Create(model).Error; err != nil {
		r.logger.Errorw("failed to create room", "name", model.Name, "error", err)
		return fmt.Errorf("failed to create room: %w", err)
	}

	if err := entity.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set room ID: %w", err)
	}
	return nil
}

func (r *RoomRepository) GetByID(ctx context.Context, id uint) (*room.Room, error) {
	var model models.RoomModel

	if err := db.GetTxFromContext(ctx, r.db).Preload("Owner").First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get room by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	return r.mapper.RoomToEntity(&model)
}
