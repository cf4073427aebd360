package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/rbnotify/internal/domain/room"
	vo "github.com/orris-inc/rbnotify/internal/domain/room/valueobjects"
	"github.com/orris-inc/rbnotify/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/rbnotify/internal/infrastructure/persistence/models"
	"github.com/orris-inc/rbnotify/internal/shared/db"
	"github.com/orris-inc/rbnotify/internal/shared/logger"
)

// BlockingRepository implements room.BlockingRepository with GORM
type BlockingRepository struct {
	db     *gorm.DB
	mapper mappers.BlockingMapper
	logger logger.Interface
}

func NewBlockingRepository(db *gorm.DB, logger logger.Interface) room.BlockingRepository {
	return &BlockingRepository{
		db:     db,
		mapper: mappers.NewBlockingMapper(),
		logger: logger,
	}
}

// Save inserts a new blocking with its blocked rooms, or updates the decision
// fields of an existing one.
func (r *BlockingRepository) Save(ctx context.Context, entity *room.Blocking) error {
	model := r.mapper.ToModel(entity)

	err := db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if model.ID == 0 {
			if err := tx.Omit("CreatedBy", "BlockedRooms").Create(model).Error; err != nil {
				return fmt.Errorf("failed to create blocking: %w", err)
			}
			if err := entity.SetID(model.ID); err != nil {
				return err
			}
		} else {
			if err := tx.Model(&models.BlockingModel{}).Where("id = ?", model.ID).Updates(map[string]any{
				"start_date": model.StartDate,
				"end_date":   model.EndDate,
				"reason":     model.Reason,
			}).Error; err != nil {
				return fmt.Errorf("failed to update blocking: %w", err)
			}
		}

		for _, br := range entity.BlockedRooms() {
			brModel := r.mapper.BlockedRoomToModel(br)
			if brModel.ID != 0 {
				if err := r.updateBlockedRoom(tx, brModel); err != nil {
					return err
				}
				continue
			}
			if err := tx.Omit("Room").Create(brModel).Error; err != nil {
				return fmt.Errorf("failed to create blocked room: %w", err)
			}
			if err := br.SetID(brModel.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Errorw("failed to save blocking", "id", model.ID, "error", err)
		return err
	}

	r.logger.Infow("blocking saved", "id", entity.ID(), "rooms", len(entity.BlockedRooms()))
	return nil
}

func (r *BlockingRepository) GetByID(ctx context.Context, id uint) (*room.Blocking, error) {
	var model models.BlockingModel

	err := db.GetTxFromContext(ctx, r.db).
		Preload("CreatedBy").
		Preload("BlockedRooms", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("BlockedRooms.Room.Owner").
		First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get blocking by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get blocking: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *BlockingRepository) GetBlockedRoom(ctx context.Context, blockedRoomID uint) (*room.BlockedRoom, error) {
	var brModel models.BlockedRoomModel

	if err := db.GetTxFromContext(ctx, r.db).Select("id", "blocking_id").First(&brModel, blockedRoomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get blocked room by ID", "id", blockedRoomID, "error", err)
		return nil, fmt.Errorf("failed to get blocked room: %w", err)
	}

	blocking, err := r.GetByID(ctx, brModel.BlockingID)
	if err != nil {
		return nil, err
	}
	if blocking == nil {
		return nil, nil
	}
	return blocking.FindBlockedRoom(blockedRoomID), nil
}

// UpdateBlockedRoom stores the decision taken on a blocked room. The row is
// only written while it is still pending, so of two concurrent decisions the
// second fails with room.ErrInvalidStateTransition.
func (r *BlockingRepository) UpdateBlockedRoom(ctx context.Context, entity *room.BlockedRoom) error {
	tx := db.GetTxFromContext(ctx, r.db)
	model := r.mapper.BlockedRoomToModel(entity)

	result := tx.Model(&models.BlockedRoomModel{}).
		Where("id = ? AND state = ?", model.ID, vo.StatePending.String()).
		Updates(map[string]any{
			"state":            model.State,
			"rejection_reason": model.RejectionReason,
			"rejected_by":      model.RejectedBy,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update blocked room", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update blocked room: %w", result.Error)
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var stored models.BlockedRoomModel
	if err := tx.Select("id", "state").First(&stored, model.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: id %d", room.ErrBlockedRoomNotFound, model.ID)
		}
		return fmt.Errorf("failed to reload blocked room: %w", err)
	}
	r.logger.Warnw("blocked room already decided", "id", model.ID, "state", stored.State)
	return fmt.Errorf("%w: current state %s", room.ErrInvalidStateTransition, stored.State)
}

func (r *BlockingRepository) updateBlockedRoom(tx *gorm.DB, model *models.BlockedRoomModel) error {
	result := tx.Model(&models.BlockedRoomModel{}).Where("id = ?", model.ID).Updates(map[string]any{
		"state":            model.State,
		"rejection_reason": model.RejectionReason,
		"rejected_by":      model.RejectedBy,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update blocked room: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", room.ErrBlockedRoomNotFound, model.ID)
	}
	return nil
}
