package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/rbnotify/internal/application/roomblocking/dto"
	"github.com/orris-inc/rbnotify/internal/domain/room"
	"github.com/orris-inc/rbnotify/internal/domain/user"
	"github.com/orris-inc/rbnotify/internal/shared/errors"
	"github.com/orris-inc/rbnotify/internal/shared/logger"
)

// CreateBlockingUseCase stores a new blocking and asks the owners of its
// rooms for approval.
type CreateBlockingUseCase struct {
	users     user.Repository
	rooms     room.RoomRepository
	blockings room.BlockingRepository
	notify    *NotifyOwnersUseCase
	txMgr     TransactionRunner
	logger    logger.Interface
}

func NewCreateBlockingUseCase(
	users user.Repository,
	rooms room.RoomRepository,
	blockings room.BlockingRepository,
	notify *NotifyOwnersUseCase,
	txMgr TransactionRunner,
	logger logger.Interface,
) *CreateBlockingUseCase {
	return &CreateBlockingUseCase{
		users:     users,
		rooms:     rooms,
		blockings: blockings,
		notify:    notify,
		txMgr:     txMgr,
		logger:    logger,
	}
}

func (uc *CreateBlockingUseCase) Execute(ctx context.Context, req dto.CreateBlockingRequest) (*dto.BlockingResponse, error) {
	uc.logger.Infow("executing create blocking use case", "creator_id", req.CreatorID, "rooms", len(req.RoomIDs))

	creator, err := uc.users.GetByID(ctx, req.CreatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load creator: %w", err)
	}
	if creator == nil {
		return nil, errors.NewNotFoundError("user not found", fmt.Sprintf("id=%d", req.CreatorID))
	}

	blocking, err := room.NewBlocking(creator, req.StartDate, req.EndDate, req.Reason)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	for _, roomID := range req.RoomIDs {
		r, err := uc.rooms.GetByID(ctx, roomID)
		if err != nil {
			return nil, fmt.Errorf("failed to load room %d: %w", roomID, err)
		}
		if r == nil {
			return nil, errors.NewNotFoundError("room not found", fmt.Sprintf("id=%d", roomID))
		}
		if _, err := blocking.AddRoom(r); err != nil {
			return nil, errors.NewConflictError(err.Error()).WithCause(err)
		}
	}

	// Nothing is stored unless every owner's email was queued.
	var notified []dto.OwnerNotification
	txErr := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.blockings.Save(txCtx, blocking); err != nil {
			uc.logger.Errorw("failed to save blocking", "creator_id", req.CreatorID, "error", err)
			return fmt.Errorf("failed to save blocking: %w", err)
		}

		var err error
		notified, err = uc.notify.notify(txCtx, blocking)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := dto.ToBlockingResponse(blocking)
	resp.Notified = notified

	uc.logger.Infow("blocking created", "blocking_id", blocking.ID(), "notified_owners", len(notified))
	return resp, nil
}
