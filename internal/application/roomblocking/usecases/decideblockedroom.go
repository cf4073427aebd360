package usecases

import (
	"context"
	goerrors "errors"
	"fmt"

	"github.com/orris-inc/rbnotify/internal/application/roomblocking/dto"
	"github.com/orris-inc/rbnotify/internal/domain/room"
	"github.com/orris-inc/rbnotify/internal/domain/user"
	"github.com/orris-inc/rbnotify/internal/infrastructure/email"
	"github.com/orris-inc/rbnotify/internal/shared/errors"
	"github.com/orris-inc/rbnotify/internal/shared/logger"
)

// DecideBlockedRoomUseCase records a room owner's answer to a blocking and
// tells the blocking creator about it.
type DecideBlockedRoomUseCase struct {
	users     user.Repository
	blockings room.BlockingRepository
	notifier  BlockingNotifier
	queue     MessageQueue
	txMgr     TransactionRunner
	logger    logger.Interface
}

func NewDecideBlockedRoomUseCase(
	users user.Repository,
	blockings room.BlockingRepository,
	notifier BlockingNotifier,
	queue MessageQueue,
	txMgr TransactionRunner,
	logger logger.Interface,
) *DecideBlockedRoomUseCase {
	return &DecideBlockedRoomUseCase{
		users:     users,
		blockings: blockings,
		notifier:  notifier,
		queue:     queue,
		txMgr:     txMgr,
		logger:    logger,
	}
}

func (uc *DecideBlockedRoomUseCase) Execute(ctx context.Context, req dto.DecideBlockedRoomRequest) (*dto.DecisionResponse, error) {
	uc.logger.Infow("executing decide blocked room use case",
		"blocked_room_id", req.BlockedRoomID,
		"actor_id", req.ActorID,
		"approve", req.Approve,
	)

	br, err := uc.blockings.GetBlockedRoom(ctx, req.BlockedRoomID)
	if err != nil {
		uc.logger.Errorw("failed to load blocked room", "blocked_room_id", req.BlockedRoomID, "error", err)
		return nil, fmt.Errorf("failed to load blocked room: %w", err)
	}
	if br == nil {
		return nil, errors.NewNotFoundError("blocked room not found").WithCause(room.ErrBlockedRoomNotFound)
	}

	actor, err := uc.users.GetByID(ctx, req.ActorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load actor: %w", err)
	}
	if actor == nil {
		return nil, errors.NewNotFoundError("user not found", fmt.Sprintf("id=%d", req.ActorID))
	}

	if !br.Room().IsOwnedBy(actor) {
		uc.logger.Warnw("decision by non-owner refused", "blocked_room_id", br.ID(), "actor_id", actor.ID())
		return nil, errors.NewForbiddenError("only the room owner can decide on a blocking").WithCause(room.ErrNotOwner)
	}

	if req.Approve {
		err = br.Approve()
	} else {
		err = br.Reject(actor, req.Reason)
	}
	if err != nil {
		return nil, decisionError(err)
	}

	// The decision is only kept if the creator's email could be queued.
	var msg *email.Message
	txErr := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.blockings.UpdateBlockedRoom(txCtx, br); err != nil {
			uc.logger.Errorw("failed to update blocked room", "blocked_room_id", br.ID(), "error", err)
			return fmt.Errorf("failed to update blocked room: %w", err)
		}

		var err error
		msg, err = uc.notifier.NotifyRequestResponse(txCtx, br)
		if err != nil {
			uc.logger.Errorw("failed to build blocking response", "blocked_room_id", br.ID(), "error", err)
			return fmt.Errorf("failed to notify blocking creator: %w", err)
		}
		if err := uc.queue.Enqueue(txCtx, msg); err != nil {
			uc.logger.Errorw("failed to queue blocking response", "blocked_room_id", br.ID(), "error", err)
			return fmt.Errorf("failed to queue notification: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return nil, decisionError(txErr)
	}

	uc.logger.Infow("blocked room decided",
		"blocked_room_id", br.ID(),
		"state", br.State().String(),
		"message_id", msg.ID,
	)

	return &dto.DecisionResponse{
		BlockedRoom: dto.ToBlockedRoomResponse(br),
		BlockingID:  br.Blocking().ID(),
		Email:       msg.To[0],
		MessageID:   msg.ID,
	}, nil
}

func decisionError(err error) error {
	switch {
	case goerrors.Is(err, room.ErrRejectionReasonRequired):
		return errors.NewValidationError("a reason is required to reject a blocking").WithCause(err)
	case goerrors.Is(err, room.ErrInvalidStateTransition):
		return errors.NewConflictError("blocked room has already been decided").WithCause(err)
	default:
		return err
	}
}
