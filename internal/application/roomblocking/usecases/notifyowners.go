package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/rbnotify/internal/application/roomblocking/dto"
	"github.com/orris-inc/rbnotify/internal/domain/room"
	"github.com/orris-inc/rbnotify/internal/infrastructure/email"
	"github.com/orris-inc/rbnotify/internal/shared/errors"
	"github.com/orris-inc/rbnotify/internal/shared/logger"
)

// NotifyOwnersUseCase asks every owner with pending rooms in a blocking to
// approve them. Each owner gets one email listing only their own rooms.
type NotifyOwnersUseCase struct {
	blockings room.BlockingRepository
	notifier  BlockingNotifier
	queue     MessageQueue
	logger    logger.Interface
}

func NewNotifyOwnersUseCase(
	blockings room.BlockingRepository,
	notifier BlockingNotifier,
	queue MessageQueue,
	logger logger.Interface,
) *NotifyOwnersUseCase {
	return &NotifyOwnersUseCase{
		blockings: blockings,
		notifier:  notifier,
		queue:     queue,
		logger:    logger,
	}
}

func (uc *NotifyOwnersUseCase) Execute(ctx context.Context, blockingID uint) (*dto.NotifyOwnersResponse, error) {
	uc.logger.Infow("executing notify owners use case", "blocking_id", blockingID)

	blocking, err := uc.load(ctx, blockingID)
	if err != nil {
		return nil, err
	}
	return uc.respond(ctx, blocking)
}

// ExecuteAs is Execute on behalf of an authenticated user, who must be the
// creator of the blocking.
func (uc *NotifyOwnersUseCase) ExecuteAs(ctx context.Context, blockingID, userID uint) (*dto.NotifyOwnersResponse, error) {
	uc.logger.Infow("executing notify owners use case", "blocking_id", blockingID, "user_id", userID)

	blocking, err := uc.load(ctx, blockingID)
	if err != nil {
		return nil, err
	}
	if blocking.CreatedBy().ID() != userID {
		uc.logger.Warnw("notify owners denied", "blocking_id", blockingID, "user_id", userID)
		return nil, errors.NewForbiddenError("only the creator of the blocking can notify room owners")
	}
	return uc.respond(ctx, blocking)
}

func (uc *NotifyOwnersUseCase) load(ctx context.Context, blockingID uint) (*room.Blocking, error) {
	blocking, err := uc.blockings.GetByID(ctx, blockingID)
	if err != nil {
		uc.logger.Errorw("failed to load blocking", "blocking_id", blockingID, "error", err)
		return nil, fmt.Errorf("failed to load blocking: %w", err)
	}
	if blocking == nil {
		return nil, errors.NewNotFoundError("blocking not found").WithCause(room.ErrBlockingNotFound)
	}
	return blocking, nil
}

func (uc *NotifyOwnersUseCase) respond(ctx context.Context, blocking *room.Blocking) (*dto.NotifyOwnersResponse, error) {
	notified, err := uc.notify(ctx, blocking)
	if err != nil {
		return nil, err
	}
	return &dto.NotifyOwnersResponse{BlockingID: blocking.ID(), Notified: notified}, nil
}

// notify builds one message per owner and queues them together, so a
// rendering failure for one owner queues nothing.
func (uc *NotifyOwnersUseCase) notify(ctx context.Context, blocking *room.Blocking) ([]dto.OwnerNotification, error) {
	groups := blocking.PendingRoomsByOwner()
	notified := make([]dto.OwnerNotification, 0, len(groups))
	if len(groups) == 0 {
		uc.logger.Infow("no pending rooms to notify", "blocking_id", blocking.ID())
		return notified, nil
	}

	msgs := make([]*email.Message, 0, len(groups))
	for _, g := range groups {
		msg, err := uc.notifier.NotifyRequest(ctx, g.Owner, blocking, g.BlockedRooms)
		if err != nil {
			uc.logger.Errorw("failed to build blocking request",
				"blocking_id", blocking.ID(),
				"owner_id", g.Owner.ID(),
				"error", err,
			)
			return nil, fmt.Errorf("failed to notify owner %d: %w", g.Owner.ID(), err)
		}
		msgs = append(msgs, msg)

		roomIDs := make([]uint, 0, len(g.BlockedRooms))
		for _, br := range g.BlockedRooms {
			roomIDs = append(roomIDs, br.Room().ID())
		}
		notified = append(notified, dto.OwnerNotification{
			OwnerID:   g.Owner.ID(),
			Email:     g.Owner.Email(),
			MessageID: msg.ID,
			RoomIDs:   roomIDs,
		})
	}

	if err := uc.queue.Enqueue(ctx, msgs...); err != nil {
		uc.logger.Errorw("failed to queue blocking requests", "blocking_id", blocking.ID(), "error", err)
		return nil, fmt.Errorf("failed to queue notifications: %w", err)
	}

	uc.logger.Infow("blocking owners notified", "blocking_id", blocking.ID(), "owners", len(notified))
	return notified, nil
}
