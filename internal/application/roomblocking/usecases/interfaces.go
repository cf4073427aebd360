package usecases

import (
	"context"

	"github.com/orris-inc/rbnotify/internal/domain/room"
	"github.com/orris-inc/rbnotify/internal/domain/user"
	"github.com/orris-inc/rbnotify/internal/infrastructure/email"
)

// BlockingNotifier builds the room blocking emails.
type BlockingNotifier interface {
	NotifyRequest(ctx context.Context, owner *user.User, blocking *room.Blocking, blockedRooms []*room.BlockedRoom) (*email.Message, error)
	NotifyRequestResponse(ctx context.Context, blockedRoom *room.BlockedRoom) (*email.Message, error)
}

// MessageQueue accepts built messages for later delivery.
type MessageQueue interface {
	Enqueue(ctx context.Context, msgs ...*email.Message) error
}

// TransactionRunner runs fn in a database transaction carried on the context
// passed to fn.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
