package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/rbnotify/internal/domain/room"
	"github.com/orris-inc/rbnotify/internal/infrastructure/email"
	apperrors "github.com/orris-inc/rbnotify/internal/shared/errors"
	"github.com/orris-inc/rbnotify/internal/shared/logger"
)

func TestNotifyOwnersUseCase_OneMessagePerOwner(t *testing.T) {
	ctx := context.Background()
	creator := newUser(t, 1, "Ada Lovelace", "ada@example.org", "en")
	marie := newUser(t, 2, "Marie Curie", "marie@example.org", "fr")
	emmy := newUser(t, 3, "Emmy Noether", "emmy@example.org", "de")

	r1, r2, r3, own := newRoom(t, 10, "R1", marie), newRoom(t, 11, "R2", emmy), newRoom(t, 12, "R3", marie), newRoom(t, 13, "Own", creator)
	b := newBlocking(t, 5, creator, r1, r2, r3, own)
	brs := b.BlockedRooms()

	repo := new(mockBlockingRepository)
	repo.On("GetByID", ctx, uint(5)).Return(b, nil)

	marieMsg, emmyMsg := messageFor(t, "marie@example.org"), messageFor(t, "emmy@example.org")
	notifier := new(mockNotifier)
	notifier.On("NotifyRequest", ctx, marie, b, []*room.BlockedRoom{brs[0], brs[2]}).Return(marieMsg, nil).Once()
	notifier.On("NotifyRequest", ctx, emmy, b, []*room.BlockedRoom{brs[1]}).Return(emmyMsg, nil).Once()

	queue := new(mockQueue)
	queue.On("Enqueue", ctx, []*email.Message{marieMsg, emmyMsg}).Return(nil).Once()

	uc := NewNotifyOwnersUseCase(repo, notifier, queue, logger.NewNop())
	resp, err := uc.Execute(ctx, 5)

	require.NoError(t, err)
	assert.Equal(t, uint(5), resp.BlockingID)
	require.Len(t, resp.Notified, 2)
	assert.Equal(t, uint(2), resp.Notified[0].OwnerID)
	assert.Equal(t, []uint{10, 12}, resp.Notified[0].RoomIDs)
	assert.Equal(t, marieMsg.ID, resp.Notified[0].MessageID)
	assert.Equal(t, "emmy@example.org", resp.Notified[1].Email)
	notifier.AssertExpectations(t)
	queue.AssertExpectations(t)
}

func TestNotifyOwnersUseCase_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(mockBlockingRepository)
	repo.On("GetByID", ctx, uint(99)).Return(nil, nil)

	uc := NewNotifyOwnersUseCase(repo, new(mockNotifier), new(mockQueue), logger.NewNop())
	_, err := uc.Execute(ctx, 99)

	assert.True(t, apperrors.IsNotFoundError(err))
	assert.ErrorIs(t, err, room.ErrBlockingNotFound)
}

func TestNotifyOwnersUseCase_ExecuteAs(t *testing.T) {
	ctx := context.Background()
	creator := newUser(t, 1, "Ada Lovelace", "ada@example.org", "en")
	marie := newUser(t, 2, "Marie Curie", "marie@example.org", "fr")
	b := newBlocking(t, 5, creator, newRoom(t, 10, "R1", marie))

	t.Run("other user is forbidden", func(t *testing.T) {
		repo := new(mockBlockingRepository)
		repo.On("GetByID", ctx, uint(5)).Return(b, nil)
		notifier, queue := new(mockNotifier), new(mockQueue)

		_, err := NewNotifyOwnersUseCase(repo, notifier, queue, logger.NewNop()).ExecuteAs(ctx, 5, marie.ID())

		assert.True(t, apperrors.IsForbiddenError(err))
		notifier.AssertNotCalled(t, "NotifyRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		queue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
	})

	t.Run("creator notifies", func(t *testing.T) {
		repo := new(mockBlockingRepository)
		repo.On("GetByID", ctx, uint(5)).Return(b, nil)
		msg := messageFor(t, "marie@example.org")
		notifier := new(mockNotifier)
		notifier.On("NotifyRequest", ctx, marie, b, b.BlockedRooms()).Return(msg, nil).Once()
		queue := new(mockQueue)
		queue.On("Enqueue", ctx, []*email.Message{msg}).Return(nil).Once()

		resp, err := NewNotifyOwnersUseCase(repo, notifier, queue, logger.NewNop()).ExecuteAs(ctx, 5, creator.ID())

		require.NoError(t, err)
		require.Len(t, resp.Notified, 1)
		assert.Equal(t, msg.ID, resp.Notified[0].MessageID)
		queue.AssertExpectations(t)
	})
}

func TestNotifyOwnersUseCase_NothingPending(t *testing.T) {
	ctx := context.Background()
	creator := newUser(t, 1, "Ada Lovelace", "ada@example.org", "en")
	b := newBlocking(t, 5, creator, newRoom(t, 10, "Own", creator))

	repo := new(mockBlockingRepository)
	repo.On("GetByID", ctx, uint(5)).Return(b, nil)
	notifier, queue := new(mockNotifier), new(mockQueue)

	resp, err := NewNotifyOwnersUseCase(repo, notifier, queue, logger.NewNop()).Execute(ctx, 5)

	require.NoError(t, err)
	assert.Empty(t, resp.Notified)
	notifier.AssertNotCalled(t, "NotifyRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	queue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
}

func TestNotifyOwnersUseCase_RenderFailureQueuesNothing(t *testing.T) {
	ctx := context.Background()
	creator := newUser(t, 1, "Ada Lovelace", "ada@example.org", "en")
	marie := newUser(t, 2, "Marie Curie", "marie@example.org", "fr")
	b := newBlocking(t, 5, creator, newRoom(t, 10, "R1", marie))

	repo := new(mockBlockingRepository)
	repo.On("GetByID", ctx, uint(5)).Return(b, nil)
	renderErr := errors.New("bad template")
	notifier := new(mockNotifier)
	notifier.On("NotifyRequest", ctx, marie, b, mock.Anything).Return(nil, renderErr)
	queue := new(mockQueue)

	_, err := NewNotifyOwnersUseCase(repo, notifier, queue, logger.NewNop()).Execute(ctx, 5)

	assert.ErrorIs(t, err, renderErr)
	queue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
}
