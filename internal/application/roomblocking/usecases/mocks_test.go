package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/rbnotify/internal/domain/room"
	"github.com/orris-inc/rbnotify/internal/domain/user"
	uvo "github.com/orris-inc/rbnotify/internal/domain/user/valueobjects"
	"github.com/orris-inc/rbnotify/internal/infrastructure/email"
	"github.com/orris-inc/rbnotify/internal/infrastructure/template"
)

type mockBlockingRepository struct {
	mock.Mock
}

func (m *mockBlockingRepository) Save(ctx context.Context, b *room.Blocking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *mockBlockingRepository) GetByID(ctx context.Context, id uint) (*room.Blocking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*room.Blocking), args.Error(1)
}

func (m *mockBlockingRepository) GetBlockedRoom(ctx context.Context, id uint) (*room.BlockedRoom, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*room.BlockedRoom), args.Error(1)
}

func (m *mockBlockingRepository) UpdateBlockedRoom(ctx context.Context, br *room.BlockedRoom) error {
	args := m.Called(ctx, br)
	return args.Error(0)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, addr string) (*user.User, error) {
	args := m.Called(ctx, addr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

type mockRoomRepository struct {
	mock.Mock
}

func (m *mockRoomRepository) Create(ctx context.Context, r *room.Room) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *mockRoomRepository) GetByID(ctx context.Context, id uint) (*room.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*room.Room), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyRequest(ctx context.Context, owner *user.User, b *room.Blocking, rooms []*room.BlockedRoom) (*email.Message, error) {
	args := m.Called(ctx, owner, b, rooms)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*email.Message), args.Error(1)
}

func (m *mockNotifier) NotifyRequestResponse(ctx context.Context, br *room.BlockedRoom) (*email.Message, error) {
	args := m.Called(ctx, br)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*email.Message), args.Error(1)
}

type mockQueue struct {
	mock.Mock
}

func (m *mockQueue) Enqueue(ctx context.Context, msgs ...*email.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

// fakeTx runs fn inline on the caller's context.
type fakeTx struct {
	calls      int
	rolledBack bool
}

func (f *fakeTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	if err := fn(ctx); err != nil {
		f.rolledBack = true
		return err
	}
	return nil
}

func newUser(t *testing.T, id uint, name, addr, locale string) *user.User {
	t.Helper()
	e, err := uvo.NewEmail(addr)
	require.NoError(t, err)
	u, err := user.ReconstructUser(id, name, e, locale)
	require.NoError(t, err)
	return u
}

func newRoom(t *testing.T, id uint, name string, owner *user.User) *room.Room {
	t.Helper()
	r, err := room.ReconstructRoom(id, name, "Main Building", owner)
	require.NoError(t, err)
	return r
}

func newBlocking(t *testing.T, id uint, creator *user.User, rooms ...*room.Room) *room.Blocking {
	t.Helper()
	start := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)
	b, err := room.ReconstructBlocking(id, creator, start, start.AddDate(0, 0, 1), "Board meeting", start, nil)
	require.NoError(t, err)
	for _, r := range rooms {
		_, err := b.AddRoom(r)
		require.NoError(t, err)
	}
	return b
}

func messageFor(t *testing.T, to string) *email.Message {
	t.Helper()
	m, err := email.MakeEmail(to, &template.Module{Path: "test.txt", Subject: "s", Body: "b\n"})
	require.NoError(t, err)
	return m
}
