package room

import "context"

// RoomRepository stores rooms with their owner. GetByID returns nil, nil
// when the room does not exist.
type RoomRepository interface {
	Create(ctx context.Context, room *Room) error
	GetByID(ctx context.Context, id uint) (*Room, error)
}

// BlockingRepository loads and stores blockings together with their rooms,
// room owners and creators. Getters return nil, nil when nothing matches.
type BlockingRepository interface {
	Save(ctx context.Context, blocking *Blocking) error
	GetByID(ctx context.Context, id uint) (*Blocking, error)
	// GetBlockedRoom loads the blocked room with its parent blocking attached.
	GetBlockedRoom(ctx context.Context, blockedRoomID uint) (*BlockedRoom, error)
	// UpdateBlockedRoom records a decision. It fails with
	// ErrInvalidStateTransition when the stored row is no longer pending.
	UpdateBlockedRoom(ctx context.Context, blockedRoom *BlockedRoom) error
}
