package room

import (
	"fmt"
	"strings"

	vo "github.com/orris-inc/rbnotify/internal/domain/room/valueobjects"
	"github.com/orris-inc/rbnotify/internal/domain/user"
)

// BlockedRoom links a room to a blocking and carries the owner's decision.
type BlockedRoom struct {
	id              uint
	room            *Room
	blocking        *Blocking
	state           vo.BlockedRoomState
	rejectionReason string
	rejectedBy      string
}

// ReconstructBlockedRoom rebuilds a blocked room from persistence. The
// back-reference to the blocking is set by Blocking.attach.
func ReconstructBlockedRoom(
	id uint,
	room *Room,
	state vo.BlockedRoomState,
	rejectionReason string,
	rejectedBy string,
) (*BlockedRoom, error) {
	if id == 0 {
		return nil, fmt.Errorf("blocked room ID cannot be zero")
	}
	if room == nil {
		return nil, fmt.Errorf("room is required")
	}
	if !state.IsValid() {
		return nil, fmt.Errorf("invalid blocked room state: %s", state)
	}
	return &BlockedRoom{
		id:              id,
		room:            room,
		state:           state,
		rejectionReason: rejectionReason,
		rejectedBy:      rejectedBy,
	}, nil
}

func (br *BlockedRoom) ID() uint {
	return br.id
}

func (br *BlockedRoom) Room() *Room {
	return br.room
}

func (br *BlockedRoom) Blocking() *Blocking {
	return br.blocking
}

func (br *BlockedRoom) State() vo.BlockedRoomState {
	return br.state
}

func (br *BlockedRoom) RejectionReason() string {
	return br.rejectionReason
}

func (br *BlockedRoom) RejectedBy() string {
	return br.rejectedBy
}

func (br *BlockedRoom) SetID(id uint) error {
	if br.id != 0 {
		return fmt.Errorf("blocked room ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("blocked room ID cannot be zero")
	}
	br.id = id
	return nil
}

// Approve accepts the blocking for this room.
func (br *BlockedRoom) Approve() error {
	if !br.state.IsPending() {
		return fmt.Errorf("%w: current state %s", ErrInvalidStateTransition, br.state)
	}
	br.state = vo.StateAccepted
	return nil
}

// Reject refuses the blocking for this room. by is recorded by name so the
// creator sees who decided even if the account later disappears.
func (br *BlockedRoom) Reject(by *user.User, reason string) error {
	if !br.state.IsPending() {
		return fmt.Errorf("%w: current state %s", ErrInvalidStateTransition, br.state)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrRejectionReasonRequired
	}
	br.state = vo.StateRejected
	br.rejectionReason = reason
	if by != nil {
		br.rejectedBy = by.FullName()
	}
	return nil
}
