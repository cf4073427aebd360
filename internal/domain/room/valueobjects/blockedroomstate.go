package valueobjects

import "fmt"

// BlockedRoomState is the owner's decision on one room of a blocking.
type BlockedRoomState string

const (
	StatePending  BlockedRoomState = "pending"
	StateAccepted BlockedRoomState = "accepted"
	StateRejected BlockedRoomState = "rejected"
)

var validBlockedRoomStates = map[BlockedRoomState]bool{
	StatePending:  true,
	StateAccepted: true,
	StateRejected: true,
}

func (s BlockedRoomState) String() string {
	return string(s)
}

func (s BlockedRoomState) IsValid() bool {
	return validBlockedRoomStates[s]
}

func (s BlockedRoomState) IsPending() bool {
	return s == StatePending
}

func (s BlockedRoomState) IsAccepted() bool {
	return s == StateAccepted
}

func (s BlockedRoomState) IsRejected() bool {
	return s == StateRejected
}

func NewBlockedRoomState(s string) (BlockedRoomState, error) {
	state := BlockedRoomState(s)
	if !state.IsValid() {
		return "", fmt.Errorf("invalid blocked room state: %s", s)
	}
	return state, nil
}
