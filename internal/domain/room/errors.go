package room

import "errors"

var (
	ErrInvalidStateTransition  = errors.New("blocked room is not pending")
	ErrRejectionReasonRequired = errors.New("rejection reason is required")
	ErrNotOwner                = errors.New("user does not own the room")
	ErrRoomAlreadyBlocked      = errors.New("room is already part of the blocking")
	ErrBlockingNotFound        = errors.New("blocking not found")
	ErrBlockedRoomNotFound     = errors.New("blocked room not found")
)
