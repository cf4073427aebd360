package dto

import "github.com/orris-inc/rbnotify/internal/domain/room"

func ToBlockedRoomResponse(br *room.BlockedRoom) BlockedRoomResponse {
	return BlockedRoomResponse{
		ID:              br.ID(),
		RoomID:          br.Room().ID(),
		RoomName:        br.Room().FullName(),
		State:           br.State().String(),
		RejectionReason: br.RejectionReason(),
		RejectedBy:      br.RejectedBy(),
	}
}

func ToBlockingResponse(b *room.Blocking) *BlockingResponse {
	rooms := make([]BlockedRoomResponse, 0, len(b.BlockedRooms()))
	for _, br := range b.BlockedRooms() {
		rooms = append(rooms, ToBlockedRoomResponse(br))
	}
	return &BlockingResponse{
		ID:           b.ID(),
		CreatedBy:    b.CreatedBy().ID(),
		StartDate:    b.StartDate(),
		EndDate:      b.EndDate(),
		Reason:       b.Reason(),
		BlockedRooms: rooms,
		Notified:     []OwnerNotification{},
	}
}
