package dto

import "time"

type CreateBlockingRequest struct {
	CreatorID uint      `json:"-"`
	RoomIDs   []uint    `json:"room_ids" binding:"required,min=1"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
	Reason    string    `json:"reason" binding:"required"`
}

type BlockingResponse struct {
	ID           uint                  `json:"id"`
	CreatedBy    uint                  `json:"created_by"`
	StartDate    time.Time             `json:"start_date"`
	EndDate      time.Time             `json:"end_date"`
	Reason       string                `json:"reason"`
	BlockedRooms []BlockedRoomResponse `json:"blocked_rooms"`
	Notified     []OwnerNotification   `json:"notified"`
}

type BlockedRoomResponse struct {
	ID              uint   `json:"id"`
	RoomID          uint   `json:"room_id"`
	RoomName        string `json:"room_name"`
	State           string `json:"state"`
	RejectionReason string `json:"rejection_reason,omitempty"`
	RejectedBy      string `json:"rejected_by,omitempty"`
}

// OwnerNotification describes one queued approval request.
type OwnerNotification struct {
	OwnerID   uint   `json:"owner_id"`
	Email     string `json:"email"`
	MessageID string `json:"message_id"`
	RoomIDs   []uint `json:"room_ids"`
}

type NotifyOwnersResponse struct {
	BlockingID uint                `json:"blocking_id"`
	Notified   []OwnerNotification `json:"notified"`
}

type DecideBlockedRoomRequest struct {
	BlockedRoomID uint   `json:"-"`
	ActorID       uint   `json:"-"`
	Approve       bool   `json:"-"`
	Reason        string `json:"reason"`
}

type DecisionResponse struct {
	BlockedRoom BlockedRoomResponse `json:"blocked_room"`
	BlockingID  uint                `json:"blocking_id"`
	Email       string              `json:"email"`
	MessageID   string              `json:"message_id"`
}
