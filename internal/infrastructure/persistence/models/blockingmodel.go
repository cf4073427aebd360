package models

import (
	"time"

	"github.com/orris-inc/rbnotify/internal/shared/constants"
)

type BlockingModel struct {
	ID           uint               `gorm:"primaryKey"`
	CreatedByID  uint               `gorm:"not null;index"`
	CreatedBy    UserModel          `gorm:"foreignKey:CreatedByID"`
	StartDate    time.Time          `gorm:"not null"`
	EndDate      time.Time          `gorm:"not null"`
	Reason       string             `gorm:"type:text;not null"`
	BlockedRooms []BlockedRoomModel `gorm:"foreignKey:BlockingID"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (BlockingModel) TableName() string {
	return constants.TableBlockings
}

type BlockedRoomModel struct {
	ID              uint      `gorm:"primaryKey"`
	BlockingID      uint      `gorm:"not null;uniqueIndex:idx_blocking_room"`
	RoomID          uint      `gorm:"not null;uniqueIndex:idx_blocking_room"`
	Room            RoomModel `gorm:"foreignKey:RoomID"`
	State           string    `gorm:"size:16;not null;index"`
	RejectionReason string    `gorm:"type:text"`
	RejectedBy      string    `gorm:"size:255"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (BlockedRoomModel) TableName() string {
	return constants.TableBlockedRooms
}
