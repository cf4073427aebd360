package models

import (
	"time"

	"github.com/orris-inc/rbnotify/internal/shared/constants"
)

type RoomModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:255;not null"`
	Location  string    `gorm:"size:255"`
	OwnerID   uint      `gorm:"not null;index"`
	Owner     UserModel `gorm:"foreignKey:OwnerID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (RoomModel) TableName() string {
	return constants.TableRooms
}
