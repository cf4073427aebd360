package models

import (
	"time"

	"github.com/orris-inc/rbnotify/internal/shared/constants"
)

type UserModel struct {
	ID        uint   `gorm:"primaryKey"`
	FullName  string `gorm:"size:255;not null"`
	Email     string `gorm:"size:255;not null;uniqueIndex"`
	Locale    string `gorm:"size:16"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserModel) TableName() string {
	return constants.TableUsers
}
