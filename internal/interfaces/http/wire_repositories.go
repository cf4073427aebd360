package http

import (
	"github.com/orris-inc/rbnotify/internal/domain/room"
	"github.com/orris-inc/rbnotify/internal/domain/user"
	"github.com/orris-inc/rbnotify/internal/infrastructure/repository"
)

// repositories holds all repository instances used by the application.
// Types match the return types of the repository constructors.
type repositories struct {
	userRepo     user.Repository
	roomRepo     room.RoomRepository
	blockingRepo room.BlockingRepository
}

func (c *Container) initRepositories() {
	c.repos = &repositories{
		userRepo:     repository.NewUserRepository(c.db, c.log),
		roomRepo:     repository.NewRoomRepository(c.db, c.log),
		blockingRepo: repository.NewBlockingRepository(c.db, c.log),
	}
}
