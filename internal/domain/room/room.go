package room

import (
	"fmt"
	"strings"

	"github.com/orris-inc/rbnotify/internal/domain/user"
)

// Room is a bookable room managed by a single owner.
type Room struct {
	id       uint
	name     string
	location string
	owner    *user.User
}

func NewRoom(name, location string, owner *user.User) (*Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("room name is required")
	}
	if owner == nil {
		return nil, fmt.Errorf("room owner is required")
	}
	return &Room{
		name:     name,
		location: strings.TrimSpace(location),
		owner:    owner,
	}, nil
}

// ReconstructRoom rebuilds a room from persistence
func ReconstructRoom(id uint, name, location string, owner *user.User) (*Room, error) {
	if id == 0 {
		return nil, fmt.Errorf("room ID cannot be zero")
	}
	r, err := NewRoom(name, location, owner)
	if err != nil {
		return nil, err
	}
	r.id = id
	return r, nil
}

func (r *Room) ID() uint {
	return r.id
}

func (r *Room) SetID(id uint) error {
	if r.id != 0 {
		return fmt.Errorf("room ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("room ID cannot be zero")
	}
	r.id = id
	return nil
}

func (r *Room) Name() string {
	return r.name
}

func (r *Room) Location() string {
	return r.location
}

func (r *Room) Owner() *user.User {
	return r.owner
}

// FullName is the display name used in emails, "Location: Name".
func (r *Room) FullName() string {
	if r.location == "" {
		return r.name
	}
	return r.location + ": " + r.name
}

// IsOwnedBy reports whether u manages the room.
func (r *Room) IsOwnedBy(u *user.User) bool {
	if u == nil || r.owner == nil {
		return false
	}
	if r.owner == u {
		return true
	}
	return r.owner.ID() != 0 && r.owner.ID() == u.ID()
}
