package room

import (
	"fmt"
	"sort"
	"strings"
	"time"

	vo "github.com/orris-inc/rbnotify/internal/domain/room/valueobjects"
	"github.com/orris-inc/rbnotify/internal/domain/user"
)

// Blocking is a request to keep one or more rooms free of bookings over a
// date range. Each room owner approves or rejects their rooms separately.
type Blocking struct {
	id           uint
	createdBy    *user.User
	startDate    time.Time
	endDate      time.Time
	reason       string
	blockedRooms []*BlockedRoom
	createdAt    time.Time
}

// OwnerRooms is the set of pending blocked rooms managed by one owner.
type OwnerRooms struct {
	Owner        *user.User
	BlockedRooms []*BlockedRoom
}

func NewBlocking(createdBy *user.User, startDate, endDate time.Time, reason string) (*Blocking, error) {
	if createdBy == nil {
		return nil, fmt.Errorf("blocking creator is required")
	}
	if startDate.IsZero() || endDate.IsZero() {
		return nil, fmt.Errorf("start and end dates are required")
	}
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("end date must not be before start date")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("reason is required")
	}

	return &Blocking{
		createdBy:    createdBy,
		startDate:    startDate,
		endDate:      endDate,
		reason:       reason,
		blockedRooms: []*BlockedRoom{},
		createdAt:    time.Now().UTC(),
	}, nil
}

// ReconstructBlocking rebuilds a blocking with its rooms from persistence.
func ReconstructBlocking(
	id uint,
	createdBy *user.User,
	startDate, endDate time.Time,
	reason string,
	createdAt time.Time,
	blockedRooms []*BlockedRoom,
) (*Blocking, error) {
	if id == 0 {
		return nil, fmt.Errorf("blocking ID cannot be zero")
	}
	b, err := NewBlocking(createdBy, startDate, endDate, reason)
	if err != nil {
		return nil, err
	}
	b.id = id
	b.createdAt = createdAt
	for _, br := range blockedRooms {
		b.attach(br)
	}
	return b, nil
}

func (b *Blocking) attach(br *BlockedRoom) {
	br.blocking = b
	b.blockedRooms = append(b.blockedRooms, br)
}

func (b *Blocking) ID() uint {
	return b.id
}

func (b *Blocking) CreatedBy() *user.User {
	return b.createdBy
}

func (b *Blocking) StartDate() time.Time {
	return b.startDate
}

func (b *Blocking) EndDate() time.Time {
	return b.endDate
}

func (b *Blocking) Reason() string {
	return b.reason
}

func (b *Blocking) CreatedAt() time.Time {
	return b.createdAt
}

func (b *Blocking) BlockedRooms() []*BlockedRoom {
	rooms := make([]*BlockedRoom, len(b.blockedRooms))
	copy(rooms, b.blockedRooms)
	return rooms
}

func (b *Blocking) SetID(id uint) error {
	if b.id != 0 {
		return fmt.Errorf("blocking ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("blocking ID cannot be zero")
	}
	b.id = id
	return nil
}

// AddRoom blocks r as part of this blocking. Rooms owned by the creator are
// accepted right away since nobody else has to approve them.
func (b *Blocking) AddRoom(r *Room) (*BlockedRoom, error) {
	if r == nil {
		return nil, fmt.Errorf("room is required")
	}
	for _, existing := range b.blockedRooms {
		if existing.room == r || (r.ID() != 0 && existing.room.ID() == r.ID()) {
			return nil, ErrRoomAlreadyBlocked
		}
	}

	state := vo.StatePending
	if r.IsOwnedBy(b.createdBy) {
		state = vo.StateAccepted
	}

	br := &BlockedRoom{room: r, state: state}
	b.attach(br)
	return br, nil
}

// PendingRoomsByOwner groups the pending blocked rooms by room owner,
// ordered by owner ID and then by email for owners not yet persisted.
func (b *Blocking) PendingRoomsByOwner() []OwnerRooms {
	index := make(map[string]int)
	groups := []OwnerRooms{}

	for _, br := range b.blockedRooms {
		if !br.state.IsPending() {
			continue
		}
		owner := br.room.Owner()
		key := ownerKey(owner)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, OwnerRooms{Owner: owner})
		}
		groups[i].BlockedRooms = append(groups[i].BlockedRooms, br)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a, c := groups[i].Owner, groups[j].Owner
		if a.ID() != c.ID() {
			return a.ID() < c.ID()
		}
		return a.Email() < c.Email()
	})
	return groups
}

func ownerKey(u *user.User) string {
	if u.ID() != 0 {
		return fmt.Sprintf("id:%d", u.ID())
	}
	return "email:" + u.Email()
}

// FindBlockedRoom returns the blocked room with the given ID, or nil.
func (b *Blocking) FindBlockedRoom(id uint) *BlockedRoom {
	for _, br := range b.blockedRooms {
		if br.id == id {
			return br
		}
	}
	return nil
}
