package mappers

import (
	"fmt"

	"github.com/orris-inc/rbnotify/internal/domain/room"
	vo "github.com/orris-inc/rbnotify/internal/domain/room/valueobjects"
	"github.com/orris-inc/rbnotify/internal/domain/user"
	"github.com/orris-inc/rbnotify/internal/infrastructure/persistence/models"
)

// BlockingMapper converts blockings and their rooms. Users referenced more
// than once in a single conversion map to the same entity.
type BlockingMapper interface {
	ToEntity(model *models.BlockingModel) (*room.Blocking, error)
	ToModel(entity *room.Blocking) *models.BlockingModel
	RoomToEntity(model *models.RoomModel) (*room.Room, error)
	BlockedRoomToModel(entity *room.BlockedRoom) *models.BlockedRoomModel
}

type BlockingMapperImpl struct {
	users UserMapper
}

func NewBlockingMapper() BlockingMapper {
	return &BlockingMapperImpl{users: NewUserMapper()}
}

type userCache struct {
	mapper UserMapper
	byID   map[uint]*user.User
}

func (c *userCache) get(model *models.UserModel) (*user.User, error) {
	if u, ok := c.byID[model.ID]; ok {
		return u, nil
	}
	u, err := c.mapper.ToEntity(model)
	if err != nil {
		return nil, err
	}
	c.byID[model.ID] = u
	return u, nil
}

func (m *BlockingMapperImpl) newCache() *userCache {
	return &userCache{mapper: m.users, byID: make(map[uint]*user.User)}
}

func (m *BlockingMapperImpl) ToEntity(model *models.BlockingModel) (*room.Blocking, error) {
	if model == nil {
		return nil, nil
	}
	cache := m.newCache()

	creator, err := cache.get(&model.CreatedBy)
	if err != nil {
		return nil, err
	}

	blockedRooms := make([]*room.BlockedRoom, 0, len(model.BlockedRooms))
	for i := range model.BlockedRooms {
		brModel := &model.BlockedRooms[i]
		r, err := m.roomToEntity(&brModel.Room, cache)
		if err != nil {
			return nil, err
		}
		br, err := room.ReconstructBlockedRoom(
			brModel.ID,
			r,
			vo.BlockedRoomState(brModel.State),
			brModel.RejectionReason,
			brModel.RejectedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to reconstruct blocked room %d: %w", brModel.ID, err)
		}
		blockedRooms = append(blockedRooms, br)
	}

	entity, err := room.ReconstructBlocking(
		model.ID,
		creator,
		model.StartDate,
		model.EndDate,
		model.Reason,
		model.CreatedAt,
		blockedRooms,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct blocking entity: %w", err)
	}
	return entity, nil
}

func (m *BlockingMapperImpl) RoomToEntity(model *models.RoomModel) (*room.Room, error) {
	if model == nil {
		return nil, nil
	}
	return m.roomToEntity(model, m.newCache())
}

func (m *BlockingMapperImpl) roomToEntity(model *models.RoomModel, cache *userCache) (*room.Room, error) {
	owner, err := cache.get(&model.Owner)
	if err != nil {
		return nil, err
	}
	r, err := room.ReconstructRoom(model.ID, model.Name, model.Location, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct room %d: %w", model.ID, err)
	}
	return r, nil
}

// ToModel maps the blocking and its blocked rooms. Associations are
// referenced by ID only.
func (m *BlockingMapperImpl) ToModel(entity *room.Blocking) *models.BlockingModel {
	if entity == nil {
		return nil
	}
	model := &models.BlockingModel{
		ID:          entity.ID(),
		CreatedByID: entity.CreatedBy().ID(),
		StartDate:   entity.StartDate(),
		EndDate:     entity.EndDate(),
		Reason:      entity.Reason(),
		CreatedAt:   entity.CreatedAt(),
	}
	for _, br := range entity.BlockedRooms() {
		model.BlockedRooms = append(model.BlockedRooms, *m.BlockedRoomToModel(br))
	}
	return model
}

func (m *BlockingMapperImpl) BlockedRoomToModel(entity *room.BlockedRoom) *models.BlockedRoomModel {
	if entity == nil {
		return nil
	}
	model := &models.BlockedRoomModel{
		ID:              entity.ID(),
		RoomID:          entity.Room().ID(),
		State:           entity.State().String(),
		RejectionReason: entity.RejectionReason(),
		RejectedBy:      entity.RejectedBy(),
	}
	if b := entity.Blocking(); b != nil {
		model.BlockingID = b.ID()
	}
	return model
}
