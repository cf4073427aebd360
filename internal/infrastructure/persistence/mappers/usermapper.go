package mappers

import (
	"fmt"

	"github.com/orris-inc/rbnotify/internal/domain/user"
	vo "github.com/orris-inc/rbnotify/internal/domain/user/valueobjects"
	"github.com/orris-inc/rbnotify/internal/infrastructure/persistence/models"
)

type UserMapper interface {
	ToEntity(model *models.UserModel) (*user.User, error)
	ToModel(entity *user.User) *models.UserModel
}

type UserMapperImpl struct{}

func NewUserMapper() UserMapper {
	return &UserMapperImpl{}
}

func (m *UserMapperImpl) ToEntity(model *models.UserModel) (*user.User, error) {
	if model == nil {
		return nil, nil
	}

	addr, err := vo.NewEmail(model.Email)
	if err != nil {
		return nil, fmt.Errorf("invalid email for user %d: %w", model.ID, err)
	}

	entity, err := user.ReconstructUser(model.ID, model.FullName, addr, model.Locale)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct user entity: %w", err)
	}
	return entity, nil
}

func (m *UserMapperImpl) ToModel(entity *user.User) *models.UserModel {
	if entity == nil {
		return nil
	}
	return &models.UserModel{
		ID:       entity.ID(),
		FullName: entity.FullName(),
		Email:    entity.Email(),
		Locale:   entity.Locale(),
	}
}
