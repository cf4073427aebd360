package user

import "context"

// Repository loads and stores users. GetByID and GetByEmail return nil, nil
// when no user matches.
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
