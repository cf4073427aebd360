package token

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/rbnotify/internal/domain/user"
	vo "github.com/orris-inc/rbnotify/internal/domain/user/valueobjects"
	"github.com/orris-inc/rbnotify/internal/infrastructure/auth"
)

type stubUsers struct {
	users map[uint]*user.User
	err   error
}

func (s *stubUsers) Create(ctx context.Context, u *user.User) error {
	return errors.New("not supported")
}

func (s *stubUsers) GetByID(ctx context.Context, id uint) (*user.User, error) {
	return s.users[id], s.err
}

func (s *stubUsers) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, errors.New("not supported")
}

func TestIssue(t *testing.T) {
	ctx := context.Background()
	email, err := vo.NewEmail("marie@example.org")
	require.NoError(t, err)
	marie, err := user.ReconstructUser(2, "Marie Curie", email, "fr")
	require.NoError(t, err)

	jwtService := auth.NewJWTService("0123456789abcdef0123456789abcdef", 5)
	users := &stubUsers{users: map[uint]*user.User{2: marie}}

	out, err := issue(ctx, users, jwtService, 2)
	require.NoError(t, err)
	assert.Equal(t, "marie@example.org", out.Email)

	claims, err := jwtService.Verify(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(2), claims.UserID)

	_, err = issue(ctx, users, jwtService, 9)
	assert.EqualError(t, err, "user 9 not found")

	_, err = issue(ctx, &stubUsers{err: errors.New("db down")}, jwtService, 2)
	assert.ErrorContains(t, err, "db down")
}

func TestCommand_RequiresUser(t *testing.T) {
	cmd := NewCommand(nil)
	cmd.SetArgs(nil)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	assert.Error(t, cmd.Execute())
}
