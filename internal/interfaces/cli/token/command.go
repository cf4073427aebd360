package token

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/orris-inc/rbnotify/internal/domain/user"
	"github.com/orris-inc/rbnotify/internal/infrastructure/auth"
	"github.com/orris-inc/rbnotify/internal/interfaces/cli/bootstrap"
)

type tokenOutput struct {
	UserID      uint      `json:"user_id"`
	Email       string    `json:"email"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// NewCommand returns the command issuing API access tokens for existing users.
func NewCommand(opts *bootstrap.Options) *cobra.Command {
	var userID uint

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API access token for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, _, log, cleanup, err := bootstrap.Container(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			out, err := issue(cmd.Context(), container.Users(), container.JWTService(), userID)
			if err != nil {
				return err
			}
			log.Infow("access token issued", "user_id", out.UserID, "expires_at", out.ExpiresAt)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().UintVar(&userID, "user", 0, "User ID")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func issue(ctx context.Context, users user.Repository, jwtService *auth.JWTService, userID uint) (*tokenOutput, error) {
	u, err := users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if u == nil {
		return nil, fmt.Errorf("user %d not found", userID)
	}

	tok, err := jwtService.Generate(u.ID())
	if err != nil {
		return nil, err
	}

	return &tokenOutput{
		UserID:      u.ID(),
		Email:       u.Email(),
		AccessToken: tok.Token,
		ExpiresAt:   tok.ExpiresAt,
	}, nil
}
