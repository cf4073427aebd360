package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/orris-inc/rbnotify/internal/application/roomblocking/dto"
	"github.com/orris-inc/rbnotify/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/orris-inc/rbnotify/internal/interfaces/http"
	"github.com/orris-inc/rbnotify/internal/shared/logger"
)

type decisionFlags struct {
	blockedRoomID uint
	actorID       uint
	approve       bool
	reject        bool
	reason        string
}

func NewCommand(opts *bootstrap.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Send room blocking notifications",
		Long: `Build and queue room blocking emails without going through the HTTP API.
With the memory outbox the messages are delivered before the command exits.`,
	}

	cmd.AddCommand(
		newOwnersCommand(opts),
		newDecisionCommand(opts),
	)

	return cmd
}

func newOwnersCommand(opts *bootstrap.Options) *cobra.Command {
	var blockingID uint

	cmd := &cobra.Command{
		Use:   "owners",
		Short: "Ask room owners to confirm a blocking",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(opts, func(ctx context.Context, c *httpRouter.Container, log logger.Interface) error {
				result, err := c.NotifyOwners().Execute(ctx, blockingID)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), result)
			})
		},
	}

	cmd.Flags().UintVar(&blockingID, "blocking", 0, "Blocking ID")
	_ = cmd.MarkFlagRequired("blocking")

	return cmd
}

func newDecisionCommand(opts *bootstrap.Options) *cobra.Command {
	var f decisionFlags

	cmd := &cobra.Command{
		Use:   "decision",
		Short: "Approve or reject a blocked room and tell the blocking creator",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := f.request()
			return withContainer(opts, func(ctx context.Context, c *httpRouter.Container, log logger.Interface) error {
				result, err := c.DecideBlockedRoom().Execute(ctx, req)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), result)
			})
		},
	}

	cmd.Flags().UintVar(&f.blockedRoomID, "blocked-room", 0, "Blocked room ID")
	cmd.Flags().UintVar(&f.actorID, "actor", 0, "ID of the room owner taking the decision")
	cmd.Flags().BoolVar(&f.approve, "approve", false, "Approve the blocked room")
	cmd.Flags().BoolVar(&f.reject, "reject", false, "Reject the blocked room")
	cmd.Flags().StringVar(&f.reason, "reason", "", "Rejection reason")
	_ = cmd.MarkFlagRequired("blocked-room")
	_ = cmd.MarkFlagRequired("actor")
	cmd.MarkFlagsMutuallyExclusive("approve", "reject")
	cmd.MarkFlagsOneRequired("approve", "reject")

	return cmd
}

func (f decisionFlags) request() dto.DecideBlockedRoomRequest {
	return dto.DecideBlockedRoomRequest{
		BlockedRoomID: f.blockedRoomID,
		ActorID:       f.actorID,
		Approve:       f.approve && !f.reject,
		Reason:        f.reason,
	}
}

// withContainer runs fn and then delivers what it queued when nobody else
// will.
func withContainer(opts *bootstrap.Options, fn func(ctx context.Context, c *httpRouter.Container, log logger.Interface) error) error {
	container, _, log, cleanup, err := bootstrap.Container(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()
	if err := fn(ctx, container, log); err != nil {
		return err
	}

	if !container.InProcessOutbox() {
		return nil
	}
	n, err := container.Deliverer().Flush(ctx)
	if err != nil {
		return fmt.Errorf("failed to deliver queued emails: %w", err)
	}
	log.Infow("emails delivered", "sent", n)
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
