package worker

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/orris-inc/rbnotify/internal/interfaces/cli/bootstrap"
)

var once bool

func NewCommand(opts *bootstrap.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Deliver queued emails",
		Long: `Drain the email outbox through the configured sender. Only useful with
the redis outbox, which is shared between processes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "Flush the outbox once and exit")

	return cmd
}

func run(opts *bootstrap.Options) error {
	container, cfg, log, cleanup, err := bootstrap.Container(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	if container.InProcessOutbox() {
		log.Warnw("outbox driver is memory, the worker will not see messages queued by other processes")
	}

	if once {
		n, err := container.Deliverer().Flush(context.Background())
		log.Infow("outbox flushed", "sent", n)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Infow("starting email worker", "poll_interval", cfg.Outbox.PollInterval.String())
	if err := container.Deliverer().Run(ctx, cfg.Outbox.PollInterval); err != nil {
		return err
	}

	// Final flush before shutdown
	flushCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := container.Deliverer().Flush(flushCtx); err != nil {
		log.Errorw("final outbox flush failed", "error", err)
	}

	log.Infow("email worker stopped")
	return nil
}
