package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/orris-inc/rbnotify/internal/infrastructure/database"
	"github.com/orris-inc/rbnotify/internal/infrastructure/migration"
	"github.com/orris-inc/rbnotify/internal/interfaces/cli/bootstrap"
	"github.com/orris-inc/rbnotify/internal/shared/goroutine"
)

var autoMigrate bool

func NewCommand(opts *bootstrap.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long: `Start the HTTP API. When the outbox is in memory the server also
delivers queued emails itself.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}

	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Apply pending migrations on startup")

	return cmd
}

func run(opts *bootstrap.Options) error {
	cfg, log, err := bootstrap.Open(opts)
	if err != nil {
		return err
	}

	if autoMigrate {
		if cfg.Server.Mode == gin.ReleaseMode {
			log.Warnw("auto-migration is enabled in release mode")
		}
		if err := migration.NewGooseStrategy(cfg.Database.Driver, log).Migrate(database.Get()); err != nil {
			database.Close()
			return fmt.Errorf("auto-migration failed: %w", err)
		}
	}

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	// The container is built after migrations so a fresh database works.
	container, cleanup, err := bootstrap.Build(cfg, log)
	if err != nil {
		database.Close()
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deliverCtx, stopDeliverer := context.WithCancel(context.Background())
	var delivererDone <-chan struct{}
	if container.InProcessOutbox() {
		delivererDone = goroutine.Go(log, "email-deliverer", func() {
			_ = container.Deliverer().Run(deliverCtx, cfg.Outbox.PollInterval)
		})
	} else {
		closed := make(chan struct{})
		close(closed)
		delivererDone = closed
	}

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      container.Engine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infow("server starting",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		stopDeliverer()
		<-delivererDone
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Infow("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	// Stop polling, then deliver what the last requests queued.
	stopDeliverer()
	<-delivererDone
	if container.InProcessOutbox() {
		if n, err := container.Deliverer().Flush(shutdownCtx); err != nil {
			log.Errorw("final outbox flush failed", "error", err)
		} else if n > 0 {
			log.Infow("final outbox flush", "sent", n)
		}
	}

	log.Infow("server exited gracefully")
	return nil
}
