// Package bootstrap holds the start-up steps shared by every command.
package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/orris-inc/rbnotify/internal/infrastructure/config"
	"github.com/orris-inc/rbnotify/internal/infrastructure/database"
	httpRouter "github.com/orris-inc/rbnotify/internal/interfaces/http"
	"github.com/orris-inc/rbnotify/internal/shared/logger"
)

// Options are the persistent flags of the root command.
type Options struct {
	Env        string
	ConfigPath string
}

// Resolve applies the ENV variable override.
func (o *Options) Resolve() {
	if envVar := os.Getenv("ENV"); envVar != "" {
		o.Env = envVar
	}
}

// LoadConfig reads the configuration and initializes the logger.
func LoadConfig(opts *Options) (*config.Config, logger.Interface, error) {
	opts.Resolve()

	var (
		cfg *config.Config
		err error
	)
	if opts.ConfigPath != "" {
		cfg, err = config.LoadFile(opts.ConfigPath)
	} else {
		cfg, err = config.Load(MapEnvToGinMode(opts.Env))
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode == "debug"); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, logger.NewLogger(), nil
}

// Open loads the configuration and connects to the database.
// Callers must call database.Close.
func Open(opts *Options) (*config.Config, logger.Interface, error) {
	cfg, log, err := LoadConfig(opts)
	if err != nil {
		return nil, nil, err
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return cfg, log, nil
}

// Container loads the configuration, connects to the database and wires the
// application. The returned cleanup shuts everything down in reverse order.
func Container(opts *Options) (*httpRouter.Container, *config.Config, logger.Interface, func(), error) {
	cfg, log, err := Open(opts)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	container, cleanup, err := Build(cfg, log)
	if err != nil {
		database.Close()
		return nil, nil, nil, nil, err
	}
	return container, cfg, log, cleanup, nil
}

// Build wires the application on the database opened by Open. The cleanup
// also closes the database.
func Build(cfg *config.Config, log logger.Interface) (*httpRouter.Container, func(), error) {
	container, err := httpRouter.NewContainer(cfg, database.Get(), log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build application: %w", err)
	}

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := container.Shutdown(ctx); err != nil {
			log.Errorw("shutdown failed", "error", err)
		}
		if err := database.Close(); err != nil {
			log.Errorw("failed to close database", "error", err)
		}
	}
	return container, cleanup, nil
}

// MapEnvToGinMode maps an environment name to a gin mode.
func MapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
