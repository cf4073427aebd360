package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orris-inc/rbnotify/internal/infrastructure/database"
	"github.com/orris-inc/rbnotify/internal/infrastructure/migration"
	"github.com/orris-inc/rbnotify/internal/interfaces/cli/bootstrap"
	"github.com/orris-inc/rbnotify/internal/shared/logger"
)

var (
	steps    int
	strategy string
)

func NewCommand(opts *bootstrap.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations: apply, roll back and show the current schema version.`,
	}

	cmd.AddCommand(
		newUpCommand(opts),
		newDownCommand(opts),
		newStatusCommand(opts),
	)

	return cmd
}

func newUpCommand(opts *bootstrap.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply all pending database migrations to bring the database schema up to date.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUp(opts)
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "goose", "Migration strategy (goose, gorm)")

	return cmd
}

func newDownCommand(opts *bootstrap.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of database migrations.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDown(opts)
		},
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand(opts *bootstrap.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display the current migration version and status of the database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(opts)
		},
	}
}

func initEnv(opts *bootstrap.Options) (*migration.GooseStrategy, logger.Interface, error) {
	cfg, log, err := bootstrap.Open(opts)
	if err != nil {
		return nil, nil, err
	}
	return migration.NewGooseStrategy(cfg.Database.Driver, log), log, nil
}

// selectStrategy returns the strategy named by --strategy.
func selectStrategy(goose *migration.GooseStrategy) (migration.Strategy, error) {
	switch strategy {
	case "", "goose":
		return goose, nil
	case "gorm":
		return migration.NewGormAutoMigrateStrategy(), nil
	default:
		return nil, fmt.Errorf("unknown migration strategy %q", strategy)
	}
}

func runUp(opts *bootstrap.Options) error {
	goose, log, err := initEnv(opts)
	if err != nil {
		return err
	}
	defer database.Close()

	s, err := selectStrategy(goose)
	if err != nil {
		return err
	}

	log.Infow("running up migrations", "strategy", s.GetName())

	if err := s.Migrate(database.Get()); err != nil {
		log.Errorw("migration failed", "error", err)
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Infow("migrations completed successfully")
	return nil
}

func runDown(opts *bootstrap.Options) error {
	goose, log, err := initEnv(opts)
	if err != nil {
		return err
	}
	defer database.Close()

	log.Infow("running down migrations", "steps", steps)

	if err := goose.MigrateDown(database.Get(), steps); err != nil {
		log.Errorw("down migration failed", "error", err)
		return fmt.Errorf("down migration failed: %w", err)
	}

	log.Infow("down migration completed successfully")
	return nil
}

func runStatus(opts *bootstrap.Options) error {
	goose, log, err := initEnv(opts)
	if err != nil {
		return err
	}
	defer database.Close()

	version, err := goose.GetVersion(database.Get())
	if err != nil {
		log.Errorw("failed to get migration version", "error", err)
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	fmt.Printf("\nMigration Status:\n")
	fmt.Printf("  Environment:     %s\n", opts.Env)
	fmt.Printf("  Current Version: %d\n", version)

	if err := goose.Status(database.Get()); err != nil {
		log.Errorw("failed to get detailed status", "error", err)
		return fmt.Errorf("failed to get detailed status: %w", err)
	}

	return nil
}
