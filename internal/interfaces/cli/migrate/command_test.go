package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/rbnotify/internal/infrastructure/migration"
	"github.com/orris-inc/rbnotify/internal/shared/logger"
)

func TestSelectStrategy(t *testing.T) {
	goose := migration.NewGooseStrategy("sqlite", logger.NewNop())
	t.Cleanup(func() { strategy = "goose" })

	strategy = "goose"
	s, err := selectStrategy(goose)
	require.NoError(t, err)
	assert.Equal(t, goose.GetName(), s.GetName())

	strategy = "gorm"
	s, err = selectStrategy(goose)
	require.NoError(t, err)
	assert.Equal(t, migration.NewGormAutoMigrateStrategy().GetName(), s.GetName())

	strategy = "flyway"
	_, err = selectStrategy(goose)
	assert.Error(t, err)
}

func TestNewCommand_Subcommands(t *testing.T) {
	cmd := NewCommand(nil)
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"up", "down", "status"}, names)
}
