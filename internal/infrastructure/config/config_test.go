package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile_Defaults(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, "server:\n  port: 9090\n"))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "http://localhost:8080", cfg.Server.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "memory", cfg.Outbox.Driver)
	assert.Equal(t, 5*time.Second, cfg.Outbox.PollInterval)
	assert.Equal(t, "en", cfg.I18n.DefaultLocale)
	assert.False(t, cfg.Email.IsSMTPConfigured())
	assert.Equal(t, DefaultJWTSecret, cfg.Auth.JWT.Secret)
	assert.Equal(t, 60, cfg.Auth.JWT.AccessExpMinutes)
	assert.Same(t, cfg, Get())
}

func TestLoadFile_EnvironmentOverrides(t *testing.T) {
	t.Setenv("RBNOTIFY_EMAIL_SMTP_HOST", "smtp.example.org")
	t.Setenv("RBNOTIFY_OUTBOX_DRIVER", "redis")

	cfg, err := LoadFile(writeConfig(t, "email:\n  from_address: rooms@example.org\n"))
	require.NoError(t, err)

	assert.True(t, cfg.Email.IsSMTPConfigured())
	assert.Equal(t, "rooms@example.org", cfg.Email.FromAddress)
	assert.Equal(t, "redis", cfg.Outbox.Driver)
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad driver":       "database:\n  driver: postgres\n",
		"bad outbox":       "outbox:\n  driver: kafka\n",
		"bad from address": "email:\n  from_address: not-an-address\n",
		"bad base url":     "server:\n  base_url: rooms\n",
		"bad mode":         "server:\n  mode: staging\n",
		"short jwt secret": "auth:\n  jwt:\n    secret: short\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestGetDSN(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, "database:\n  driver: mysql\n  database: rooms\n  username: rb\n  password: secret\n"))
	require.NoError(t, err)
	assert.Equal(t, "rb:secret@tcp(localhost:3306)/rooms?charset=utf8mb4&parseTime=True&loc=UTC", cfg.Database.GetDSN())
}
