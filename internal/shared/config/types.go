package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port" validate:"min=1,max=65535"`
	Mode string `mapstructure:"mode" validate:"oneof=debug release test"`
	// BaseURL is exposed to templates as base_url for building links.
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	// ShutdownTimeout bounds graceful shutdown of the HTTP server.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	// Driver is either "mysql" or "sqlite".
	Driver          string `mapstructure:"driver" validate:"oneof=mysql sqlite"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database" validate:"required"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// GetDSN returns the connection string for the configured driver.
// For sqlite the database field is the file path.
func (d *DatabaseConfig) GetDSN() string {
	if d.Driver == "sqlite" {
		return d.Database
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address" validate:"required,email"`
	FromName     string `mapstructure:"from_name"`
	ReplyTo      string `mapstructure:"reply_to" validate:"omitempty,email"`
	// SubjectPrefix is prepended to every subject as "[prefix] ".
	SubjectPrefix string `mapstructure:"subject_prefix"`
	// HTMLAlternative adds a text/html part rendered from the plain body.
	HTMLAlternative bool `mapstructure:"html_alternative"`
}

func (e *EmailConfig) IsSMTPConfigured() bool {
	return e.SMTPHost != ""
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type I18nConfig struct {
	DefaultLocale string `mapstructure:"default_locale" validate:"required"`
	// TemplatesDir overrides embedded email templates when set.
	TemplatesDir string `mapstructure:"templates_dir"`
	// LocalesDir adds translation files on top of the embedded catalog.
	LocalesDir string `mapstructure:"locales_dir"`
}

type OutboxConfig struct {
	Driver       string        `mapstructure:"driver" validate:"oneof=memory redis"`
	RedisKey     string        `mapstructure:"redis_key"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	BatchSize    int           `mapstructure:"batch_size" validate:"min=1"`
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret" validate:"required,min=16"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes" validate:"min=1"`
}

type AuthConfig struct {
	JWT JWTConfig `mapstructure:"jwt"`
}
