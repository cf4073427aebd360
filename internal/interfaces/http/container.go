package http

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/orris-inc/rbnotify/internal/application/roomblocking"
	"github.com/orris-inc/rbnotify/internal/application/roomblocking/usecases"
	"github.com/orris-inc/rbnotify/internal/domain/shared/events"
	"github.com/orris-inc/rbnotify/internal/domain/user"
	"github.com/orris-inc/rbnotify/internal/infrastructure/auth"
	"github.com/orris-inc/rbnotify/internal/infrastructure/config"
	"github.com/orris-inc/rbnotify/internal/infrastructure/email"
	"github.com/orris-inc/rbnotify/internal/infrastructure/i18n"
	"github.com/orris-inc/rbnotify/internal/infrastructure/template"
	"github.com/orris-inc/rbnotify/internal/shared/logger"
	"github.com/orris-inc/rbnotify/internal/shared/services/markdown"
)

// Container holds all infrastructure components, repositories, use cases and
// handlers. It wires everything together and provides Shutdown for graceful
// termination. The CLI commands share it with the HTTP server.
type Container struct {
	// Core infrastructure
	engine   *gin.Engine
	db       *gorm.DB
	cfg      *config.Config
	log      logger.Interface
	redis    *redis.Client
	registry *prometheus.Registry

	// Repositories
	repos *repositories

	// Use cases
	ucs *allUseCases

	// Handlers
	hdlrs *allHandlers

	// Localization and templates
	bundle    *i18n.Bundle
	switcher  i18n.Switcher
	templates *template.EmailTemplateLoader
	composer  *email.Composer

	// syncEvents runs before-send listeners inline; emailEvents carries
	// delivery outcomes off the hot path.
	syncEvents  *events.SyncEventDispatcher
	emailEvents *events.InMemoryEventDispatcher

	// Delivery
	outbox    email.Outbox
	deliverer *email.Deliverer

	jwtService *auth.JWTService
}

// NewContainer builds every component from cfg. The database connection is
// owned by the caller.
func NewContainer(cfg *config.Config, db *gorm.DB, log logger.Interface) (*Container, error) {
	c := &Container{
		cfg:      cfg,
		db:       db,
		log:      log,
		registry: prometheus.NewRegistry(),
	}
	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if err := c.initTemplates(); err != nil {
		return nil, err
	}
	c.initAuth()
	if err := c.initEvents(); err != nil {
		return nil, fmt.Errorf("failed to init events: %w", err)
	}
	c.initDelivery()

	c.initRepositories()
	c.initUseCases()
	if err := c.initHandlers(); err != nil {
		c.shutdownEvents()
		return nil, fmt.Errorf("failed to init handlers: %w", err)
	}

	c.engine = gin.New()
	c.setupRoutes()

	return c, nil
}

func (c *Container) initTemplates() error {
	bundle, err := i18n.NewBundle(c.cfg.I18n.DefaultLocale, c.cfg.I18n.LocalesDir, c.log.Named("i18n"))
	if err != nil {
		return fmt.Errorf("failed to load translations: %w", err)
	}
	c.bundle = bundle
	c.switcher = i18n.NewSwitcher(bundle, c.log.Named("i18n"))

	c.templates = template.NewEmailTemplateLoader(
		bundle,
		c.cfg.I18n.TemplatesDir,
		map[string]any{template.GlobalBaseURL: c.cfg.Server.BaseURL},
		c.log.Named("templates"),
	)
	if err := c.templates.Load(); err != nil {
		return fmt.Errorf("failed to load email templates: %w", err)
	}

	var md markdown.MarkdownService
	if c.cfg.Email.HTMLAlternative {
		md = markdown.NewMarkdownService()
	}
	c.composer = email.NewComposer(c.cfg.Email, md, c.log)

	c.log.Infow("email templates loaded",
		"default_locale", bundle.Default().String(),
		"languages", len(bundle.Languages()),
		"override_dir", c.cfg.I18n.TemplatesDir)
	return nil
}

func (c *Container) initAuth() {
	if c.cfg.Auth.JWT.Secret == config.DefaultJWTSecret {
		c.log.Warnw("using the default JWT secret, set auth.jwt.secret before exposing the API")
	}
	c.jwtService = auth.NewJWTService(c.cfg.Auth.JWT.Secret, c.cfg.Auth.JWT.AccessExpMinutes)
}

func (c *Container) initEvents() error {
	c.syncEvents = events.NewSyncEventDispatcher()
	c.emailEvents = events.NewInMemoryEventDispatcher(100, c.log.Named("events"))

	err := subscribeAll([]listener{
		{c.syncEvents, roomblocking.EventTypeBeforeNotificationSend, c.onBeforeNotificationSend},
		{c.emailEvents, email.EventTypeEmailSent, c.onEmailSent},
		{c.emailEvents, email.EventTypeEmailFailed, c.onEmailFailed},
	})
	if err != nil {
		return err
	}

	if err := c.emailEvents.Start(); err != nil {
		c.log.Warnw("failed to start email event dispatcher", "error", err)
	}
	return nil
}

type listener struct {
	dispatcher events.EventSubscriber
	eventType  string
	handle     func(events.DomainEvent) error
}

func subscribeAll(listeners []listener) error {
	for _, l := range listeners {
		if err := l.dispatcher.Subscribe(l.eventType, events.NewHandlerFunc(l.eventType, l.handle)); err != nil {
			return fmt.Errorf("failed to subscribe %q listener: %w", l.eventType, err)
		}
	}
	return nil
}

func (c *Container) onBeforeNotificationSend(ev events.DomainEvent) error {
	if e, ok := ev.(*roomblocking.BeforeSendEvent); ok {
		c.log.Debugw("notification about to be sent",
			"sender", e.Sender,
			"blocking_id", e.GetAggregateID(),
			"template", e.Template.Path,
			"locale", e.Template.Locale.String())
	}
	return nil
}

func (c *Container) onEmailSent(ev events.DomainEvent) error {
	if e, ok := ev.(*email.EmailSentEvent); ok {
		c.log.Debugw("email delivered", "message_id", e.GetAggregateID(), "template", e.Template)
	}
	return nil
}

func (c *Container) onEmailFailed(ev events.DomainEvent) error {
	if e, ok := ev.(*email.EmailFailedEvent); ok {
		c.log.Errorw("email dropped",
			"message_id", e.GetAggregateID(),
			"template", e.Template,
			"attempts", e.Attempts,
			"reason", e.Reason)
	}
	return nil
}

func (c *Container) initDelivery() {
	switch c.cfg.Outbox.Driver {
	case "redis":
		c.redis = redis.NewClient(&redis.Options{
			Addr:     c.cfg.Redis.GetAddr(),
			Password: c.cfg.Redis.Password,
			DB:       c.cfg.Redis.DB,
		})
		c.outbox = email.NewRedisOutbox(c.redis, c.cfg.Outbox.RedisKey)
	default:
		c.outbox = email.NewMemoryOutbox()
	}

	var smtp *email.SMTPSender
	if c.cfg.Email.IsSMTPConfigured() {
		smtp = email.NewSMTPSender(c.cfg.Email)
	}
	sender := email.NewSender(c.cfg.Email.IsSMTPConfigured(), smtp, c.log.Named("email"))

	c.deliverer = email.NewDeliverer(
		c.outbox,
		sender,
		c.emailEvents,
		email.NewMetrics(c.registry),
		c.cfg.Outbox.BatchSize,
		c.log.Named("deliverer"),
	)

	c.log.Infow("email delivery configured",
		"outbox", c.cfg.Outbox.Driver,
		"smtp", c.cfg.Email.IsSMTPConfigured())
}

// Engine returns the configured gin engine.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// Deliverer returns the outbox deliverer.
func (c *Container) Deliverer() *email.Deliverer {
	return c.deliverer
}

// InProcessOutbox reports whether queued mail lives only in this process
// and must therefore be delivered by it.
func (c *Container) InProcessOutbox() bool {
	return c.redis == nil
}

// JWTService returns the service issuing and verifying API access tokens.
func (c *Container) JWTService() *auth.JWTService {
	return c.jwtService
}

func (c *Container) Users() user.Repository {
	return c.repos.userRepo
}

func (c *Container) NotifyOwners() *usecases.NotifyOwnersUseCase {
	return c.ucs.notifyOwnersUC
}

func (c *Container) DecideBlockedRoom() *usecases.DecideBlockedRoomUseCase {
	return c.ucs.decideBlockedRoomUC
}

func (c *Container) shutdownEvents() {
	if err := c.emailEvents.Stop(); err != nil {
		c.log.Warnw("failed to stop email event dispatcher", "error", err)
	}
}

// Shutdown releases the resources the container opened.
func (c *Container) Shutdown(ctx context.Context) error {
	var errs []error

	if n, err := c.outbox.Len(ctx); err == nil && n > 0 && c.InProcessOutbox() {
		c.log.Warnw("undelivered emails left in memory outbox", "count", n)
	}

	c.shutdownEvents()

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
	}

	return errors.Join(errs...)
}
