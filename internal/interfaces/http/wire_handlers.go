package http

import (
	"context"

	"github.com/orris-inc/rbnotify/internal/interfaces/http/handlers"
)

type allHandlers struct {
	blockingHandler *handlers.BlockingHandler
	healthHandler   *handlers.HealthHandler
}

type redisPinger struct {
	ping func(ctx context.Context) error
}

func (p redisPinger) PingContext(ctx context.Context) error {
	return p.ping(ctx)
}

func (c *Container) initHandlers() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}

	checks := map[string]handlers.Pinger{"database": sqlDB}
	if c.redis != nil {
		client := c.redis
		checks["redis"] = redisPinger{ping: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}}
	}

	c.hdlrs = &allHandlers{
		blockingHandler: handlers.NewBlockingHandler(
			c.ucs.createBlockingUC,
			c.ucs.notifyOwnersUC,
			c.ucs.decideBlockedRoomUC,
			c.log,
		),
		healthHandler: handlers.NewHealthHandler(checks),
	}
	return nil
}
