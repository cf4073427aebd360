package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/orris-inc/rbnotify/internal/interfaces/http/middleware"
	"github.com/orris-inc/rbnotify/internal/shared/constants"
)

// setupRoutes configures all HTTP routes
func (c *Container) setupRoutes() {
	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.RequestID())
	c.engine.Use(middleware.RequestLogger(c.log.Named("http")))

	c.engine.GET("/healthz", c.hdlrs.healthHandler.Health)
	c.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})))

	authMiddleware := middleware.NewAuthMiddleware(c.jwtService, c.log.Named("auth"))

	api := c.engine.Group(constants.APIVersionPrefix)
	api.Use(authMiddleware.RequireAuth())
	{
		blockings := api.Group("/blockings")
		blockings.POST("", c.hdlrs.blockingHandler.CreateBlocking)
		blockings.POST("/:id/notify-owners", c.hdlrs.blockingHandler.NotifyOwners)

		blockedRooms := api.Group("/blocked-rooms")
		blockedRooms.POST("/:id/approve", c.hdlrs.blockingHandler.ApproveBlockedRoom)
		blockedRooms.POST("/:id/reject", c.hdlrs.blockingHandler.RejectBlockedRoom)
	}
}
