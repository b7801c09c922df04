// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/salimi-my/campus-parking-spot-booking/internal/config"
	"github.com/salimi-my/campus-parking-spot-booking/internal/handler"
	"github.com/salimi-my/campus-parking-spot-booking/internal/middleware"
)

// RegisterRoutes wires every route on the provided Echo instance.  The
// mutating intake routes run behind the token-bucket rate limiter; the
// zone snapshot additionally runs behind the response cache so bursts of
// availability polling do not hammer the ledger.
func RegisterRoutes(e *echo.Echo, h *handler.BookingHandler, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	v1 := e.Group("/v1")
	v1.POST("/bookings", h.Submit, limit)
	v1.POST("/bookings/:id/entry", h.TriggerEntry, limit)
	v1.POST("/bookings/:id/exit", h.TriggerExit, limit)
	v1.GET("/bookings/:id", h.Get)
	v1.GET("/zones", h.Zones, cache)
	v1.GET("/records", h.Records)
}
