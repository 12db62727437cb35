// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/airline-pnr-terminal/internal/config"
	"github.com/iliyamo/airline-pnr-terminal/internal/handler"
	"github.com/iliyamo/airline-pnr-terminal/internal/middleware"
)

// RegisterRoutes registers routes that do not require a session on the
// provided Echo instance: the health check and the Prometheus scrape
// endpoint.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterTerminal registers the command endpoint with its session and
// rate-limit middleware.  rdb may be nil; the limiter then runs
// in-process.
func RegisterTerminal(e *echo.Echo, t *handler.TerminalHandler, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/api")
	g.Use(middleware.SessionToken(jwtSecret))
	g.Use(middleware.NewTokenBucket(rlCfg, rdb))
	g.POST("/command", t.Command)
}
