package router

import (
	"github.com/labstack/echo/v4"

	"trifoody/internal/adapter/api/handler"
	"trifoody/internal/adapter/api/middleware"
	"trifoody/internal/infrastructure/ratelimit"
)

// Limiters are the rate limit buckets shared by the routes.
type Limiters struct {
	Auth     *ratelimit.RateLimiter
	Mutation *ratelimit.RateLimiter
}

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiters Limiters, wsHandler *handler.WebSocketHandler) {
	SetupAuthRouter(e, authMiddleware, limiters.Auth)
	SetupUserRouter(e, authMiddleware, limiters.Auth, limiters.Mutation)
	SetupProductRouter(e, authMiddleware, limiters.Mutation)
	SetupTransactionRouter(e, authMiddleware, limiters.Mutation)
	SetupFeedRouter(e, authMiddleware)
	SetupWebSocketRouter(e, wsHandler, authMiddleware)
	SetupHealthRouter(e)
}
