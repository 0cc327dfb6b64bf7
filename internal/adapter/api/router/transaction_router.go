package router

import (
	"github.com/labstack/echo/v4"

	"trifoody/internal/adapter/api/handler"
	"trifoody/internal/adapter/api/middleware"
	"trifoody/internal/infrastructure/ratelimit"
)

func SetupTransactionRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter) {
	transactionHandler := handler.GetTransactionHandler()

	e.POST("/v1/transactions", transactionHandler.StartTransaction,
		authMiddleware.Authenticate, middleware.RateLimit(limiter, middleware.KeyByUser))
}
