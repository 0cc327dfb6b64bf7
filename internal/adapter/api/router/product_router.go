package router

import (
	"github.com/labstack/echo/v4"

	"trifoody/internal/adapter/api/handler"
	"trifoody/internal/adapter/api/middleware"
	"trifoody/internal/infrastructure/ratelimit"
)

func SetupProductRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter) {
	productHandler := handler.GetProductHandler()

	e.POST("/v1/listings", productHandler.CreateListing,
		authMiddleware.Authenticate, middleware.RateLimit(limiter, middleware.KeyByUser))
	e.GET("/v1/products/:id", productHandler.GetProduct, authMiddleware.Authenticate)
}
