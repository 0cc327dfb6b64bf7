package router

import (
	"github.com/labstack/echo/v4"

	"trifoody/internal/adapter/api/handler"
	"trifoody/internal/adapter/api/middleware"
	"trifoody/internal/infrastructure/ratelimit"
)

// SetupAuthRouter initializes auth routes
func SetupAuthRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter) {
	authHandler := handler.GetAuthHandler()

	public := e.Group("/v1/auth", middleware.RateLimit(limiter, middleware.KeyByIP))
	public.POST("/signup", authHandler.SignUp)
	public.POST("/signin", authHandler.SignIn)
	public.POST("/password-reset", authHandler.ResetPassword)

	protected := e.Group("/v1/auth")
	protected.Use(authMiddleware.Authenticate)
	protected.POST("/signout", authHandler.SignOut)
}
