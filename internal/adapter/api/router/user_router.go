package router

import (
	"github.com/labstack/echo/v4"

	"trifoody/internal/adapter/api/handler"
	"trifoody/internal/adapter/api/middleware"
	"trifoody/internal/infrastructure/ratelimit"
)

func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, entryLimiter, limiter *ratelimit.RateLimiter) {
	navigationHandler := handler.GetNavigationHandler()
	profileHandler := handler.GetProfileHandler()

	e.GET("/v1/app/entry", navigationHandler.Entry,
		middleware.RateLimit(entryLimiter, middleware.KeyByIP), authMiddleware.OptionalAuthenticate)

	me := e.Group("/v1/me")
	me.Use(authMiddleware.Authenticate)

	me.GET("/home", navigationHandler.Home)
	me.GET("/profile", profileHandler.GetProfile)
	me.GET("/profile/image", profileHandler.DownloadImage)

	writes := middleware.RateLimit(limiter, middleware.KeyByUser)
	me.PATCH("/profile", profileHandler.UpdateProfile, writes)
	me.PUT("/profile/image", profileHandler.UploadImage, writes)
}
