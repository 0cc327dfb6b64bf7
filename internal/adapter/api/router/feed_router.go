package router

import (
	"github.com/labstack/echo/v4"

	"trifoody/internal/adapter/api/handler"
	"trifoody/internal/adapter/api/middleware"
)

func SetupFeedRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	feedHandler := handler.GetFeedHandler()

	e.GET("/v1/feeds/:kind", feedHandler.GetFeed, authMiddleware.Authenticate)
}
