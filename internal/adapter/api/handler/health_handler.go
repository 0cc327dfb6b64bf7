package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// AuthHealthChecker is the auth provider's connectivity probe.
type AuthHealthChecker interface {
	TestConnection(ctx context.Context) error
}

type HealthHandler struct {
	authChecker AuthHealthChecker
	storeDriver string
}

var healthHandler *HealthHandler

func NewHealthHandler(authChecker AuthHealthChecker, storeDriver string) *HealthHandler {
	return &HealthHandler{
		authChecker: authChecker,
		storeDriver: storeDriver,
	}
}

func SetupHealthHandler(authChecker AuthHealthChecker, storeDriver string) {
	healthHandler = NewHealthHandler(authChecker, storeDriver)
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":       "ok",
		"store_driver": h.storeDriver,
		"time":         time.Now().Format(time.RFC3339),
	})
}

func (h *HealthHandler) CheckFirebaseHealth(c echo.Context) error {
	if h.authChecker == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "Firebase Auth is not configured",
		})
	}

	if err := h.authChecker.TestConnection(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "Firebase Auth connection failed",
			"error":  err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "Firebase Auth connected successfully",
	})
}
