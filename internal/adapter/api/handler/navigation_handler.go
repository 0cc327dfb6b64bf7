package handler

import (
	"github.com/labstack/echo/v4"

	"trifoody/internal/adapter/api/middleware"
	"trifoody/internal/usecase"
	"trifoody/pkg/response"
)

const HeaderDeviceID = "X-Device-ID"

type NavigationHandler struct {
	navigationUseCase *usecase.NavigationUseCase
}

func NewNavigationHandler(navigationUseCase *usecase.NavigationUseCase) *NavigationHandler {
	return &NavigationHandler{
		navigationUseCase: navigationUseCase,
	}
}

// Entry picks the first screen for the calling device.
func (h *NavigationHandler) Entry(c echo.Context) error {
	result, err := h.navigationUseCase.Entry(
		c.Request().Context(),
		c.Request().Header.Get(HeaderDeviceID),
		middleware.UserID(c),
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *NavigationHandler) Home(c echo.Context) error {
	cfg, err := h.navigationUseCase.Home(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, cfg)
}
