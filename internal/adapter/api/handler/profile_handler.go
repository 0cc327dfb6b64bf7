package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"trifoody/internal/adapter/api/middleware"
	"trifoody/internal/infrastructure/imaging"
	"trifoody/internal/usecase"
	"trifoody/pkg/errors"
	"trifoody/pkg/response"
)

const maxUploadBytes = 10 << 20

type ProfileHandler struct {
	profileUseCase *usecase.ProfileUseCase
}

func NewProfileHandler(profileUseCase *usecase.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: profileUseCase,
	}
}

type updateProfileRequest struct {
	Username     *string `json:"username" validate:"omitempty,max=100"`
	Address      *string `json:"address" validate:"omitempty,max=300"`
	Introduction *string `json:"introduction" validate:"omitempty,max=1000"`
}

func (h *ProfileHandler) GetProfile(c echo.Context) error {
	profile, err := h.profileUseCase.GetProfile(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, profile)
}

func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	profile, err := h.profileUseCase.UpdateProfile(c.Request().Context(), middleware.UserID(c), usecase.UpdateProfileInput{
		Username:     req.Username,
		Address:      req.Address,
		Introduction: req.Introduction,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, profile)
}

// UploadImage takes a multipart "image" field and replaces the caller's profile image.
func (h *ProfileHandler) UploadImage(c echo.Context) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return response.Error(c, errors.BadRequest("Image file is required", err))
	}
	if fileHeader.Size > maxUploadBytes {
		return response.Error(c, errors.BadRequest("Image is too large", nil))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.Error(c, errors.BadRequest("Failed to read image", err))
	}
	defer file.Close()

	url, err := h.profileUseCase.UploadProfileImage(c.Request().Context(), middleware.UserID(c), file)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"profile_image_url": url,
	})
}

func (h *ProfileHandler) DownloadImage(c echo.Context) error {
	data, err := h.profileUseCase.DownloadProfileImage(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return c.Blob(http.StatusOK, imaging.ContentTypeJPEG, data)
}
