package handler

import (
	"github.com/labstack/echo/v4"

	"trifoody/internal/adapter/api/middleware"
	"trifoody/internal/usecase"
	"trifoody/pkg/errors"
	"trifoody/pkg/response"
)

type ProductHandler struct {
	listingUseCase *usecase.ListingUseCase
}

func NewProductHandler(listingUseCase *usecase.ListingUseCase) *ProductHandler {
	return &ProductHandler{
		listingUseCase: listingUseCase,
	}
}

// createListingRequest mirrors the listing form. Price stays free text; unparseable prices become 0.
type createListingRequest struct {
	Title          string `json:"title" validate:"max=200"`
	Description    string `json:"description" validate:"max=2000"`
	Price          string `json:"price"`
	PickupLocation string `json:"pickup_location" validate:"max=300"`
	PickupTime     string `json:"pickup_time"`
}

func (h *ProductHandler) CreateListing(c echo.Context) error {
	var req createListingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	product, err := h.listingUseCase.CreateListing(c.Request().Context(), middleware.UserID(c), usecase.CreateListingInput{
		Title:          req.Title,
		Description:    req.Description,
		Price:          req.Price,
		PickupLocation: req.PickupLocation,
		PickupTime:     req.PickupTime,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, product)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	product, err := h.listingUseCase.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}
