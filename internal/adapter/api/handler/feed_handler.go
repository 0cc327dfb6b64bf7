package handler

import (
	"github.com/labstack/echo/v4"

	"trifoody/internal/adapter/api/middleware"
	"trifoody/internal/domain/entity"
	"trifoody/internal/usecase"
	"trifoody/pkg/response"
	"trifoody/pkg/utils"
)

type FeedHandler struct {
	feedUseCase *usecase.FeedUseCase
}

func NewFeedHandler(feedUseCase *usecase.FeedUseCase) *FeedHandler {
	return &FeedHandler{
		feedUseCase: feedUseCase,
	}
}

type feedResponse struct {
	*entity.FeedView
	Total int `json:"total"`
	Page  int `json:"page,omitempty"`
	Limit int `json:"limit,omitempty"`
}

// GetFeed returns the current contents of the caller's trading or browse feed.
// The full list is returned unless page or limit is given.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	view, err := h.feedUseCase.Fetch(c.Request().Context(), middleware.UserID(c), entity.FeedKind(c.Param("kind")))
	if err != nil {
		return response.Error(c, err)
	}

	resp := feedResponse{FeedView: view, Total: len(view.Products)}
	if params, ok := utils.GetPaginationParams(c); ok {
		view.Products = utils.Paginate(view.Products, params)
		resp.Page = params.Page
		resp.Limit = params.PageSize
	}

	return response.Success(c, resp)
}
