package handler

import (
	"github.com/labstack/echo/v4"

	"trifoody/internal/adapter/api/middleware"
	"trifoody/internal/usecase"
	"trifoody/pkg/errors"
	"trifoody/pkg/response"
)

type TransactionHandler struct {
	tradeUseCase *usecase.TradeUseCase
}

func NewTransactionHandler(tradeUseCase *usecase.TradeUseCase) *TransactionHandler {
	return &TransactionHandler{
		tradeUseCase: tradeUseCase,
	}
}

type startTransactionRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

func (h *TransactionHandler) StartTransaction(c echo.Context) error {
	var req startTransactionRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	txn, err := h.tradeUseCase.StartTransaction(c.Request().Context(), middleware.UserID(c), req.ProductID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, txn)
}
