package repository

import (
	"context"

	"trifoody/internal/domain/entity"
)

type TransactionRepository interface {
	Create(ctx context.Context, transaction *entity.Transaction) error
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)
	List(ctx context.Context, filter entity.TransactionFilter) ([]*entity.Transaction, error)
	Watch(ctx context.Context, filter entity.TransactionFilter) <-chan TransactionSnapshot

	// StartTrade atomically creates the transaction and marks its product as trading.
	// It fails with NOT_FOUND if the product is gone and CONFLICT if it is already trading.
	StartTrade(ctx context.Context, transaction *entity.Transaction) error
}
