package repository

import (
	"context"

	"trifoody/internal/domain/entity"
)

type ProductRepository interface {
	// Create stores a new product. The store assigns the ID and writes it back to product.ID.
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error)
	// Watch emits the full matching set on every change until ctx ends. The channel is closed
	// when the watch stops, after a terminal error snapshot if there was one.
	Watch(ctx context.Context, filter entity.ProductFilter) <-chan ProductSnapshot
	SetTrading(ctx context.Context, id string, trading bool) error
}
