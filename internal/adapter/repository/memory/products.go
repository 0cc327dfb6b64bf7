package memory

import (
	"context"
	"sort"

	"trifoody/internal/domain/entity"
	"trifoody/internal/domain/repository"
	"trifoody/pkg/errors"
)

type productDoc struct {
	entity.Product
}

type productRepository struct {
	store *Store
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	if err := r.store.takeFault(OpCreateProduct); err != nil {
		return errors.Unavailable("Failed to create product", err)
	}

	r.store.mu.Lock()
	id := newID()
	doc := productDoc{Product: *product}
	doc.ID = id
	r.store.products[id] = doc
	r.store.mu.Unlock()

	product.ID = id
	r.store.changed(colProducts)
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if err := r.store.takeFault(OpGetProduct); err != nil {
		return nil, errors.Unavailable("Failed to get product", err)
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	doc, ok := r.store.products[id]
	if !ok {
		return nil, errors.NotFound("Product", nil)
	}
	p := doc.Product
	return &p, nil
}

func (r *productRepository) List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error) {
	return r.store.queryProducts(filter), nil
}

func (r *productRepository) Watch(ctx context.Context, filter entity.ProductFilter) <-chan repository.ProductSnapshot {
	out := make(chan repository.ProductSnapshot, 1)

	go watch(ctx, r.store, colProducts, out, func() (repository.ProductSnapshot, bool) {
		if err := r.store.takeFault(OpWatchProducts); err != nil {
			return repository.ProductSnapshot{Err: errors.Unavailable("Product subscription failed", err)}, false
		}
		return repository.ProductSnapshot{Products: r.store.queryProducts(filter)}, true
	})

	return out
}

func (r *productRepository) SetTrading(ctx context.Context, id string, trading bool) error {
	if err := r.store.takeFault(OpSetTrading); err != nil {
		return errors.Unavailable("Failed to update product status", err)
	}

	r.store.mu.Lock()
	doc, ok := r.store.products[id]
	if !ok {
		r.store.mu.Unlock()
		return errors.NotFound("Product", nil)
	}
	doc.IsTrading = trading
	r.store.products[id] = doc
	r.store.mu.Unlock()

	r.store.changed(colProducts)
	return nil
}

func (s *Store) queryProducts(filter entity.ProductFilter) []*entity.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]*entity.Product, 0)
	for _, doc := range s.products {
		p := doc.Product
		if filter.Matches(&p) {
			products = append(products, &p)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products
}
