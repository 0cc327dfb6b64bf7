package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"trifoody/internal/domain/entity"
	"trifoody/internal/domain/repository"
	"trifoody/pkg/errors"
	"trifoody/pkg/logger"
)

const productsCollection = "products"

type firestoreProductRepository struct {
	client *firestore.Client
}

func NewFirestoreProductRepository(client *firestore.Client) repository.ProductRepository {
	return &firestoreProductRepository{
		client: client,
	}
}

func (r *firestoreProductRepository) Create(ctx context.Context, product *entity.Product) error {
	doc := r.client.Collection(productsCollection).NewDoc()

	if _, err := doc.Create(ctx, product); err != nil {
		return errors.Unavailable("Failed to create product", err)
	}

	product.ID = doc.ID
	return nil
}

func (r *firestoreProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	doc, err := r.client.Collection(productsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Product", err)
		}
		return nil, errors.Unavailable("Failed to get product", err)
	}

	product, err := decodeProduct(doc)
	if err != nil {
		// An undecodable product is treated as absent.
		return nil, errors.NotFound("Product", err)
	}

	return product, nil
}

func (r *firestoreProductRepository) List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error) {
	iter := r.productQuery(filter).Documents(ctx)
	defer iter.Stop()

	var products []*entity.Product
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Unavailable("Failed to list products", err)
		}

		product, err := decodeProduct(doc)
		if err != nil {
			logger.Warn("Dropping undecodable product %s: %v", doc.Ref.ID, err)
			continue
		}
		products = append(products, product)
	}

	return products, nil
}

func (r *firestoreProductRepository) Watch(ctx context.Context, filter entity.ProductFilter) <-chan repository.ProductSnapshot {
	out := make(chan repository.ProductSnapshot, 1)

	go func() {
		defer close(out)

		snapshots := r.productQuery(filter).Snapshots(ctx)
		defer snapshots.Stop()

		for {
			snap, err := snapshots.Next()
			if err != nil {
				if err == iterator.Done || ctx.Err() != nil {
					return
				}
				sendProductSnapshot(ctx, out, repository.ProductSnapshot{
					Err: errors.Unavailable("Product subscription failed", err),
				})
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				sendProductSnapshot(ctx, out, repository.ProductSnapshot{
					Err: errors.Unavailable("Failed to read product snapshot", err),
				})
				continue
			}

			products := make([]*entity.Product, 0, len(docs))
			for _, doc := range docs {
				product, err := decodeProduct(doc)
				if err != nil {
					logger.Warn("Dropping undecodable product %s: %v", doc.Ref.ID, err)
					continue
				}
				products = append(products, product)
			}

			if !sendProductSnapshot(ctx, out, repository.ProductSnapshot{Products: products}) {
				return
			}
		}
	}()

	return out
}

func (r *firestoreProductRepository) SetTrading(ctx context.Context, id string, trading bool) error {
	_, err := r.client.Collection(productsCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "isTrading", Value: trading},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Product", err)
		}
		return errors.Unavailable("Failed to update product status", err)
	}

	return nil
}

func (r *firestoreProductRepository) productQuery(filter entity.ProductFilter) firestore.Query {
	query := r.client.Collection(productsCollection).Query

	if filter.OwnerID != "" {
		query = query.Where("ownerID", "==", filter.OwnerID)
	}
	if filter.OwnerType != "" {
		query = query.Where("ownerType", "==", string(filter.OwnerType))
	}
	if filter.IsTrading != nil {
		query = query.Where("isTrading", "==", *filter.IsTrading)
	}

	return query
}

func decodeProduct(doc *firestore.DocumentSnapshot) (*entity.Product, error) {
	var product entity.Product
	if err := doc.DataTo(&product); err != nil {
		return nil, err
	}
	product.ID = doc.Ref.ID
	return &product, nil
}

func sendProductSnapshot(ctx context.Context, out chan<- repository.ProductSnapshot, snap repository.ProductSnapshot) bool {
	select {
	case out <- snap:
		return true
	case <-ctx.Done():
		return false
	}
}
