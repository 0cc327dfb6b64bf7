package repository

import (
	"context"
	stderrors "errors"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"trifoody/internal/domain/entity"
	"trifoody/internal/domain/repository"
	"trifoody/pkg/errors"
	"trifoody/pkg/logger"
)

const transactionsCollection = "transactions"

type firestoreTransactionRepository struct {
	client *firestore.Client
}

func NewFirestoreTransactionRepository(client *firestore.Client) repository.TransactionRepository {
	return &firestoreTransactionRepository{
		client: client,
	}
}

func (r *firestoreTransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	doc := r.client.Collection(transactionsCollection).NewDoc()

	if _, err := doc.Create(ctx, transaction); err != nil {
		return errors.Unavailable("Failed to create transaction", err)
	}

	transaction.ID = doc.ID
	return nil
}

func (r *firestoreTransactionRepository) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	doc, err := r.client.Collection(transactionsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Transaction", err)
		}
		return nil, errors.Unavailable("Failed to get transaction", err)
	}

	transaction, err := decodeTransaction(doc)
	if err != nil {
		return nil, errors.NotFound("Transaction", err)
	}

	return transaction, nil
}

func (r *firestoreTransactionRepository) List(ctx context.Context, filter entity.TransactionFilter) ([]*entity.Transaction, error) {
	iter := r.transactionQuery(filter).Documents(ctx)
	defer iter.Stop()

	var transactions []*entity.Transaction
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Unavailable("Failed to list transactions", err)
		}

		transaction, err := decodeTransaction(doc)
		if err != nil {
			logger.Warn("Dropping undecodable transaction %s: %v", doc.Ref.ID, err)
			continue
		}
		transactions = append(transactions, transaction)
	}

	return transactions, nil
}

func (r *firestoreTransactionRepository) Watch(ctx context.Context, filter entity.TransactionFilter) <-chan repository.TransactionSnapshot {
	out := make(chan repository.TransactionSnapshot, 1)

	go func() {
		defer close(out)

		snapshots := r.transactionQuery(filter).Snapshots(ctx)
		defer snapshots.Stop()

		for {
			snap, err := snapshots.Next()
			if err != nil {
				if err == iterator.Done || ctx.Err() != nil {
					return
				}
				sendTransactionSnapshot(ctx, out, repository.TransactionSnapshot{
					Err: errors.Unavailable("Transaction subscription failed", err),
				})
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				sendTransactionSnapshot(ctx, out, repository.TransactionSnapshot{
					Err: errors.Unavailable("Failed to read transaction snapshot", err),
				})
				continue
			}

			transactions := make([]*entity.Transaction, 0, len(docs))
			for _, doc := range docs {
				transaction, err := decodeTransaction(doc)
				if err != nil {
					logger.Warn("Dropping undecodable transaction %s: %v", doc.Ref.ID, err)
					continue
				}
				transactions = append(transactions, transaction)
			}

			if !sendTransactionSnapshot(ctx, out, repository.TransactionSnapshot{Transactions: transactions}) {
				return
			}
		}
	}()

	return out
}

func (r *firestoreTransactionRepository) StartTrade(ctx context.Context, transaction *entity.Transaction) error {
	productRef := r.client.Collection(productsCollection).Doc(transaction.ProductID)
	txnRef := r.client.Collection(transactionsCollection).NewDoc()

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(productRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Product", err)
			}
			return err
		}

		product, err := decodeProduct(doc)
		if err != nil {
			return errors.NotFound("Product", err)
		}
		if product.IsTrading {
			return errors.Conflict("Product is already in a trade")
		}

		if err := tx.Create(txnRef, transaction); err != nil {
			return err
		}
		return tx.Update(productRef, []firestore.Update{
			{Path: "isTrading", Value: true},
		})
	})
	if err != nil {
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			return appErr
		}
		return errors.Unavailable("Failed to start trade", err)
	}

	transaction.ID = txnRef.ID
	return nil
}

func (r *firestoreTransactionRepository) transactionQuery(filter entity.TransactionFilter) firestore.Query {
	query := r.client.Collection(transactionsCollection).Query

	if filter.BuyerID != "" {
		query = query.Where("buyerID", "==", filter.BuyerID)
	}
	if filter.SellerID != "" {
		query = query.Where("sellerID", "==", filter.SellerID)
	}
	if filter.Status != "" {
		query = query.Where("status", "==", filter.Status)
	}

	return query
}

func decodeTransaction(doc *firestore.DocumentSnapshot) (*entity.Transaction, error) {
	var transaction entity.Transaction
	if err := doc.DataTo(&transaction); err != nil {
		return nil, err
	}
	transaction.ID = doc.Ref.ID
	return &transaction, nil
}

func sendTransactionSnapshot(ctx context.Context, out chan<- repository.TransactionSnapshot, snap repository.TransactionSnapshot) bool {
	select {
	case out <- snap:
		return true
	case <-ctx.Done():
		return false
	}
}
