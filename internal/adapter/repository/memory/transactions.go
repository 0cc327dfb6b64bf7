package memory

import (
	"context"
	"sort"

	"trifoody/internal/domain/entity"
	"trifoody/internal/domain/repository"
	"trifoody/pkg/errors"
)

type transactionDoc struct {
	entity.Transaction
}

type transactionRepository struct {
	store *Store
}

func (r *transactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	if err := r.store.takeFault(OpCreateTxn); err != nil {
		return errors.Unavailable("Failed to create transaction", err)
	}

	r.store.mu.Lock()
	id := newID()
	doc := transactionDoc{Transaction: *transaction}
	doc.ID = id
	r.store.transactions[id] = doc
	r.store.mu.Unlock()

	transaction.ID = id
	r.store.changed(colTransactions)
	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	doc, ok := r.store.transactions[id]
	if !ok {
		return nil, errors.NotFound("Transaction", nil)
	}
	t := doc.Transaction
	return &t, nil
}

func (r *transactionRepository) List(ctx context.Context, filter entity.TransactionFilter) ([]*entity.Transaction, error) {
	return r.store.queryTransactions(filter), nil
}

func (r *transactionRepository) Watch(ctx context.Context, filter entity.TransactionFilter) <-chan repository.TransactionSnapshot {
	out := make(chan repository.TransactionSnapshot, 1)

	go watch(ctx, r.store, colTransactions, out, func() (repository.TransactionSnapshot, bool) {
		if err := r.store.takeFault(OpWatchTxns); err != nil {
			return repository.TransactionSnapshot{Err: errors.Unavailable("Transaction subscription failed", err)}, false
		}
		return repository.TransactionSnapshot{Transactions: r.store.queryTransactions(filter)}, true
	})

	return out
}

func (r *transactionRepository) StartTrade(ctx context.Context, transaction *entity.Transaction) error {
	if err := r.store.takeFault(OpStartTrade); err != nil {
		return errors.Unavailable("Failed to start trade", err)
	}

	r.store.mu.Lock()
	product, ok := r.store.products[transaction.ProductID]
	if !ok {
		r.store.mu.Unlock()
		return errors.NotFound("Product", nil)
	}
	if product.IsTrading {
		r.store.mu.Unlock()
		return errors.Conflict("Product is already in a trade")
	}

	id := newID()
	doc := transactionDoc{Transaction: *transaction}
	doc.ID = id
	r.store.transactions[id] = doc
	product.IsTrading = true
	r.store.products[transaction.ProductID] = product
	r.store.mu.Unlock()

	transaction.ID = id
	r.store.changed(colTransactions)
	r.store.changed(colProducts)
	return nil
}

func (s *Store) queryTransactions(filter entity.TransactionFilter) []*entity.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	transactions := make([]*entity.Transaction, 0)
	for _, doc := range s.transactions {
		t := doc.Transaction
		if filter.Matches(&t) {
			transactions = append(transactions, &t)
		}
	}
	sort.Slice(transactions, func(i, j int) bool { return transactions[i].ID < transactions[j].ID })
	return transactions
}
