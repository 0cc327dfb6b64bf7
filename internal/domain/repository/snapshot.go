package repository

import "trifoody/internal/domain/entity"

// ProductSnapshot is one delivery of a live product query.
type ProductSnapshot struct {
	Products []*entity.Product
	Err      error
}

// TransactionSnapshot is one delivery of a live transaction query.
type TransactionSnapshot struct {
	Transactions []*entity.Transaction
	Err          error
}
