package usecase

import (
	"context"
	"time"

	"trifoody/internal/domain/entity"
	"trifoody/internal/domain/repository"
	"trifoody/pkg/errors"
	"trifoody/pkg/logger"
)

type TradeUseCase struct {
	productRepo     repository.ProductRepository
	transactionRepo repository.TransactionRepository
	userRepo        repository.UserRepository
}

func NewTradeUseCase(
	productRepo repository.ProductRepository,
	transactionRepo repository.TransactionRepository,
	userRepo repository.UserRepository,
) *TradeUseCase {
	return &TradeUseCase{
		productRepo:     productRepo,
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
	}
}

// StartTransaction opens a trade between buyerID and the owner of productID. The transaction
// is created and the product marked as trading in one atomic write.
func (uc *TradeUseCase) StartTransaction(ctx context.Context, buyerID, productID string) (*entity.Transaction, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if product.OwnerID == buyerID {
		return nil, errors.BadRequest("You cannot trade your own product", nil)
	}
	if product.IsTrading {
		return nil, errors.Conflict("Product is already in a trade")
	}

	buyer, err := uc.userRepo.GetByID(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	cfg, _ := entity.RoleConfigFor(buyer.Role())
	browse, ok := cfg.Feed(entity.FeedBrowse)
	if !ok || !browse.Filter.Matches(product) {
		return nil, errors.Forbidden("This product is not available to your account type", nil)
	}

	txn := &entity.Transaction{
		ProductID: product.ID,
		BuyerID:   buyerID,
		SellerID:  product.OwnerID,
		Status:    entity.TransactionStatusTrading,
	}
	if err := uc.transactionRepo.StartTrade(ctx, txn); err != nil {
		logger.LogMutationError("start_transaction", buyerID, err)
		return nil, err
	}

	logger.Info("Transaction started: transactionID=%s, productID=%s, buyerID=%s", txn.ID, product.ID, buyerID)
	return txn, nil
}

// FindInconsistencies lists trading transactions whose product is gone or not marked as trading.
func (uc *TradeUseCase) FindInconsistencies(ctx context.Context) ([]entity.Inconsistency, error) {
	txns, err := uc.transactionRepo.List(ctx, entity.TransactionFilter{Status: entity.TransactionStatusTrading})
	if err != nil {
		return nil, err
	}

	var found []entity.Inconsistency
	for _, txn := range txns {
		product, err := uc.productRepo.GetByID(ctx, txn.ProductID)
		switch {
		case errors.Is(err, errors.CodeNotFound):
			found = append(found, entity.Inconsistency{TransactionID: txn.ID, ProductID: txn.ProductID, ProductMissing: true})
		case err != nil:
			return nil, err
		case !product.IsTrading:
			found = append(found, entity.Inconsistency{TransactionID: txn.ID, ProductID: txn.ProductID})
		}
	}
	return found, nil
}

type ReconcileReport struct {
	Repaired   []entity.Inconsistency `json:"repaired"`
	Unrepaired []entity.Inconsistency `json:"unrepaired"`
}

// Reconcile rolls every inconsistency forward by marking the product as trading.
// Transactions whose product no longer exists cannot be repaired and are reported.
func (uc *TradeUseCase) Reconcile(ctx context.Context) (*ReconcileReport, error) {
	found, err := uc.FindInconsistencies(ctx)
	if err != nil {
		return nil, err
	}

	report := &ReconcileReport{}
	for _, inc := range found {
		if inc.ProductMissing {
			report.Unrepaired = append(report.Unrepaired, inc)
			continue
		}
		if err := uc.productRepo.SetTrading(ctx, inc.ProductID, true); err != nil {
			logger.LogMutationError("reconcile_product", inc.ProductID, err)
			report.Unrepaired = append(report.Unrepaired, inc)
			continue
		}
		report.Repaired = append(report.Repaired, inc)
	}
	return report, nil
}

// StartReconcileJob runs Reconcile every interval until ctx ends. A non-positive interval disables the job.
func (uc *TradeUseCase) StartReconcileJob(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		logger.Info("Reconcile job disabled (interval %s)", interval)
		return
	}
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				report, err := uc.Reconcile(ctx)
				if err != nil {
					logger.Error("Reconcile job error: %v", err)
					continue
				}
				if len(report.Repaired) > 0 || len(report.Unrepaired) > 0 {
					logger.Warn("Reconcile job: repaired=%d, unrepaired=%d", len(report.Repaired), len(report.Unrepaired))
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}
