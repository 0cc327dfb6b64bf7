package usecase

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"trifoody/internal/domain/entity"
	"trifoody/internal/domain/repository"
	"trifoody/pkg/errors"
	"trifoody/pkg/logger"
)

const (
	defaultFeedRetryDelay = 5 * time.Second
	productFetchLimit     = 8
)

type FeedUseCase struct {
	productRepo     repository.ProductRepository
	transactionRepo repository.TransactionRepository
	userRepo        repository.UserRepository
	retryDelay      time.Duration
}

func NewFeedUseCase(
	productRepo repository.ProductRepository,
	transactionRepo repository.TransactionRepository,
	userRepo repository.UserRepository,
) *FeedUseCase {
	return &FeedUseCase{
		productRepo:     productRepo,
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		retryDelay:      defaultFeedRetryDelay,
	}
}

// SetRetryDelay sets how long a live feed waits before reopening a failed subscription.
func (uc *FeedUseCase) SetRetryDelay(d time.Duration) {
	uc.retryDelay = d
}

type feedSnapshot struct {
	products []*entity.Product
	err      error
}

// Fetch reads the current contents of one of the caller's feeds.
func (uc *FeedUseCase) Fetch(ctx context.Context, userID string, kind entity.FeedKind) (*entity.FeedView, error) {
	spec, err := uc.feedSpec(ctx, userID, kind)
	if err != nil {
		return nil, err
	}

	var products []*entity.Product
	switch spec.Source {
	case entity.SourceBuyerTrades:
		txns, err := uc.transactionRepo.List(ctx, buyerTradesFilter(userID))
		if err != nil {
			return nil, errors.Unavailable("Failed to load transactions", err)
		}
		products, err = uc.resolveProducts(ctx, txns)
		if err != nil {
			return nil, errors.Unavailable("Failed to load traded products", err)
		}
	default:
		products, err = uc.productRepo.List(ctx, productFilter(spec, userID))
		if err != nil {
			return nil, errors.Unavailable("Failed to load products", err)
		}
	}

	return &entity.FeedView{Kind: kind, Products: nonNil(products)}, nil
}

// Subscribe starts a live feed for userID. publish receives the full list on every change
// until ctx ends. Setup errors are returned before anything is published.
func (uc *FeedUseCase) Subscribe(ctx context.Context, userID string, kind entity.FeedKind, publish func(entity.FeedView)) error {
	spec, err := uc.feedSpec(ctx, userID, kind)
	if err != nil {
		return err
	}

	synchronizer := NewFeedSynchronizer(kind, userID, func(ctx context.Context) <-chan feedSnapshot {
		return uc.open(ctx, spec, userID)
	}, publish)
	synchronizer.retryDelay = uc.retryDelay

	go synchronizer.Run(ctx)
	return nil
}

func (uc *FeedUseCase) feedSpec(ctx context.Context, userID string, kind entity.FeedKind) (entity.FeedSpec, error) {
	profile, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return entity.FeedSpec{}, err
	}

	cfg, _ := entity.RoleConfigFor(profile.Role())
	spec, ok := cfg.Feed(kind)
	if !ok {
		return entity.FeedSpec{}, errors.NotFound(fmt.Sprintf("Feed %q for %s", kind, cfg.Role), nil)
	}
	return spec, nil
}

func (uc *FeedUseCase) open(ctx context.Context, spec entity.FeedSpec, userID string) <-chan feedSnapshot {
	out := make(chan feedSnapshot)

	if spec.Source == entity.SourceBuyerTrades {
		go func() {
			defer close(out)
			for snap := range uc.transactionRepo.Watch(ctx, buyerTradesFilter(userID)) {
				next := feedSnapshot{err: snap.Err}
				if snap.Err == nil {
					next.products, next.err = uc.resolveProducts(ctx, snap.Transactions)
				}
				select {
				case out <- next:
				case <-ctx.Done():
					return
				}
			}
		}()
		return out
	}

	go func() {
		defer close(out)
		for snap := range uc.productRepo.Watch(ctx, productFilter(spec, userID)) {
			select {
			case out <- feedSnapshot{products: snap.Products, err: snap.Err}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// resolveProducts fetches the product of every transaction, once per product, keeping transaction order.
// Products that no longer exist are skipped.
func (uc *FeedUseCase) resolveProducts(ctx context.Context, txns []*entity.Transaction) ([]*entity.Product, error) {
	ids := make([]string, 0, len(txns))
	seen := make(map[string]bool, len(txns))
	for _, t := range txns {
		if t.ProductID == "" || seen[t.ProductID] {
			continue
		}
		seen[t.ProductID] = true
		ids = append(ids, t.ProductID)
	}

	fetched := make([]*entity.Product, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(productFetchLimit)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			p, err := uc.productRepo.GetByID(gctx, id)
			if errors.Is(err, errors.CodeNotFound) {
				logger.Warn("Traded product %s no longer exists", id)
				return nil
			}
			if err != nil {
				return err
			}
			fetched[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	products := make([]*entity.Product, 0, len(fetched))
	for _, p := range fetched {
		if p != nil {
			products = append(products, p)
		}
	}
	return products, nil
}

func buyerTradesFilter(userID string) entity.TransactionFilter {
	return entity.TransactionFilter{BuyerID: userID, Status: entity.TransactionStatusTrading}
}

func productFilter(spec entity.FeedSpec, userID string) entity.ProductFilter {
	filter := spec.Filter
	if spec.Source == entity.SourceOwnerTrading {
		filter.OwnerID = userID
	}
	return filter
}

func nonNil(products []*entity.Product) []*entity.Product {
	if products == nil {
		return []*entity.Product{}
	}
	return products
}
