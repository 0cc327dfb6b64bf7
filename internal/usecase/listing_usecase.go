package usecase

import (
	"context"
	"time"

	"trifoody/internal/domain/entity"
	"trifoody/internal/domain/repository"
	"trifoody/pkg/errors"
	"trifoody/pkg/logger"
	"trifoody/pkg/utils"
)

type ListingUseCase struct {
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	now         func() time.Time
}

func NewListingUseCase(productRepo repository.ProductRepository, userRepo repository.UserRepository) *ListingUseCase {
	return &ListingUseCase{
		productRepo: productRepo,
		userRepo:    userRepo,
		now:         time.Now,
	}
}

// CreateListingInput is the listing form as typed. Price and pickup time are free text.
type CreateListingInput struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Price          string `json:"price"`
	PickupLocation string `json:"pickup_location"`
	PickupTime     string `json:"pickup_time"`
}

func (uc *ListingUseCase) CreateListing(ctx context.Context, ownerID string, input CreateListingInput) (*entity.Product, error) {
	owner, err := uc.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	cfg, _ := entity.RoleConfigFor(owner.Role())
	if !cfg.CanList {
		return nil, errors.Forbidden("This account type cannot list products", nil)
	}

	pickupTime, err := utils.ParsePickupTime(input.PickupTime, uc.now())
	if err != nil {
		return nil, errors.BadRequest("Pickup time must be a date (YYYY-MM-DD) or an RFC 3339 timestamp", err)
	}

	product := &entity.Product{
		Title:          input.Title,
		Description:    input.Description,
		Price:          utils.ParsePrice(input.Price),
		PickupLocation: input.PickupLocation,
		PickupTime:     pickupTime,
		OwnerID:        ownerID,
		IsTrading:      false,
		OwnerType:      cfg.Role,
	}

	if err := uc.productRepo.Create(ctx, product); err != nil {
		logger.LogMutationError("create_listing", ownerID, err)
		return nil, err
	}

	logger.Info("Listing created: productID=%s, ownerID=%s", product.ID, ownerID)
	return product, nil
}

func (uc *ListingUseCase) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	return uc.productRepo.GetByID(ctx, id)
}
