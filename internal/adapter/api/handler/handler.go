package handler

import (
	"trifoody/internal/usecase"
)

var (
	authHandler        *AuthHandler
	navigationHandler  *NavigationHandler
	profileHandler     *ProfileHandler
	productHandler     *ProductHandler
	transactionHandler *TransactionHandler
	feedHandler        *FeedHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	navigationUseCase *usecase.NavigationUseCase,
	profileUseCase *usecase.ProfileUseCase,
	listingUseCase *usecase.ListingUseCase,
	tradeUseCase *usecase.TradeUseCase,
	feedUseCase *usecase.FeedUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	navigationHandler = NewNavigationHandler(navigationUseCase)
	profileHandler = NewProfileHandler(profileUseCase)
	productHandler = NewProductHandler(listingUseCase)
	transactionHandler = NewTransactionHandler(tradeUseCase)
	feedHandler = NewFeedHandler(feedUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetNavigationHandler() *NavigationHandler {
	return navigationHandler
}

func GetProfileHandler() *ProfileHandler {
	return profileHandler
}

func GetProductHandler() *ProductHandler {
	return productHandler
}

func GetTransactionHandler() *TransactionHandler {
	return transactionHandler
}

func GetFeedHandler() *FeedHandler {
	return feedHandler
}
