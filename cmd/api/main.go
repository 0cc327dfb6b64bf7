package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"trifoody/internal/adapter/api"
	"trifoody/internal/adapter/api/handler"
	apimiddleware "trifoody/internal/adapter/api/middleware"
	"trifoody/internal/adapter/api/router"
	"trifoody/internal/adapter/repository"
	"trifoody/internal/adapter/repository/memory"
	domainrepo "trifoody/internal/domain/repository"
	"trifoody/internal/infrastructure/firebase"
	"trifoody/internal/infrastructure/launchstate"
	"trifoody/internal/infrastructure/ratelimit"
	"trifoody/internal/infrastructure/storage"
	"trifoody/internal/infrastructure/websocket"
	"trifoody/internal/usecase"
	"trifoody/pkg/config"
)

type repositories struct {
	users        domainrepo.UserRepository
	products     domainrepo.ProductRepository
	transactions domainrepo.TransactionRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opt option.ClientOption
	if cfg.ServiceAccountJSON != "" {
		log.Printf("Using Firebase service account from environment variable")
		opt = option.WithCredentialsJSON([]byte(cfg.ServiceAccountJSON))
	} else {
		if _, err := os.Stat(cfg.ServiceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", cfg.ServiceAccountPath)
		}
		log.Printf("Using Firebase service account from file: %s", cfg.ServiceAccountPath)
		opt = option.WithCredentialsFile(cfg.ServiceAccountPath)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{
		ProjectID:     cfg.FirebaseProject,
		StorageBucket: cfg.StorageBucket,
	}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}
	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient, cfg.FirebaseAPIKey)

	var repos repositories
	switch cfg.StoreDriver {
	case "memory":
		log.Printf("Using in-memory document store")
		store := memory.NewStore()
		repos = repositories{
			users:        store.Users(),
			products:     store.Products(),
			transactions: store.Transactions(),
		}
	case "firestore":
		firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
		if err != nil {
			log.Fatalf("Failed to create Firestore client: %v", err)
		}
		defer firestoreClient.Close()

		repos = repositories{
			users:        repository.NewFirestoreUserRepository(firestoreClient),
			products:     repository.NewFirestoreProductRepository(firestoreClient),
			transactions: repository.NewFirestoreTransactionRepository(firestoreClient),
		}
	default:
		log.Fatalf("Unknown STORE_DRIVER %q (want firestore or memory)", cfg.StoreDriver)
	}

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	launchStore, err := launchstate.NewFileStore(cfg.LaunchStatePath)
	if err != nil {
		log.Fatalf("Failed to open launch state: %v", err)
	}

	authUseCase := usecase.NewAuthUseCase(repos.users, firebaseAuthClient)
	navigationUseCase := usecase.NewNavigationUseCase(repos.users, launchStore)
	profileUseCase := usecase.NewProfileUseCase(repos.users, storageClient, cfg.ProfileImageQuality)
	listingUseCase := usecase.NewListingUseCase(repos.products, repos.users)
	tradeUseCase := usecase.NewTradeUseCase(repos.products, repos.transactions, repos.users)
	feedUseCase := usecase.NewFeedUseCase(repos.products, repos.transactions, repos.users)

	handler.Setup(authUseCase, navigationUseCase, profileUseCase, listingUseCase, tradeUseCase, feedUseCase)
	handler.SetupHealthHandler(firebaseAuthClient, cfg.StoreDriver)

	wsManager := websocket.NewManager(feedUseCase)
	wsManager.Start(ctx)

	tradeUseCase.StartReconcileJob(ctx, cfg.ReconcileInterval)

	limiters := router.Limiters{
		Auth:     ratelimit.NewRateLimiter(5, time.Minute, 5),
		Mutation: ratelimit.NewRateLimiter(30, time.Minute, 10),
	}
	limiters.Auth.StartCleanupRoutine(30*time.Minute, time.Hour, ctx.Done())
	limiters.Mutation.StartCleanupRoutine(30*time.Minute, time.Hour, ctx.Done())

	e := echo.New()
	e.Debug = cfg.IsDevelopment()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(firebaseAuthClient)
	router.Setup(e, authMiddleware, limiters, handler.NewWebSocketHandler(wsManager))

	go func() {
		log.Printf("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
