package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"foodlink/internal/adapter/api"
	"foodlink/internal/adapter/api/handler"
	apimiddleware "foodlink/internal/adapter/api/middleware"
	"foodlink/internal/adapter/api/router"
	"foodlink/internal/adapter/repository"
	"foodlink/internal/infrastructure/firebase"
	"foodlink/internal/infrastructure/websocket"
	"foodlink/internal/usecase"
	"foodlink/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption

	// Prefer inline credentials (for production), fall back to a key file.
	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		log.Printf("Using Firebase service account from environment variable")
		opts = append(opts, option.WithCredentialsJSON([]byte(serviceAccountJSON)))
	} else if cfg.ServiceAccountPath != "" {
		if _, err := os.Stat(cfg.ServiceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", cfg.ServiceAccountPath)
		}
		log.Printf("Using Firebase service account from file: %s", cfg.ServiceAccountPath)
		opts = append(opts, option.WithCredentialsFile(cfg.ServiceAccountPath))
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	roomRepo := repository.NewFirestoreRoomRepository(firestoreClient)
	messageRepo := repository.NewFirestoreMessageRepository(firestoreClient)
	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	listingRepo := repository.NewFirestoreListingRepository(firestoreClient)

	firebaseAuthClient := firebase.NewAuthClient(authClient)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	chatUseCase := usecase.NewChatUseCase(roomRepo, messageRepo, userRepo, listingRepo, wsManager)
	ratingUseCase := usecase.NewRatingUseCase(roomRepo, userRepo, usecase.NewRandomCarbonEstimator())
	userUseCase := usecase.NewUserUseCase(userRepo, firebaseAuthClient)
	listingUseCase := usecase.NewListingUseCase(listingRepo)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)

	chatHandler := handler.NewChatHandler(chatUseCase, ratingUseCase)
	userHandler := handler.NewUserHandler(userUseCase)
	listingHandler := handler.NewListingHandler(listingUseCase)
	wsHandler := handler.NewWebSocketHandler(wsManager, firebaseAuthClient)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	router.Setup(e, authMiddleware, chatHandler, userHandler, listingHandler, wsHandler)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
