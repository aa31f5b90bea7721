package main

import (
	"log"
	"net/http"

	_ "cardwise/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"cardwise/internal/auth"
	"cardwise/internal/cache"
	"cardwise/internal/config"
	"cardwise/internal/db"
	"cardwise/internal/handler"
	"cardwise/internal/model"
	"cardwise/internal/repository"
	"cardwise/internal/router"
	"cardwise/internal/service"
)

// @title Cardwise API
// @version 1.0
// @description Card wallet with rule-based card suggestions and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	// Pick the storage backend. The card and account repositories share the
	// same contract either way; everything above them is identical.
	var (
		cardRepo    repository.CardRepository
		accountRepo repository.AccountRepository
	)
	switch cfg.StorageBackend {
	case config.StorageMemory:
		log.Println("Using in-memory storage backend")
		cardRepo = repository.NewMemoryCardRepository()
		accountRepo = repository.NewMemoryAccountRepository()
	case config.StorageMySQL:
		gormDB, err := db.NewMySQL(cfg.MySQLDSN)
		if err != nil {
			log.Fatalf("database init: %v", err)
		}
		if err := gormDB.AutoMigrate(
			&model.Account{},
			&model.Card{},
		); err != nil {
			log.Fatalf("auto-migrate: %v", err)
		}
		cardRepo = repository.NewCardRepository(gormDB)
		accountRepo = repository.NewAccountRepository(gormDB)
	default:
		log.Fatalf("unknown storage backend: %q", cfg.StorageBackend)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(accountRepo, jwtService, tokenStore)
	cardService := service.NewCardService(cardRepo, service.NewCardValidator(), cacheClient)
	suggestionService := service.NewSuggestionService()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	cardHandler := handler.NewCardHandler(cardService)
	suggestionHandler := handler.NewSuggestionHandler(cardService, suggestionService)
	seedHandler := handler.NewSeedHandler(cardService)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		cardHandler,
		suggestionHandler,
		seedHandler,
	)

	if cfg.SwaggerHost != "" {
		log.Printf("Swagger documentation available at: http://%s/swagger/index.html", cfg.SwaggerHost)
	} else {
		log.Printf("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.ServerPort)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
