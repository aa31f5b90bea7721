package main

import (
	"context"
	"errors"
	"log"

	"cardwise/internal/auth"
	"cardwise/internal/cache"
	"cardwise/internal/config"
	"cardwise/internal/db"
	"cardwise/internal/handler"
	"cardwise/internal/model"
	"cardwise/internal/repository"
	"cardwise/internal/service"
)

const (
	demoEmail    = "demo@cardwise.local"
	demoPassword = "demo-password"
	demoName     = "Demo User"
)

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.Account{}, &model.Card{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	accountRepo := repository.NewAccountRepository(gormDB)
	cardRepo := repository.NewCardRepository(gormDB)
	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)
	authService := service.NewAuthService(accountRepo, jwtService, tokenStore)

	validator := service.NewCardValidator()
	cardService := service.NewCardService(cardRepo, validator, cacheClient)

	ctx := context.Background()

	// Create the demo account, or reuse it when the script has run before.
	account, err := authService.Register(ctx, demoEmail, demoPassword, demoName)
	if err != nil {
		if !errors.Is(err, service.ErrAccountAlreadyExists) {
			log.Fatalf("Failed to create demo account: %v", err)
		}
		account, err = accountRepo.FindByEmail(ctx, demoEmail)
		if err != nil {
			log.Fatalf("Failed to load existing demo account: %v", err)
		}
		log.Printf("Reusing existing demo account %s", account.ID)
	} else {
		log.Printf("Created demo account %s (%s)", account.ID, demoEmail)
	}

	seeded := 0
	for _, card := range handler.DemoCards(account.ID) {
		if _, err := cardService.Add(ctx, card); err != nil {
			log.Fatalf("Failed to seed card %q: %v", card.Name, err)
		}
		log.Printf("Seeded card %q (%s)", card.Name, validator.MaskNumber(card.Number))
		seeded++
	}

	log.Printf("Seed completed: %d cards for account %s", seeded, account.ID)
}
