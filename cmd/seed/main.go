package main

import (
	"context"
	"log"

	"claims-triage/internal/app"
	"claims-triage/internal/config"
)

func main() {
	if loaded := config.LoadDotEnv(".env.dev"); len(loaded) == 0 {
		log.Println("Warning: .env.dev file not found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required to seed")
	}
	logger := app.NewLogger(cfg)
	ctx := context.Background()

	stores, err := app.OpenStores(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open stores: %+v", err)
	}
	defer stores.Close()

	created, err := app.SeedDemoClaims(ctx, stores.Claims)
	if err != nil {
		log.Fatalf("seed failed: %+v", err)
	}
	for _, c := range created {
		logger.Info("seeded claim", "claim_id", c.ID, "policy_number", c.PolicyNumber, "status", c.Status)
	}
}
