package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"claims-triage/internal/adapter/api"
	"claims-triage/internal/adapter/client"
	"claims-triage/internal/adapter/store"
	"claims-triage/internal/app"
	"claims-triage/internal/config"
	"claims-triage/internal/domain/repository"
	"claims-triage/internal/usecase"

	"github.com/redis/go-redis/v9"
	"google.golang.org/genai"
)

func main() {
	if loaded := config.LoadDotEnv(".env.dev"); len(loaded) == 0 {
		log.Println("Warning: .env.dev file not found, using system environment variables")
	}

	cfg, err := config.Load()
	if err == nil {
		err = cfg.RequireProvider()
	}
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := app.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := app.OpenStores(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open stores: %+v", err)
	}
	defer stores.Close()

	genaiClient, err := newGenAIClient(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to init genai client: %v", err)
	}

	gemini := client.NewGeminiClientFromClient(genaiClient, cfg.AIModel)
	generator := usecase.NewGuardedGenerator(gemini, cfg.AITimeout)
	orchestrator := usecase.NewTriageOrchestrator(generator, int32(cfg.AIThinkingBudget), logger)
	service := usecase.NewClaimsService(stores.Claims, stores.Versions, orchestrator, logger)

	// Redis throttles AI generation when configured.
	var limiter repository.RateLimiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		limiter = store.NewRedisLimiter(rdb, cfg.AIGenerateLimit, cfg.AIGenerateWindow)
	}

	server := api.NewApp("Claims Triage API", logger)
	api.SetupRouter(server, api.NewClaimsHandler(service), limiter, api.BuildInfo{Version: cfg.AppVersion, Env: cfg.Env}, logger)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.AITimeout+5*time.Second)
		defer cancel()
		if err := server.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}()

	logger.Info("claims triage API listening", "port", cfg.Port, "model", cfg.AIModel, "env", cfg.Env)
	if err := server.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

// newGenAIClient prefers an API key and falls back to Vertex AI.
func newGenAIClient(ctx context.Context, cfg config.Config) (*genai.Client, error) {
	if cfg.GeminiAPIKey != "" {
		return genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  cfg.GoogleCloudProject,
		Location: cfg.GoogleCloudLocation,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("vertex ai (project %s): %w", cfg.GoogleCloudProject, err)
	}
	return c, nil
}
