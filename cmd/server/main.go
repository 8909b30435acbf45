package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hglennon/storyteller-backend/internal/config"
	"github.com/hglennon/storyteller-backend/internal/coordinator"
	"github.com/hglennon/storyteller-backend/internal/httpapi"
	"github.com/hglennon/storyteller-backend/internal/observability"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("STORYTELLER_CONFIG"))
	if err != nil {
		log.Fatal(err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	c := coordinator.New(ctx, logger)

	// Build the router *with* the coordinator injected
	handler := httpapi.SetupRoutes(c, cfg.Server, logger)

	logger.Info("listening", zap.String("addr", cfg.Server.Addr()))
	if err := http.ListenAndServe(cfg.Server.Addr(), handler); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
