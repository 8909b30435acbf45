package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hglennon/storyteller-backend/internal/config"
	"github.com/hglennon/storyteller-backend/internal/coordinator"
	"github.com/hglennon/storyteller-backend/internal/ws"
)

func SetupRoutes(c *coordinator.Coordinator, cfg config.ServerConfig, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Public routes
	r.Get("/healthz", Healthz)
	r.Get("/rooms/{room}", RoomInfo(c))
	r.Get("/ws", ws.Handler(c, cfg.AllowedOrigins, logger))
	return r
}
