// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"erpchat/internal/domain/auth"
	"erpchat/internal/domain/catalog"
	"erpchat/internal/domain/dialogue"
	"erpchat/internal/infrastructure/http/v1/handlers"
	"erpchat/internal/infrastructure/http/v1/middleware"
	"erpchat/internal/infrastructure/storage/postgres"
	"erpchat/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// AuthService issues and validates access tokens
	AuthService *auth.Service

	// Catalogs is the cached reference-data service
	Catalogs *catalog.Service

	// Controller drives the dialogue state machine
	Controller *dialogue.Controller

	// Sessions holds live dialogue sessions
	Sessions *dialogue.Store

	// Transcripts persists dialogues; nil disables transcript endpoints
	Transcripts *postgres.TranscriptStore

	// Version reported by /health/info
	Version string
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.Catalogs, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	baseHandler := handlers.NewBaseHandler()

	// API v1
	api := router.Group("/api/v1")
	{
		// Public: token exchange
		authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)
		api.POST("/auth/token", authHandler.Token)

		// Protected endpoints
		protected := api.Group("")
		protected.Use(middleware.Auth(cfg.AuthService))

		chatHandler := handlers.NewChatHandler(baseHandler, cfg.Controller, cfg.Sessions, cfg.Transcripts)
		protected.POST("/chat", chatHandler.Chat)

		catalogHandler := handlers.NewCatalogHandler(baseHandler, cfg.Catalogs)
		catalogGroup := protected.Group("/catalog")
		{
			catalogGroup.GET("/vendors", catalogHandler.ListVendors)
			catalogGroup.GET("/products", catalogHandler.ListProducts)
			catalogGroup.GET("/warehouses", catalogHandler.ListWarehouses)
			catalogGroup.POST("/refresh", catalogHandler.Refresh)
		}

		// Transcript endpoints only exist when persistence is configured.
		if cfg.Transcripts != nil {
			protected.GET("/sessions", chatHandler.ListSessions)
			protected.GET("/sessions/:id/messages", chatHandler.ListMessages)
		}
	}

	return router
}
