// Package main is the entry point for the erpchat API server:
// a conversational front-end that turns free-text Korean commands into
// validated ERP transactions.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"erpchat/internal/domain/auth"
	"erpchat/internal/domain/catalog"
	"erpchat/internal/domain/dialogue"
	"erpchat/internal/domain/transaction"
	"erpchat/internal/infrastructure/erp"
	v1 "erpchat/internal/infrastructure/http/v1"
	"erpchat/internal/infrastructure/storage/postgres"
	"erpchat/pkg/logger"
)

const version = "1.2.0"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting erpchat server")

	// --- ERP client (catalog source + submitter) ---
	erpClient := erp.NewClient(erp.Config{
		BaseURL: mustEnv("ERP_BASE_URL"),
		APIKey:  getEnv("ERP_API_KEY", ""),
		Timeout: getEnvDuration("ERP_TIMEOUT", erp.DefaultTimeout),
	})

	// --- Catalog cache ---
	catalogs := catalog.NewService(erpClient)
	if err := catalogs.Refresh(ctx); err != nil {
		// Start anyway: /health/ready stays red and the cron retries.
		log.Warnw("initial catalog load failed", "error", err)
	}

	refreshSchedule := getEnv("CATALOG_REFRESH_CRON", "@every 1h")
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(refreshSchedule, func() {
		if err := catalogs.Refresh(context.Background()); err != nil {
			log.Warnw("scheduled catalog refresh failed", "error", err)
		}
	}); err != nil {
		log.Fatalw("invalid catalog refresh schedule", "schedule", refreshSchedule, "error", err)
	}
	scheduler.Start()
	defer scheduler.Stop()
	log.Infow("catalog refresh scheduled", "schedule", refreshSchedule)

	// --- Dialogue pipeline ---
	classifier, err := transaction.NewClassifier(transaction.DefaultRules())
	if err != nil {
		log.Fatalw("failed to build classifier", "error", err)
	}
	extractor := transaction.NewExtractor(transaction.DefaultDefaults())
	controller := dialogue.NewController(classifier, extractor, catalogs, erpClient)
	sessions := dialogue.NewStore()

	// --- Optional transcript persistence ---
	var transcripts *postgres.TranscriptStore
	if dsn := getEnv("DATABASE_URL", ""); dsn != "" {
		pool, err := postgres.NewPool(ctx, dsn)
		if err != nil {
			log.Fatalw("failed to connect to database", "error", err)
		}
		defer pool.Close()

		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			log.Fatalw("failed to apply schema", "error", err)
		}

		transcripts, err = postgres.NewTranscriptStore(pool)
		if err != nil {
			log.Fatalw("failed to create transcript store", "error", err)
		}
		log.Info("transcript persistence enabled")
	} else {
		log.Info("transcript persistence disabled (no DATABASE_URL)")
	}

	// --- Auth ---
	authService := auth.NewService(auth.DefaultConfig(
		getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		getEnv("API_KEY_HASH", ""),
	))

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:      log,
		AuthService: authService,
		Catalogs:    catalogs,
		Controller:  controller,
		Sessions:    sessions,
		Transcripts: transcripts,
		Version:     version,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
