// File: cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iyunix/go-saber/internal/config"
	"github.com/iyunix/go-saber/internal/database"
	"github.com/iyunix/go-saber/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	logger := services.NewLogger("saber", cfg.Environment, cfg.LogLevel)

	db, err := database.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	app, err := InitializeApplication(cfg, logger, db)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	defer app.Close()

	healthCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := app.Provider.HealthCheck(healthCtx); err != nil {
		logger.Warn("LLM provider health check failed", "base_url", cfg.LLMBaseURL, "error", err)
	}
	cancel()

	// --- Server Configuration ---
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           app.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("SABER server starting",
		"port", cfg.ServerPort,
		"env", cfg.Environment,
		"db_driver", cfg.DBDriver,
		"chat_model", cfg.LLMChatModel,
	)

	// --- Start Server in Goroutine ---
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down server gracefully", "timeout", app.ShutdownTimeout)
	ctx, shutdownCancel := context.WithTimeout(context.Background(), app.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	logger.Info("Server exited")
}
