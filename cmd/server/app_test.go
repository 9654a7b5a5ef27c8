package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iyunix/go-saber/internal/config"
	"github.com/iyunix/go-saber/internal/database"
	"github.com/iyunix/go-saber/internal/ratelimit"
	"github.com/iyunix/go-saber/internal/services"
	"github.com/iyunix/go-saber/internal/services/chat"
)

func testConfig() *config.Config {
	return &config.Config{
		ServerPort:     "0",
		Environment:    "test",
		JWTSecretKey:   "secret",
		JWTTTL:         time.Hour,
		LLMAPIKey:      "key",
		LLMBaseURL:     "http://127.0.0.1:1",
		LLMChatModel:   "command-r-plus",
		LLMTitleModel:  "command-r-plus",
		LLMTimeout:     time.Second,
		AllowedOrigins: []string{"*"},
		AuthRateLimit:  20,
		AuthRateWindow: 15 * time.Minute,
		StaticDir:      "static",
	}
}

func TestShutdownTimeoutOutlastsDetachedTurns(t *testing.T) {
	cfg := chat.DefaultConfig()
	got := shutdownTimeout(cfg)
	if got <= cfg.GenerationTimeout+cfg.PersistTimeout {
		t.Fatalf("shutdown timeout %v does not cover generation %v plus persistence %v",
			got, cfg.GenerationTimeout, cfg.PersistTimeout)
	}
}

func TestInitializeApplication(t *testing.T) {
	db, err := database.OpenMemory(t.Name())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	app, err := InitializeApplication(testConfig(), &services.NoOpLogger{}, db)
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	defer app.Close()

	if _, ok := app.Limiter.(*ratelimit.MemoryRateLimiter); !ok {
		t.Errorf("expected in-memory limiter without REDIS_ADDR, got %T", app.Limiter)
	}
	if app.ShutdownTimeout != shutdownTimeout(chat.DefaultConfig()) {
		t.Errorf("ShutdownTimeout = %v", app.ShutdownTimeout)
	}

	rec := httptest.NewRecorder()
	app.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}
}

func TestInitializeApplication_BadPromptsFile(t *testing.T) {
	db, err := database.OpenMemory(t.Name())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	cfg := testConfig()
	cfg.PromptsFile = t.TempDir() + "/missing.yaml"

	if _, err := InitializeApplication(cfg, &services.NoOpLogger{}, db); err == nil {
		t.Fatal("expected error for a missing prompts file")
	}
}
