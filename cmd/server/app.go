// File: cmd/server/app.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/iyunix/go-saber/internal/config"
	"github.com/iyunix/go-saber/internal/handlers"
	"github.com/iyunix/go-saber/internal/ratelimit"
	"github.com/iyunix/go-saber/internal/render"
	"github.com/iyunix/go-saber/internal/repository/conversation"
	"github.com/iyunix/go-saber/internal/repository/message"
	"github.com/iyunix/go-saber/internal/repository/user"
	"github.com/iyunix/go-saber/internal/services"
	"github.com/iyunix/go-saber/internal/services/ai"
	"github.com/iyunix/go-saber/internal/services/chat"
	"github.com/iyunix/go-saber/internal/services/user_services"
)

// Application aggregates all services and handlers
type Application struct {
	Config      *config.Config
	Logger      services.Logger
	Provider    ai.Provider
	ChatService *services.ChatService
	AuthService *user_services.AuthService
	Limiter     ratelimit.Limiter
	Handler     http.Handler

	// ShutdownTimeout lets in-flight turns finish generating and saving.
	ShutdownTimeout time.Duration
}

func ProvideAIConfig(cfg *config.Config) *ai.Config {
	aiConfig := ai.DefaultConfig()
	aiConfig.APIKey = cfg.LLMAPIKey
	aiConfig.BaseURL = cfg.LLMBaseURL
	aiConfig.ChatModel = cfg.LLMChatModel
	aiConfig.TitleModel = cfg.LLMTitleModel
	aiConfig.Timeout = cfg.LLMTimeout
	aiConfig.MaxRetries = cfg.LLMMaxRetries
	return aiConfig
}

func ProvideRateLimitConfig(cfg *config.Config) *ratelimit.Config {
	rlConfig := ratelimit.DefaultAuthConfig()
	rlConfig.MaxAttempts = cfg.AuthRateLimit
	rlConfig.WindowSize = cfg.AuthRateWindow
	return rlConfig
}

// shutdownTimeout covers the longest a detached turn can still run.
func shutdownTimeout(chatConfig *chat.Config) time.Duration {
	return chatConfig.GenerationTimeout + chatConfig.PersistTimeout + 5*time.Second
}

// ProvideLimiter uses Redis when REDIS_ADDR is set and reachable, and an
// in-process limiter otherwise.
func ProvideLimiter(cfg *config.Config, logger services.Logger) ratelimit.Limiter {
	rlConfig := ProvideRateLimitConfig(cfg)
	if cfg.RedisAddr == "" {
		return ratelimit.NewMemoryRateLimiter(rlConfig)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unreachable, using in-memory rate limiter", "addr", cfg.RedisAddr, "error", err)
		_ = client.Close()
		return ratelimit.NewMemoryRateLimiter(rlConfig)
	}
	logger.Info("Using Redis rate limiter", "addr", cfg.RedisAddr)
	return ratelimit.NewRedisRateLimiter(client, rlConfig, "saber:ratelimit")
}

// InitializeApplication builds the dependency graph on an open, migrated db.
func InitializeApplication(cfg *config.Config, logger services.Logger, db *gorm.DB) (*Application, error) {
	// --- Repositories ---
	userRepo := user.NewGormUserRepository(db)
	convRepo := conversation.NewConversationRepository(db)
	msgRepo := message.NewMessageRepository(db)

	// --- Provider & prompts ---
	provider, err := ai.NewOpenAIProvider(ProvideAIConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("initialize LLM provider: %w", err)
	}
	prompts, err := chat.LoadPrompts(cfg.PromptsFile)
	if err != nil {
		return nil, fmt.Errorf("load prompts: %w", err)
	}

	// --- Services ---
	chatConfig := chat.DefaultConfig()
	titles := chat.NewTitleGenerator(chatConfig, prompts, provider, logger)
	resolver := chat.NewResolver(convRepo, msgRepo, titles, logger)
	orchestrator := chat.NewOrchestrator(chatConfig, resolver, msgRepo, provider, prompts, logger)

	chatService, err := services.NewChatService(convRepo, msgRepo, userRepo, orchestrator, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize chat service: %w", err)
	}
	authService := user_services.NewAuthService(userRepo, cfg.JWTSecretKey, cfg.JWTTTL, logger)
	limiter := ProvideLimiter(cfg, logger)

	// --- Handlers ---
	router := handlers.NewRouter(handlers.RouterConfig{
		Auth:           handlers.NewAuthHandler(authService, logger),
		Chat:           handlers.NewChatHandler(chatService, render.NewMarkdown(), logger),
		Log:            handlers.NewLogHandler(logger),
		Pages:          handlers.NewPageHandler(cfg.StaticDir),
		Verifier:       authService,
		AuthLimiter:    limiter,
		AllowedOrigins: cfg.AllowedOrigins,
		TrustProxy:     cfg.TrustProxy,
		Logger:         logger,
	})

	return &Application{
		Config:      cfg,
		Logger:      logger,
		Provider:    provider,
		ChatService: chatService,
		AuthService: authService,
		Limiter:     limiter,
		Handler:     router,

		ShutdownTimeout: shutdownTimeout(chatConfig),
	}, nil
}

func (a *Application) Close() error {
	return a.Limiter.Close()
}
