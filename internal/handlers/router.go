// File: internal/handlers/router.go
package handlers

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"

	"github.com/iyunix/go-saber/internal/middleware"
	"github.com/iyunix/go-saber/internal/ratelimit"
)

// RouterConfig wires the HTTP surface.
type RouterConfig struct {
	Auth  *AuthHandler
	Chat  *ChatHandler
	Log   *LogHandler
	Pages *PageHandler

	Verifier       middleware.TokenVerifier
	AuthLimiter    ratelimit.Limiter
	AllowedOrigins []string
	TrustProxy     bool
	Logger         Logger
}

// NewRouter builds the application handler. CORS, security headers, panic
// recovery and request logging wrap every response, including 404s.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	authMiddleware := middleware.NewJWTMiddleware(cfg.Verifier, cfg.Logger)
	authLimit := middleware.RateLimitMiddleware(cfg.AuthLimiter, "auth", cfg.TrustProxy, cfg.Logger)
	loginReset := middleware.AuthSuccessMiddleware(cfg.AuthLimiter, "auth", cfg.TrustProxy, cfg.Logger)

	// --- Public Routes ---
	r.HandleFunc("/health", Health).Methods(http.MethodGet)
	r.Handle("/api/register", authLimit(http.HandlerFunc(cfg.Auth.Register))).Methods(http.MethodPost)
	r.Handle("/api/login", authLimit(loginReset(http.HandlerFunc(cfg.Auth.Login)))).Methods(http.MethodPost)
	r.HandleFunc("/api/stats", cfg.Chat.Stats).Methods(http.MethodGet)
	r.HandleFunc("/api/log", cfg.Log.LogFrontendEvent).Methods(http.MethodPost)

	// --- Protected Routes ---
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware)
	api.HandleFunc("/verify-token", cfg.Auth.VerifyToken).Methods(http.MethodGet)
	api.HandleFunc("/chat", cfg.Chat.HandleChatMessage).Methods(http.MethodPost)
	api.HandleFunc("/history", cfg.Chat.GetHistory).Methods(http.MethodGet)
	api.HandleFunc("/new-conversation", cfg.Chat.NewConversation).Methods(http.MethodPost)
	api.HandleFunc("/conversation/{id}", cfg.Chat.GetConversation).Methods(http.MethodGet)
	api.HandleFunc("/conversation/{id}", cfg.Chat.DeleteConversation).Methods(http.MethodDelete)
	api.HandleFunc("/conversation/{id}/title", cfg.Chat.RenameConversation).Methods(http.MethodPut)
	api.HandleFunc("/clear-all", cfg.Chat.ClearAll).Methods(http.MethodDelete)
	api.HandleFunc("/export", cfg.Chat.Export).Methods(http.MethodGet)

	// --- Frontend ---
	r.PathPrefix("/static/").Handler(cfg.Pages.Static())
	r.HandleFunc("/", cfg.Pages.Index).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, "Not found.", http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, "Method not allowed.", http.StatusMethodNotAllowed)
	})

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader, "Content-Disposition", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	})

	var h http.Handler = r
	h = middleware.LoggingMiddleware(cfg.Logger)(h)
	h = middleware.RecoverPanic(cfg.Logger)(h)
	h = middleware.SecurityHeaders(h)
	return corsHandler(h)
}
