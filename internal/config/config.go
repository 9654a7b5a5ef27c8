// File: internal/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultLLMBaseURL = "https://api.cohere.ai/compatibility/v1"
	defaultLLMModel   = "command-r-plus"
)

type Config struct {
	ServerPort  string
	Environment string
	LogLevel    string

	JWTSecretKey string
	JWTTTL       time.Duration

	DBDriver string
	DBDSN    string

	LLMAPIKey     string
	LLMBaseURL    string
	LLMChatModel  string
	LLMTitleModel string
	LLMTimeout    time.Duration
	LLMMaxRetries int
	PromptsFile   string

	AllowedOrigins []string
	TrustProxy     bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AuthRateLimit  int
	AuthRateWindow time.Duration

	StaticDir string
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Load reads configuration from environment variables or .env file.
func Load() (*Config, error) {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:  getEnv("SERVER_PORT", "3000"),
		Environment: env,
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),

		JWTSecretKey: getEnv("JWT_SECRET_KEY", ""),
		JWTTTL:       getEnvAsDuration("JWT_TTL", 2*time.Hour),

		DBDriver: getEnv("DB_DRIVER", "sqlite"),
		DBDSN:    getEnv("DB_DSN", "saber.db"),

		LLMAPIKey:     getEnv("LLM_API_KEY", ""),
		LLMBaseURL:    getEnv("LLM_BASE_URL", defaultLLMBaseURL),
		LLMChatModel:  getEnv("LLM_CHAT_MODEL", defaultLLMModel),
		LLMTitleModel: getEnv("LLM_TITLE_MODEL", ""),
		LLMTimeout:    getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
		LLMMaxRetries: getEnvAsInt("LLM_MAX_RETRIES", 2),
		PromptsFile:   getEnv("PROMPTS_FILE", ""),

		AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", nil),
		TrustProxy:     getEnvAsBool("TRUST_PROXY", false),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		AuthRateLimit:  getEnvAsInt("AUTH_RATE_LIMIT", 20),
		AuthRateWindow: getEnvAsDuration("AUTH_RATE_WINDOW", 15*time.Minute),

		StaticDir: getEnv("STATIC_DIR", "static"),
	}
	if cfg.LLMTitleModel == "" {
		cfg.LLMTitleModel = cfg.LLMChatModel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	return cfg, nil
}

// Validate reports every missing or invalid setting at once.
func (c *Config) Validate() error {
	missing := []string{}
	if c.JWTSecretKey == "" {
		missing = append(missing, "JWT_SECRET_KEY")
	}
	if c.LLMAPIKey == "" {
		missing = append(missing, "LLM_API_KEY")
	}
	if c.IsProduction() && len(c.AllowedOrigins) == 0 {
		missing = append(missing, "ALLOWED_ORIGINS")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missing)
	}

	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	if c.LLMTimeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be positive")
	}
	if c.LLMMaxRetries < 0 {
		return fmt.Errorf("LLM_MAX_RETRIES cannot be negative")
	}
	if c.AuthRateLimit <= 0 || c.AuthRateWindow <= 0 {
		return fmt.Errorf("AUTH_RATE_LIMIT and AUTH_RATE_WINDOW must be positive")
	}
	return nil
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(strValue, 64)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as float. Using default value.", key)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as boolean. Using default value.", key)
		return defaultValue
	}
	return value
}

// getEnvAsDuration accepts Go duration strings ("90s", "15m") or a bare
// number of seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if secs := getEnvAsFloat(key, -1); secs >= 0 {
		return time.Duration(secs * float64(time.Second))
	}
	log.Printf("Warning: could not parse env var %s as duration. Using default value.", key)
	return defaultValue
}

// getEnvAsList splits a comma-separated value, dropping empty entries.
func getEnvAsList(key string, defaultValue []string) []string {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(strValue, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
