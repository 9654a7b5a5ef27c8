package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("ENV", "test")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("LLM_API_KEY", "key")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ServerPort != "3000" {
		t.Errorf("ServerPort = %q, want 3000", cfg.ServerPort)
	}
	if cfg.JWTTTL != 2*time.Hour {
		t.Errorf("JWTTTL = %v, want 2h", cfg.JWTTTL)
	}
	if cfg.LLMBaseURL != defaultLLMBaseURL || cfg.LLMChatModel != defaultLLMModel {
		t.Errorf("LLM defaults = %q %q", cfg.LLMBaseURL, cfg.LLMChatModel)
	}
	if cfg.LLMTitleModel != cfg.LLMChatModel {
		t.Errorf("LLMTitleModel = %q, want chat model", cfg.LLMTitleModel)
	}
	if !reflect.DeepEqual(cfg.AllowedOrigins, []string{"*"}) {
		t.Errorf("AllowedOrigins = %v, want [*]", cfg.AllowedOrigins)
	}
	if cfg.TrustProxy {
		t.Error("TrustProxy should default to false")
	}
	if cfg.AuthRateLimit != 20 || cfg.AuthRateWindow != 15*time.Minute {
		t.Errorf("auth rate = %d/%v", cfg.AuthRateLimit, cfg.AuthRateWindow)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("LLM_API_KEY", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing secrets")
	}
	for _, key := range []string{"JWT_SECRET_KEY", "LLM_API_KEY"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error %q does not name %s", err, key)
		}
	}
}

func TestLoadProductionRequiresOrigins(t *testing.T) {
	setRequired(t)
	t.Setenv("ENV", "production")
	t.Setenv("ALLOWED_ORIGINS", "")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "ALLOWED_ORIGINS") {
		t.Fatalf("Load() error = %v, want ALLOWED_ORIGINS", err)
	}

	t.Setenv("ALLOWED_ORIGINS", "https://saber.example, https://admin.saber.example ,")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := []string{"https://saber.example", "https://admin.saber.example"}
	if !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Errorf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
	}
}

func TestEnvParsers(t *testing.T) {
	t.Setenv("CFG_INT", "nope")
	if got := getEnvAsInt("CFG_INT", 7); got != 7 {
		t.Errorf("bad int fell back to %d", got)
	}

	t.Setenv("CFG_DUR", "90s")
	if got := getEnvAsDuration("CFG_DUR", time.Minute); got != 90*time.Second {
		t.Errorf("duration = %v", got)
	}
	t.Setenv("CFG_DUR", "2.5")
	if got := getEnvAsDuration("CFG_DUR", time.Minute); got != 2500*time.Millisecond {
		t.Errorf("seconds = %v", got)
	}
	t.Setenv("CFG_DUR", "soon")
	if got := getEnvAsDuration("CFG_DUR", time.Minute); got != time.Minute {
		t.Errorf("bad duration = %v", got)
	}

	t.Setenv("CFG_BOOL", "true")
	if !getEnvAsBool("CFG_BOOL", false) {
		t.Error("bool = false, want true")
	}
	t.Setenv("CFG_BOOL", "sometimes")
	if getEnvAsBool("CFG_BOOL", false) {
		t.Error("bad bool should fall back to false")
	}

	t.Setenv("CFG_LIST", " , ")
	if got := getEnvAsList("CFG_LIST", []string{"x"}); !reflect.DeepEqual(got, []string{"x"}) {
		t.Errorf("empty list = %v", got)
	}
}
