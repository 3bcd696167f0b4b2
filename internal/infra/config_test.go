package infra

import (
	"testing"
	"time"
)

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when DATABASE_URL is empty")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("PORT", "")
	t.Setenv("PROMPT_MAX_TOKENS", "")
	t.Setenv("GEMINI_MAX_OUTPUT_TOKENS", "")
	t.Setenv("MODEL_MAX_ATTEMPTS", "")
	t.Setenv("MODEL_BASE_DELAY_MS", "")
	t.Setenv("MODEL_RATE_LIMIT_COOLDOWN_MS", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "3000" {
		t.Fatalf("Port = %q, want 3000", cfg.Port)
	}
	if cfg.PromptMaxTokens != 15000 {
		t.Fatalf("PromptMaxTokens = %d, want 15000", cfg.PromptMaxTokens)
	}
	if cfg.Generation.MaxOutputTokens != 2048 {
		t.Fatalf("MaxOutputTokens = %d, want 2048", cfg.Generation.MaxOutputTokens)
	}
	if cfg.Retry.MaxAttempts != 3 || cfg.Retry.BaseDelay != time.Second || cfg.Retry.RateLimitCooldown != time.Minute {
		t.Fatalf("Retry mismatch: %+v", cfg.Retry)
	}
	if len(cfg.AllowedOrigins) != len(defaultAllowedOrigins) {
		t.Fatalf("AllowedOrigins mismatch: %#v", cfg.AllowedOrigins)
	}
}

func TestLoadConfigCeilingsAreIndependent(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("PROMPT_MAX_TOKENS", "8000")
	t.Setenv("GEMINI_MAX_OUTPUT_TOKENS", "512")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.PromptMaxTokens != 8000 {
		t.Fatalf("PromptMaxTokens = %d, want 8000", cfg.PromptMaxTokens)
	}
	if cfg.Generation.MaxOutputTokens != 512 {
		t.Fatalf("MaxOutputTokens = %d, want 512", cfg.Generation.MaxOutputTokens)
	}
}

func TestLoadConfigParsesOriginList(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com , ,https://b.example.com")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	expected := []string{"https://a.example.com", "https://b.example.com"}
	if len(cfg.AllowedOrigins) != len(expected) {
		t.Fatalf("AllowedOrigins mismatch: got %#v want %#v", cfg.AllowedOrigins, expected)
	}
	for i, origin := range expected {
		if cfg.AllowedOrigins[i] != origin {
			t.Fatalf("AllowedOrigins[%d] = %q, want %q", i, cfg.AllowedOrigins[i], origin)
		}
	}
}

func TestLoadConfigRejectsNonPositiveAttempts(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("MODEL_MAX_ATTEMPTS", "0")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for MODEL_MAX_ATTEMPTS=0")
	}
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := &Config{AnalyticsTimezone: "Not/AZone"}
	if loc := cfg.Location(); loc != time.UTC {
		t.Fatalf("Location = %v, want UTC", loc)
	}
}

func TestLoadConfigGeoIPPathOptional(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("GEOIP_DB_PATH", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.GeoIPDatabasePath != "" {
		t.Fatalf("GeoIPDatabasePath = %q, want empty", cfg.GeoIPDatabasePath)
	}

	t.Setenv("GEOIP_DB_PATH", "/data/GeoLite2-Country.mmdb")
	cfg, err = LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.GeoIPDatabasePath != "/data/GeoLite2-Country.mmdb" {
		t.Fatalf("GeoIPDatabasePath = %q", cfg.GeoIPDatabasePath)
	}
}
