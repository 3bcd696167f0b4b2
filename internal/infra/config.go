package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv            string
	Port              string
	DatabaseURL       string
	AllowedOrigins    []string
	AnalyticsTimezone string
	GeminiAPIKey      string
	GeminiModel       string
	GeminiBaseURL     string
	Generation        GenerationConfig
	Retry             RetryConfig
	PromptMaxTokens   int
	UserSampleLimit   int
	AggregateWindow   int
	HTTPReadTimeout   time.Duration
	HTTPWriteTimeout  time.Duration
	HTTPIdleTimeout   time.Duration
	RateLimitPerMin   int
	GeoIPDatabasePath string
}

// GenerationConfig holds the sampling parameters sent with every model call.
// MaxOutputTokens is the model-side ceiling and is unrelated to PromptMaxTokens.
type GenerationConfig struct {
	Temperature     float32
	TopK            float32
	TopP            float32
	MaxOutputTokens int32
}

// RetryConfig controls the resilient model client.
type RetryConfig struct {
	MaxAttempts       int
	BaseDelay         time.Duration
	RateLimitCooldown time.Duration
}

var defaultAllowedOrigins = []string{
	"http://localhost:3000",
	"http://localhost:3001",
	"https://fetiiai-hackathon.vercel.app",
	"https://www.fetiiai-hackathon.vercel.app",
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:            getEnv("APP_ENV", "development"),
		Port:              getEnv("PORT", "3000"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		AllowedOrigins:    getEnvList("CORS_ALLOWED_ORIGINS", defaultAllowedOrigins),
		AnalyticsTimezone: getEnv("ANALYTICS_TIMEZONE", "America/Chicago"),
		GeminiAPIKey:      strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiBaseURL:     os.Getenv("GEMINI_BASE_URL"),
		Generation: GenerationConfig{
			Temperature:     getEnvFloat32("GEMINI_TEMPERATURE", 0.7),
			TopK:            getEnvFloat32("GEMINI_TOP_K", 40),
			TopP:            getEnvFloat32("GEMINI_TOP_P", 0.95),
			MaxOutputTokens: int32(getEnvInt("GEMINI_MAX_OUTPUT_TOKENS", 2048)),
		},
		Retry: RetryConfig{
			MaxAttempts:       getEnvInt("MODEL_MAX_ATTEMPTS", 3),
			BaseDelay:         time.Millisecond * time.Duration(getEnvInt("MODEL_BASE_DELAY_MS", 1000)),
			RateLimitCooldown: time.Millisecond * time.Duration(getEnvInt("MODEL_RATE_LIMIT_COOLDOWN_MS", 60000)),
		},
		PromptMaxTokens:   getEnvInt("PROMPT_MAX_TOKENS", 15000),
		UserSampleLimit:   getEnvInt("USER_SAMPLE_LIMIT", 100),
		AggregateWindow:   getEnvInt("AGGREGATE_WINDOW_DAYS", 30),
		HTTPReadTimeout:   time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:  time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 120)),
		HTTPIdleTimeout:   time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:   getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		GeoIPDatabasePath: os.Getenv("GEOIP_DB_PATH"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.Retry.MaxAttempts <= 0 {
		return nil, fmt.Errorf("MODEL_MAX_ATTEMPTS must be positive, got %d", cfg.Retry.MaxAttempts)
	}
	if cfg.PromptMaxTokens <= 0 {
		return nil, fmt.Errorf("PROMPT_MAX_TOKENS must be positive, got %d", cfg.PromptMaxTokens)
	}

	return cfg, nil
}

// Location resolves AnalyticsTimezone, falling back to UTC when the zone is unknown.
func (c *Config) Location() *time.Location {
	if c == nil || c.AnalyticsTimezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.AnalyticsTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat32(key string, fallback float32) float32 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			return float32(f)
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return append([]string(nil), fallback...)
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
