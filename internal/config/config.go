package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Provider names accepted by LLM_PROVIDER and IMAGE_PROVIDER.
const (
	ProviderAnthropic = "anthropic"
	ProviderVenice    = "venice"
	ProviderOpenAI    = "openai"
	ProviderNone      = "none"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	RedisURL        string
	MatchTTL        time.Duration
	MaxRequestBytes int64 // POST body cap; a returned gameState carries two image data URLs

	LLMProvider     string
	ImageProvider   string
	AnthropicAPIKey string
	VeniceAPIKey    string
	OpenAIAPIKey    string
	ModelName       string
	ImageModelName  string
	ImageCacheTTL   time.Duration

	TalkPolicy        string
	ContentFilter     bool
	DefaultPlayerName string
	CORSOrigins       []string
}

var defaultModels = map[string]string{
	ProviderAnthropic: "claude-3-5-haiku-latest",
	ProviderVenice:    "llama-3.3-70b",
	ProviderOpenAI:    "gpt-4o-mini",
}

var defaultImageModels = map[string]string{
	ProviderVenice: "flux-dev",
	ProviderOpenAI: "dall-e-3",
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first when present; variables already set
// in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		Environment:       getEnv("ENVIRONMENT", "development"),
		LogLevel:          parseLogLevel(getEnv("LOG_LEVEL", "info")),
		RedisURL:          getEnv("REDIS_URL", "redis://localhost:6379"),
		LLMProvider:       strings.ToLower(getEnv("LLM_PROVIDER", ProviderNone)),
		ImageProvider:     strings.ToLower(getEnv("IMAGE_PROVIDER", ProviderNone)),
		AnthropicAPIKey:   os.Getenv("ANTHROPIC_API_KEY"),
		VeniceAPIKey:      os.Getenv("VENICE_API_KEY"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		ModelName:         os.Getenv("MODEL_NAME"),
		ImageModelName:    os.Getenv("IMAGE_MODEL_NAME"),
		TalkPolicy:        strings.ToLower(getEnv("TALK_POLICY", "explicit")),
		DefaultPlayerName: os.Getenv("DEFAULT_PLAYER_NAME"),
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "*")),
	}

	var err error
	if cfg.MatchTTL, err = getDuration("MATCH_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.MaxRequestBytes, err = getInt64("MAX_REQUEST_BYTES", 32<<20); err != nil {
		return nil, err
	}
	if cfg.ImageCacheTTL, err = getDuration("IMAGE_CACHE_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ContentFilter, err = getBool("CONTENT_FILTER", false); err != nil {
		return nil, err
	}

	if cfg.ModelName == "" {
		cfg.ModelName = defaultModels[cfg.LLMProvider]
	}
	if cfg.ImageModelName == "" {
		cfg.ImageModelName = defaultImageModels[cfg.ImageProvider]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks provider names, talk policy and the API keys the
// selected providers need.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case ProviderAnthropic, ProviderVenice, ProviderOpenAI, ProviderNone:
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q (supported: anthropic, venice, openai, none)", c.LLMProvider)
	}
	switch c.ImageProvider {
	case ProviderVenice, ProviderOpenAI, ProviderNone:
	default:
		return fmt.Errorf("unknown IMAGE_PROVIDER %q (supported: openai, venice, none)", c.ImageProvider)
	}
	switch c.TalkPolicy {
	case "explicit", "auto":
	default:
		return fmt.Errorf("unknown TALK_POLICY %q (supported: explicit, auto)", c.TalkPolicy)
	}

	for _, p := range []string{c.LLMProvider, c.ImageProvider} {
		if p != ProviderNone && c.apiKey(p) == "" {
			return fmt.Errorf("%s is required when using the %s provider", apiKeyVar(p), p)
		}
	}
	if c.MatchTTL < 0 {
		return fmt.Errorf("MATCH_TTL cannot be negative")
	}
	if c.MaxRequestBytes <= 0 {
		return fmt.Errorf("MAX_REQUEST_BYTES must be positive")
	}
	return nil
}

func (c *Config) apiKey(provider string) string {
	switch provider {
	case ProviderAnthropic:
		return c.AnthropicAPIKey
	case ProviderVenice:
		return c.VeniceAPIKey
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	}
	return ""
}

func apiKeyVar(provider string) string {
	return strings.ToUpper(provider) + "_API_KEY"
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

func getInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
