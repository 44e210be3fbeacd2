package main

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/werewolf-gm/internal/config"
	"github.com/jwebster45206/werewolf-gm/internal/engine"
	"github.com/jwebster45206/werewolf-gm/internal/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewNarrator(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Config
		wantType any
	}{
		{"none", config.Config{LLMProvider: config.ProviderNone}, services.StaticNarrator{}},
		{"anthropic", config.Config{LLMProvider: config.ProviderAnthropic, AnthropicAPIKey: "k"}, &services.LLMNarrator{}},
		{"venice", config.Config{LLMProvider: config.ProviderVenice, VeniceAPIKey: "k"}, &services.LLMNarrator{}},
		{"openai filtered", config.Config{LLMProvider: config.ProviderOpenAI, OpenAIAPIKey: "k", ContentFilter: true}, &services.FilteredNarrator{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := newNarrator(&tt.cfg, testLogger())
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, n)
		})
	}

	_, err := newNarrator(&config.Config{LLMProvider: "ollama"}, testLogger())
	assert.Error(t, err)
}

func TestNewIllustrator(t *testing.T) {
	mr := miniredis.RunT(t)
	cache, err := services.NewRedisService(mr.Addr(), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	ill, err := newIllustrator(&config.Config{ImageProvider: config.ProviderNone}, cache, testLogger())
	require.NoError(t, err)
	assert.IsType(t, services.PlaceholderIllustrator{}, ill)

	ill, err = newIllustrator(&config.Config{
		ImageProvider: config.ProviderOpenAI,
		OpenAIAPIKey:  "k",
		ImageCacheTTL: time.Hour,
	}, cache, testLogger())
	require.NoError(t, err)
	assert.IsType(t, &services.CachedIllustrator{}, ill)

	_, err = newIllustrator(&config.Config{ImageProvider: config.ProviderAnthropic}, cache, testLogger())
	assert.Error(t, err)
}

func TestNewEngineConfig(t *testing.T) {
	cfg, err := newEngineConfig(&config.Config{TalkPolicy: "auto", DefaultPlayerName: "Wanderer"})
	require.NoError(t, err)
	assert.Equal(t, engine.TalkAuto, cfg.TalkPolicy)
	assert.Equal(t, "Wanderer", cfg.DefaultPlayerName)
	assert.Equal(t, 12, cfg.TotalSeats)

	cfg, err = newEngineConfig(&config.Config{TalkPolicy: "explicit"})
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultPlayerName, cfg.DefaultPlayerName)

	_, err = newEngineConfig(&config.Config{TalkPolicy: "never"})
	assert.Error(t, err)
}
