package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/werewolf-gm/internal/config"
	"github.com/jwebster45206/werewolf-gm/internal/engine"
	"github.com/jwebster45206/werewolf-gm/internal/handlers"
	"github.com/jwebster45206/werewolf-gm/internal/logger"
	"github.com/jwebster45206/werewolf-gm/internal/services"
	"github.com/jwebster45206/werewolf-gm/internal/services/events"
	"github.com/jwebster45206/werewolf-gm/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Werewolf GM API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"llm_provider", cfg.LLMProvider,
		"image_provider", cfg.ImageProvider,
		"model_name", cfg.ModelName)

	redisService, err := services.NewRedisService(cfg.RedisURL, log)
	if err != nil {
		log.Error("Invalid Redis configuration", "error", err)
		os.Exit(1)
	}
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer redisCancel()
	if err := redisService.WaitForConnection(redisCtx); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}

	store := storage.NewRedisStorageFromClient(redisService.Client(), cfg.MatchTTL, log)
	broadcaster := events.NewBroadcaster(redisService.Client(), log)

	narrator, err := newNarrator(cfg, log)
	if err != nil {
		log.Error("Failed to configure narrator", "error", err)
		os.Exit(1)
	}
	illustrator, err := newIllustrator(cfg, redisService, log)
	if err != nil {
		log.Error("Failed to configure illustrator", "error", err)
		os.Exit(1)
	}

	engineCfg, err := newEngineConfig(cfg)
	if err != nil {
		log.Error("Invalid engine configuration", "error", err)
		os.Exit(1)
	}
	eng, err := engine.NewEngine(narrator, illustrator, log, engineCfg)
	if err != nil {
		log.Error("Failed to create engine", "error", err)
		os.Exit(1)
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Engine:       eng,
		Storage:      store,
		Publisher:    broadcaster,
		RedisClient:  redisService.Client(),
		CORSOrigins:  cfg.CORSOrigins,
		MaxBodyBytes: cfg.MaxRequestBytes,
		Logger:       log,
	})

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: the event stream stays open
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	// Storage, cache and broadcaster share this client
	if err := redisService.Close(); err != nil {
		log.Error("Error closing Redis connection", "error", err)
	}

	log.Info("Server exited")
}

func newNarrator(cfg *config.Config, log *slog.Logger) (services.Narrator, error) {
	var client services.ChatClient
	switch cfg.LLMProvider {
	case config.ProviderAnthropic:
		client = services.NewAnthropicService(cfg.AnthropicAPIKey, cfg.ModelName, log)
	case config.ProviderVenice:
		client = services.NewVeniceService(cfg.VeniceAPIKey, cfg.ModelName, cfg.ImageModelName)
	case config.ProviderOpenAI:
		client = services.NewOpenAIService(cfg.OpenAIAPIKey, cfg.ModelName, cfg.ImageModelName)
	case config.ProviderNone:
		log.Info("No LLM provider configured, using fallback narration")
		return services.StaticNarrator{}, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.LLMProvider)
	}

	log.Info("Using LLM provider", "provider", cfg.LLMProvider, "content_filter", cfg.ContentFilter)
	var narrator services.Narrator = services.NewLLMNarrator(client, log)
	if cfg.ContentFilter {
		narrator = services.NewFilteredNarrator(narrator)
	}
	return narrator, nil
}

func newIllustrator(cfg *config.Config, cache services.Cache, log *slog.Logger) (services.Illustrator, error) {
	var client services.ImageClient
	switch cfg.ImageProvider {
	case config.ProviderVenice:
		client = services.NewVeniceService(cfg.VeniceAPIKey, cfg.ModelName, cfg.ImageModelName)
	case config.ProviderOpenAI:
		client = services.NewOpenAIService(cfg.OpenAIAPIKey, cfg.ModelName, cfg.ImageModelName)
	case config.ProviderNone:
		log.Info("No image provider configured, using placeholder images")
		return services.PlaceholderIllustrator{}, nil
	default:
		return nil, fmt.Errorf("unsupported image provider %q", cfg.ImageProvider)
	}

	log.Info("Using image provider", "provider", cfg.ImageProvider, "model", cfg.ImageModelName)
	generated := services.NewGeneratedIllustrator(client, log)
	return services.NewCachedIllustrator(generated, cache, cfg.ImageCacheTTL, log), nil
}

func newEngineConfig(cfg *config.Config) (engine.Config, error) {
	policy, err := engine.ParseTalkPolicy(cfg.TalkPolicy)
	if err != nil {
		return engine.Config{}, err
	}
	engineCfg := engine.DefaultConfig()
	engineCfg.TalkPolicy = policy
	if cfg.DefaultPlayerName != "" {
		engineCfg.DefaultPlayerName = cfg.DefaultPlayerName
	}
	return engineCfg, nil
}
