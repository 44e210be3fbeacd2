package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/werewolf-gm/internal/middleware"
	"github.com/jwebster45206/werewolf-gm/internal/services/events"
	"github.com/jwebster45206/werewolf-gm/internal/storage"
)

// RouterConfig holds everything the API router serves.
type RouterConfig struct {
	Engine       ActionEngine
	Storage      storage.Storage
	Publisher    events.Publisher // optional
	RedisClient  *redis.Client    // optional, enables the event stream
	CORSOrigins  []string
	MaxBodyBytes int64 // zero means middleware.DefaultMaxBodyBytes
	Logger       *slog.Logger
}

// NewRouter builds the API router:
//
//	GET    /health
//	POST   /v1/game/action
//	GET    /v1/match/{id}
//	DELETE /v1/match/{id}
//	GET    /v1/match/{id}/events
func NewRouter(cfg RouterConfig) http.Handler {
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = middleware.DefaultMaxBodyBytes
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Method(http.MethodGet, "/health", NewHealthHandler(cfg.Storage, cfg.Logger))

	r.Route("/v1", func(r chi.Router) {
		r.With(middleware.LimitRequestBody(maxBody)).
			Method(http.MethodPost, "/game/action", NewActionHandler(cfg.Engine, cfg.Storage, cfg.Publisher, cfg.Logger))

		matches := NewMatchHandler(cfg.Storage, cfg.Logger)
		r.Get("/match/{id}", matches.Get)
		r.Delete("/match/{id}", matches.Delete)
		if cfg.RedisClient != nil {
			r.Method(http.MethodGet, "/match/{id}/events", NewEventsHandler(cfg.RedisClient, cfg.Logger))
		}
	})

	return r
}
