package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/werewolf-gm/pkg/match"
)

// DefaultMatchTTL is how long an idle match is kept.
const DefaultMatchTTL = 24 * time.Hour

const matchKeyPrefix = "match:"

// RedisStorage implements Storage on Redis. Each match is one JSON
// string key that expires after ttl without activity.
type RedisStorage struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

// Ensure RedisStorage implements Storage interface
var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage connects to redisURL, which may be host:port or a
// redis:// URL.
func NewRedisStorage(redisURL string, ttl time.Duration, logger *slog.Logger) (*RedisStorage, error) {
	opts, err := parseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	return NewRedisStorageFromClient(redis.NewClient(opts), ttl, logger), nil
}

// NewRedisStorageFromClient shares an existing client.
func NewRedisStorageFromClient(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisStorage {
	if ttl <= 0 {
		ttl = DefaultMatchTTL
	}
	return &RedisStorage{client: client, logger: logger, ttl: ttl}
}

func parseRedisURL(redisURL string) (*redis.Options, error) {
	if !strings.HasPrefix(redisURL, "redis://") && !strings.HasPrefix(redisURL, "rediss://") {
		return &redis.Options{Addr: redisURL}, nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return opts, nil
}

func matchKey(id uuid.UUID) string {
	return matchKeyPrefix + id.String()
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

func (r *RedisStorage) SaveMatch(ctx context.Context, state *match.State) error {
	if state == nil {
		return fmt.Errorf("cannot save nil match")
	}
	if state.ID == uuid.Nil {
		return fmt.Errorf("cannot save match without an id")
	}

	data, err := json.Marshal(state)
	if err != nil {
		r.logger.Error("Failed to marshal match", "match_id", state.ID, "error", err)
		return fmt.Errorf("failed to marshal match: %w", err)
	}

	if err := r.client.Set(ctx, matchKey(state.ID), data, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to save match", "match_id", state.ID, "error", err)
		return fmt.Errorf("failed to save match: %w", err)
	}

	r.logger.Debug("Match saved", "match_id", state.ID, "bytes", len(data))
	return nil
}

func (r *RedisStorage) LoadMatch(ctx context.Context, id uuid.UUID) (*match.State, error) {
	data, err := r.client.Get(ctx, matchKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Debug("Match not found", "match_id", id)
			return nil, nil
		}
		r.logger.Error("Failed to load match", "match_id", id, "error", err)
		return nil, fmt.Errorf("failed to load match: %w", err)
	}

	var state match.State
	if err := json.Unmarshal(data, &state); err != nil {
		r.logger.Error("Failed to unmarshal match", "match_id", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}
	return &state, nil
}

func (r *RedisStorage) DeleteMatch(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, matchKey(id)).Err(); err != nil {
		r.logger.Error("Failed to delete match", "match_id", id, "error", err)
		return fmt.Errorf("failed to delete match: %w", err)
	}
	return nil
}
