package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/werewolf-gm/pkg/match"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeMatchUpdated EventType = "match.updated"
	EventTypeMatchOver    EventType = "match.over"
)

// Event is the payload published for every match change
type Event struct {
	Type    EventType      `json:"type"`
	MatchID string         `json:"match_id"`
	Action  string         `json:"action,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// Publisher is the part of Broadcaster used by the HTTP handlers.
type Publisher interface {
	PublishMatch(ctx context.Context, action string, state *match.State) error
}

// Broadcaster publishes match events to Redis Pub/Sub
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

var _ Publisher = (*Broadcaster)(nil)

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
	}
}

// Channel returns the pub/sub channel for a match.
func Channel(matchID uuid.UUID) string {
	return fmt.Sprintf("match-events:%s", matchID.String())
}

// PublishMatch publishes match.updated, followed by match.over when the
// state has just reached an outcome.
func (b *Broadcaster) PublishMatch(ctx context.Context, action string, state *match.State) error {
	if err := b.PublishMatchUpdated(ctx, action, state); err != nil {
		return err
	}
	if state.GameOver {
		return b.PublishMatchOver(ctx, state)
	}
	return nil
}

// PublishMatchUpdated publishes a match.updated event
func (b *Broadcaster) PublishMatchUpdated(ctx context.Context, action string, state *match.State) error {
	event := Event{
		Type:    EventTypeMatchUpdated,
		MatchID: state.ID.String(),
		Action:  action,
		Data: map[string]any{
			"day":       state.Day,
			"phase":     state.Phase,
			"survivors": state.Survivors,
			"log_size":  len(state.NarrativeLog),
		},
	}
	return b.publishToMatch(ctx, state.ID, event)
}

// PublishMatchOver publishes a match.over event
func (b *Broadcaster) PublishMatchOver(ctx context.Context, state *match.State) error {
	event := Event{
		Type:    EventTypeMatchOver,
		MatchID: state.ID.String(),
		Data: map[string]any{
			"day":    state.Day,
			"winner": state.Winner,
		},
	}
	return b.publishToMatch(ctx, state.ID, event)
}

func (b *Broadcaster) publishToMatch(ctx context.Context, matchID uuid.UUID, event Event) error {
	channel := Channel(matchID)

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event_type", event.Type)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published",
		"channel", channel,
		"event_type", event.Type,
	)

	return nil
}
