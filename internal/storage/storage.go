package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwebster45206/werewolf-gm/pkg/match"
)

// Storage persists match snapshots between actions.
type Storage interface {
	Ping(ctx context.Context) error
	Close() error

	// SaveMatch stores the snapshot under its ID
	SaveMatch(ctx context.Context, state *match.State) error

	// LoadMatch returns (nil, nil) when no match has the ID
	LoadMatch(ctx context.Context, id uuid.UUID) (*match.State, error)

	DeleteMatch(ctx context.Context, id uuid.UUID) error
}
