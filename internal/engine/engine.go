// Package engine runs the Werewolf phase state machine. It is stateless:
// every call takes a match snapshot and returns a new one.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/jwebster45206/werewolf-gm/internal/services"
	"github.com/jwebster45206/werewolf-gm/pkg/action"
	"github.com/jwebster45206/werewolf-gm/pkg/match"
	"github.com/jwebster45206/werewolf-gm/pkg/prompts"
	"github.com/jwebster45206/werewolf-gm/pkg/textfilter"
)

var (
	// ErrStateRequired is returned when an action other than START_GAME
	// arrives without a match state.
	ErrStateRequired = errors.New("match state is required")

	// ErrInvalidState is returned for a snapshot that breaks the match
	// invariants.
	ErrInvalidState = errors.New("invalid match state")
)

// Engine applies actions to match snapshots. It is safe for concurrent use.
type Engine struct {
	narrator    services.Narrator
	illustrator services.Illustrator
	logger      *slog.Logger
	config      Config
	newRand     func() *rand.Rand
	now         func() time.Time
}

// Option customizes an Engine.
type Option func(*Engine)

// WithRand sets the random source factory. It is called once per action.
func WithRand(f func() *rand.Rand) Option {
	return func(e *Engine) { e.newRand = f }
}

// WithClock sets the clock used for UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine builds an engine around the given collaborators.
func NewEngine(narrator services.Narrator, illustrator services.Illustrator, logger *slog.Logger, cfg Config, opts ...Option) (*Engine, error) {
	if narrator == nil {
		return nil, fmt.Errorf("narrator is required")
	}
	if illustrator == nil {
		return nil, fmt.Errorf("illustrator is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}

	e := &Engine{
		narrator:    narrator,
		illustrator: illustrator,
		logger:      logger,
		config:      cfg,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the engine's effective configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Handle decodes a named action with its JSON payload and applies it.
func (e *Engine) Handle(ctx context.Context, name string, payload json.RawMessage, state *match.State) (*match.State, error) {
	act, err := action.Decode(name, payload)
	if err != nil {
		return nil, err
	}
	return e.Apply(ctx, act, state)
}

// Apply runs one action against state and returns the resulting snapshot.
// The input state is never modified. Game-logic problems such as an
// unknown vote target are reported in the narrative log; only a missing
// or malformed state and invalid payloads are returned as errors.
func (e *Engine) Apply(ctx context.Context, act action.Action, state *match.State) (*match.State, error) {
	if start, ok := act.(action.StartGame); ok {
		next := e.setup(ctx, start.PlayerName)
		e.logger.Info("Match started",
			"match_id", next.ID,
			"player", next.Seats[0].Name,
			"seats", len(next.Seats))
		return next, nil
	}

	if state == nil {
		return nil, ErrStateRequired
	}
	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	log := e.logger.With(
		"match_id", state.ID,
		"action", act.Kind(),
		"day", state.Day,
		"phase", state.Phase)

	next := state.Clone()
	defer func() { next.UpdatedAt = e.now().UTC() }()

	if unknown, ok := act.(action.Unknown); ok {
		log.Warn("Unknown action")
		next.AppendLog(match.SenderGM, prompts.UnknownAction(unknown.Name))
		return next, nil
	}

	if next.GameOver {
		log.Debug("Rejecting action after game over")
		next.AppendLog(match.SenderGM, prompts.MatchOverMessage)
		return next, nil
	}

	if !allowedIn(act.Kind(), next.Phase) {
		log.Debug("Rejecting action outside its phase")
		next.AppendLog(match.SenderGM, prompts.WrongPhase(string(act.Kind()), next.Phase))
		return next, nil
	}

	log.Debug("Applying action")

	switch a := act.(type) {
	case action.PlayerTalk:
		a.Text = textfilter.SanitizeText(a.Text)
		if err := a.Validate(); err != nil {
			return nil, err
		}
		e.talk(ctx, next, a.Text)
	case action.ReadyToVote:
		e.openVoting(next)
	case action.Vote:
		e.vote(ctx, next, a.Target, log)
	case action.ProgressToNextDay:
		e.progressToNextDay(ctx, next, log)
	default:
		next.AppendLog(match.SenderGM, prompts.UnknownAction(string(act.Kind())))
	}

	if next.GameOver {
		log.Info("Match over", "winner", next.Winner, "final_day", next.Day)
	}
	return next, nil
}

// narrate guards against narrators that return an empty string.
func (e *Engine) narrate(ctx context.Context, prompt, fallback string) string {
	text := e.narrator.Narrate(ctx, prompt, fallback)
	if text != "" {
		return text
	}
	if fallback != "" {
		return fallback
	}
	return prompts.DefaultNarration
}

// illustrate guards against illustrators that return an empty reference.
func (e *Engine) illustrate(ctx context.Context, prompt string) string {
	if url := e.illustrator.Illustrate(ctx, prompt); url != "" {
		return url
	}
	return services.PlaceholderImage()
}
