package engine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jwebster45206/werewolf-gm/pkg/action"
	"github.com/jwebster45206/werewolf-gm/pkg/match"
)

// TalkPolicy decides what happens to the phase after the human talks.
type TalkPolicy string

const (
	// TalkExplicit keeps the match in discussion until READY_TO_VOTE.
	TalkExplicit TalkPolicy = "explicit"
	// TalkAuto opens voting right after the discussion reply.
	TalkAuto TalkPolicy = "auto"
)

// ParseTalkPolicy accepts "explicit" or "auto"; empty means explicit.
func ParseTalkPolicy(s string) (TalkPolicy, error) {
	switch TalkPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", TalkExplicit:
		return TalkExplicit, nil
	case TalkAuto:
		return TalkAuto, nil
	default:
		return "", fmt.Errorf("unknown talk policy %q", s)
	}
}

// HumanPersona is the fixed persona text of the human seat.
const HumanPersona = "An outsider trying to find the truth amid the chaos."

// DefaultPlayerName is used when START_GAME carries no usable name.
const DefaultPlayerName = "Player"

// Scene catalogs, sampled once per match.
var (
	Seasons    = []string{"a harsh winter", "a damp spring", "a scorching summer", "a bleak autumn"}
	TimesOfDay = []string{"early morning", "noon", "dusk", "dead of night"}
	Locations  = []string{"the village square", "a run-down tavern", "the churchyard", "the edge of the forest"}
)

// Config holds the rules an Engine plays by.
type Config struct {
	TalkPolicy        TalkPolicy
	TotalSeats        int             // including the human
	Catalog           []match.Persona // personas for AI seats
	DefaultPlayerName string
}

// DefaultConfig returns the standard twelve-seat setup.
func DefaultConfig() Config {
	return Config{
		TalkPolicy:        TalkExplicit,
		TotalSeats:        match.StandardSeatCount,
		Catalog:           match.DefaultCatalog,
		DefaultPlayerName: DefaultPlayerName,
	}
}

func (c *Config) applyDefaults() {
	if c.TalkPolicy == "" {
		c.TalkPolicy = TalkExplicit
	}
	if c.TotalSeats == 0 {
		c.TotalSeats = match.StandardSeatCount
	}
	if c.Catalog == nil {
		c.Catalog = match.DefaultCatalog
	}
	if strings.TrimSpace(c.DefaultPlayerName) == "" {
		c.DefaultPlayerName = DefaultPlayerName
	}
}

// Validate checks that a match can always be set up with this config.
// The catalog needs one spare persona so the human's name never
// collides with an AI seat.
func (c Config) Validate() error {
	if _, err := ParseTalkPolicy(string(c.TalkPolicy)); err != nil {
		return err
	}
	if c.TotalSeats < 2 {
		return fmt.Errorf("total seats must be at least 2, got %d", c.TotalSeats)
	}
	if err := match.ValidateCatalog(c.Catalog); err != nil {
		return fmt.Errorf("invalid catalog: %w", err)
	}
	if strings.EqualFold(strings.TrimSpace(c.DefaultPlayerName), match.SenderGM) {
		return fmt.Errorf("default player name %q is reserved", c.DefaultPlayerName)
	}
	if len(c.Catalog) < c.TotalSeats {
		return fmt.Errorf("%w: %d personas for %d seats", match.ErrCatalogTooSmall, len(c.Catalog), c.TotalSeats)
	}
	return nil
}

// phaseRules lists the phases each action is allowed in. Actions not
// listed are allowed in any phase.
var phaseRules = map[action.Kind][]match.Phase{
	action.KindPlayerTalk:  {match.PhaseDiscussion},
	action.KindReadyToVote: {match.PhaseDiscussion},
	action.KindVote:        {match.PhaseVoting},
}

func allowedIn(kind action.Kind, phase match.Phase) bool {
	phases, ok := phaseRules[kind]
	return !ok || slices.Contains(phases, phase)
}
