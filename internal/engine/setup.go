package engine

import (
	"context"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/werewolf-gm/pkg/match"
	"github.com/jwebster45206/werewolf-gm/pkg/prompts"
	"github.com/jwebster45206/werewolf-gm/pkg/textfilter"
)

// setup builds a new match. It cannot fail: the config was validated
// when the engine was built and collaborator failures fall back.
func (e *Engine) setup(ctx context.Context, playerName string) *match.State {
	rng := e.newRand()

	// "GM" is the narrator's sender name and cannot be claimed by a seat.
	name := textfilter.SanitizeName(playerName)
	if name == "" || strings.EqualFold(name, match.SenderGM) {
		name = e.config.DefaultPlayerName
	}

	scene := match.SceneContext{
		Season:    pick(Seasons, rng),
		TimeOfDay: pick(TimesOfDay, rng),
		Location:  pick(Locations, rng),
	}

	// The catalog always has a spare persona, so dropping a clash is safe.
	catalog := make([]match.Persona, 0, len(e.config.Catalog))
	for _, p := range e.config.Catalog {
		if !strings.EqualFold(p.Name, name) {
			catalog = append(catalog, p)
		}
	}
	cast, err := match.GenerateCast(e.config.TotalSeats-1, catalog, rng)
	if err != nil {
		// unreachable with a validated config
		e.logger.Error("Cast generation failed", "error", err)
		cast = catalog[:min(len(catalog), e.config.TotalSeats-1)]
	}

	seats := make([]match.Seat, 0, len(cast)+1)
	seats = append(seats, match.Seat{Name: name, Persona: HumanPersona, IsHuman: true})
	for _, p := range cast {
		seats = append(seats, match.Seat{Name: p.Name, Persona: p.Persona})
	}
	roles := match.AssignRoles(len(seats), rng)
	for i := range seats {
		seats[i].Role = roles[i]
		seats[i].Status = match.StatusAlive
	}

	state := &match.State{
		ID:           uuid.New(),
		Seats:        seats,
		Day:          1,
		Phase:        match.PhaseDiscussion,
		Context:      scene,
		NarrativeLog: []match.LogEntry{},
		UpdatedAt:    e.now().UTC(),
	}
	state.RecomputeSurvivors()

	state.AppendLog(match.SenderGM, e.narrate(ctx, prompts.OpeningStory(scene), prompts.OpeningFallback))
	state.AppendLog(match.SenderGM, prompts.FirstDayAnnouncement(scene))

	state.ImageURL = e.illustrate(ctx, prompts.OpeningScene(scene, name, len(seats)))
	state.EventImageURL = e.illustrate(ctx, prompts.RoleReveal(seats[0]))
	return state
}

func pick(options []string, rng *rand.Rand) string {
	return options[rng.IntN(len(options))]
}
