package rules

import (
	"math/rand/v2"

	"github.com/jwebster45206/werewolf-gm/pkg/match"
)

// Ballot is one seat's elimination choice.
type Ballot struct {
	Voter  string `json:"voter"`
	Target string `json:"target"`
}

// TallyResult is the outcome of counting a round of ballots.
type TallyResult struct {
	Eliminated string         `json:"eliminated,omitempty"` // empty when nobody received a vote
	Counts     map[string]int `json:"counts"`
	Tied       []string       `json:"tied,omitempty"` // names sharing the top count, in seat order
}

// CastBallots produces one ballot per living seat. The human's ballot is
// fixed to humanTarget; every living AI seat votes uniformly at random for
// another living seat.
func CastBallots(seats []match.Seat, humanTarget string, rng *rand.Rand) []Ballot {
	alive := make([]match.Seat, 0, len(seats))
	for _, s := range seats {
		if s.Alive() {
			alive = append(alive, s)
		}
	}

	ballots := make([]Ballot, 0, len(alive))
	for _, voter := range alive {
		if voter.IsHuman {
			ballots = append(ballots, Ballot{Voter: voter.Name, Target: humanTarget})
			continue
		}

		candidates := make([]string, 0, len(alive)-1)
		for _, c := range alive {
			if c.Name != voter.Name {
				candidates = append(candidates, c.Name)
			}
		}
		if len(candidates) == 0 {
			continue
		}
		ballots = append(ballots, Ballot{Voter: voter.Name, Target: candidates[rng.IntN(len(candidates))]})
	}
	return ballots
}

// Tally counts ballots for the names in order and picks the elimination
// target. Ballots naming anyone outside order are ignored. Ties go to the
// name that appears first in order.
func Tally(ballots []Ballot, order []string) TallyResult {
	counts := make(map[string]int, len(order))
	for _, name := range order {
		counts[name] = 0
	}
	for _, b := range ballots {
		if _, ok := counts[b.Target]; ok {
			counts[b.Target]++
		}
	}

	result := TallyResult{Counts: counts}
	best := 0
	for _, name := range order {
		if counts[name] > best {
			best = counts[name]
			result.Eliminated = name
		}
	}
	if best == 0 {
		return result
	}
	for _, name := range order {
		if counts[name] == best {
			result.Tied = append(result.Tied, name)
		}
	}
	if len(result.Tied) < 2 {
		result.Tied = nil
	}
	return result
}
