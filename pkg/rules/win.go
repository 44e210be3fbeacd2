package rules

import "github.com/jwebster45206/werewolf-gm/pkg/match"

// Outcome is the result of checking the surviving roster for a win.
type Outcome struct {
	Over            bool         `json:"over"`
	Winner          match.Winner `json:"winner"`
	AliveWerewolves int          `json:"aliveWerewolves"`
	AliveOthers     int          `json:"aliveOthers"`
}

// Evaluate decides whether the match has ended. Villagers win once no
// werewolf is left; werewolves win once they are at least as many as
// everyone else alive.
func Evaluate(seats []match.Seat) Outcome {
	var out Outcome
	for _, s := range seats {
		if !s.Alive() {
			continue
		}
		if s.Role == match.RoleWerewolf {
			out.AliveWerewolves++
		} else {
			out.AliveOthers++
		}
	}

	switch {
	case out.AliveWerewolves == 0:
		out.Over = true
		out.Winner = match.WinnerVillagers
	case out.AliveWerewolves >= out.AliveOthers:
		out.Over = true
		out.Winner = match.WinnerWerewolves
	}
	return out
}
