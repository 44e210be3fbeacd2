package engine

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jwebster45206/werewolf-gm/pkg/match"
	"github.com/jwebster45206/werewolf-gm/pkg/prompts"
	"github.com/jwebster45206/werewolf-gm/pkg/rules"
)

func (e *Engine) talk(ctx context.Context, state *match.State, text string) {
	speaker := state.Human().Name

	state.AppendLog(speaker, text)

	prompt := prompts.Discussion(state.Day, state.AliveSeats(), speaker, text)
	reply := e.narrate(ctx, prompt, prompts.DiscussionFallback)
	state.AppendLog(match.SenderGM, reply)

	state.ImageURL = e.illustrate(ctx, prompts.DiscussionScene(text, reply))

	if e.config.TalkPolicy == TalkAuto {
		e.openVoting(state)
	}
}

func (e *Engine) openVoting(state *match.State) {
	state.AppendLog(match.SenderGM, prompts.ReadyToVoteAnnouncement)
	state.Phase = match.PhaseVoting
}

func (e *Engine) vote(ctx context.Context, state *match.State, target string, log *slog.Logger) {
	target = strings.TrimSpace(target)

	seat := state.Seat(target)
	if seat == nil {
		state.AppendLog(match.SenderGM, prompts.UnknownTarget(target))
		return
	}
	if !seat.Alive() {
		state.AppendLog(match.SenderGM, prompts.DeadTarget(target))
		return
	}

	// An eliminated human still calls the vote but casts no ballot.
	if human := state.Human(); human.Alive() {
		state.AppendLog(human.Name, prompts.HumanVote(target))
	}

	ballots := rules.CastBallots(state.Seats, target, e.newRand())
	result := rules.Tally(ballots, state.Survivors)
	log.Debug("Votes tallied",
		"counts", result.Counts,
		"eliminated", result.Eliminated,
		"tied", result.Tied)

	if result.Eliminated != "" {
		eliminated := *state.Seat(result.Eliminated)
		state.Kill(eliminated.Name)

		narration := e.narrate(ctx,
			prompts.VoteResult(eliminated.Name, eliminated.Role),
			prompts.VoteResultFallback(eliminated.Name))
		state.AppendLog(match.SenderGM, narration)
		state.EventImageURL = e.illustrate(ctx, prompts.Keepsake(eliminated.Name, eliminated.Role))
	}

	if settle(state) {
		return
	}

	state.Day++
	state.Phase = match.PhaseDiscussion
	state.AppendLog(match.SenderGM, prompts.NewDayAnnouncement(state.Day))
	state.ImageURL = e.illustrate(ctx, prompts.NewDayScene(state.Day))
}

// settle evaluates the win condition and records the outcome. It
// reports whether the match is over. An already finished match is left
// as it is.
func settle(state *match.State) bool {
	if state.GameOver {
		return true
	}

	out := rules.Evaluate(state.Seats)
	if !out.Over {
		return false
	}

	state.GameOver = true
	state.Winner = out.Winner
	switch out.Winner {
	case match.WinnerVillagers:
		state.AppendLog(match.SenderGM, prompts.VillagersWinMessage)
	case match.WinnerWerewolves:
		state.AppendLog(match.SenderGM, prompts.WerewolvesWinMessage)
	}
	return true
}

// progressToNextDay is the debug fast-forward. It removes a seat without
// a vote, preferring the first living AI villager, and does not check
// for a winner.
func (e *Engine) progressToNextDay(ctx context.Context, state *match.State, log *slog.Logger) {
	state.EventImageURL = ""

	aliveAI := state.AliveAISeats()
	if len(aliveAI) == 0 {
		state.GameOver = true
		state.AppendLog(match.SenderGM, prompts.NoTargetsMessage)
		return
	}

	target := aliveAI[0]
	for _, s := range aliveAI {
		if s.Role == match.RoleVillager {
			target = s
			break
		}
	}
	state.Kill(target.Name)
	log.Debug("Seat lost in the night", "seat", target.Name, "role", target.Role)

	state.Day++
	state.Phase = match.PhaseDiscussion
	state.AppendLog(match.SenderGM, e.narrate(ctx, prompts.Discovery(state.Day, target.Name, target.Role), ""))

	state.ImageURL = e.illustrate(ctx, prompts.DiscoveryScene(target.Name))
	state.EventImageURL = e.illustrate(ctx, prompts.Keepsake(target.Name, target.Role))
}
