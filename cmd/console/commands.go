package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jwebster45206/werewolf-gm/pkg/action"
	"github.com/jwebster45206/werewolf-gm/pkg/match"
)

const actionStartGame = string(action.KindStartGame)

// Local commands handled by the console itself
const (
	localHelp = "help"
	localNew  = "new"
	localCopy = "copy"
	localQuit = "quit"
)

const helpText = `
Commands:
• /ready        - End discussion and open voting
• /vote <name>  - Vote to eliminate a player
• /next         - Skip ahead to the next day
• /new          - Start a new match
• /copy, Ctrl+Y - Copy the narrative log to the clipboard
• /help         - Show this help
• Ctrl+C        - Quit

How to play:
• Anything else you type is said aloud to the village
• Find the werewolves before they outnumber you
`

// command is either an API action or a local console command
type command struct {
	local  string
	action *ActionRequest
}

// parseInput turns a line of input into a command. Vote targets are
// matched case-insensitively against the roster.
func parseInput(input string, state *match.State) (command, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return command{}, errors.New("nothing to send")
	}

	if !strings.HasPrefix(input, "/") {
		return actionCommand(state, string(action.KindPlayerTalk), action.PlayerTalk{Text: input}), nil
	}

	name, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "/help":
		return command{local: localHelp}, nil
	case "/new":
		return command{local: localNew}, nil
	case "/copy":
		return command{local: localCopy}, nil
	case "/quit":
		return command{local: localQuit}, nil
	case "/ready":
		return actionCommand(state, string(action.KindReadyToVote), nil), nil
	case "/next":
		return actionCommand(state, string(action.KindProgressToNextDay), nil), nil
	case "/vote":
		if arg == "" {
			return command{}, errors.New("usage: /vote <name>")
		}
		return actionCommand(state, string(action.KindVote), action.Vote{Target: resolveTarget(state, arg)}), nil
	default:
		return command{}, fmt.Errorf("unknown command %s (try /help)", name)
	}
}

func actionCommand(state *match.State, name string, payload any) command {
	req := &ActionRequest{Action: name, Payload: payload}
	if state != nil {
		req.MatchID = state.ID.String()
	}
	return command{action: req}
}

// resolveTarget returns the roster spelling of name, or name unchanged
// when nobody matches so the game master can reject it.
func resolveTarget(state *match.State, name string) string {
	if state == nil {
		return name
	}
	for _, seat := range state.Seats {
		if strings.EqualFold(seat.Name, name) {
			return seat.Name
		}
	}
	return name
}

// logText renders the narrative log as plain text for the clipboard
func logText(state *match.State) string {
	if state == nil {
		return ""
	}
	var b strings.Builder
	for _, entry := range state.NarrativeLog {
		fmt.Fprintf(&b, "%s: %s\n", entry.Sender, entry.Message)
	}
	return b.String()
}
