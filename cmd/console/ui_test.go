package main

import (
	"net/http"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/werewolf-gm/pkg/match"
)

func newTestUI(t *testing.T, api *fakeAPI) ConsoleUI {
	t.Helper()
	srv := api.server(t)
	cfg := &ConsoleConfig{APIBaseURL: srv.URL, PlayerName: "Rowan"}
	ui := NewConsoleUI(cfg, &http.Client{})
	model, _ := ui.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return model.(ConsoleUI)
}

// runCmd executes cmd and returns the first matchMsg it yields, unpacking batches.
func runCmd(t *testing.T, cmd tea.Cmd) matchMsg {
	t.Helper()
	require.NotNil(t, cmd)
	switch msg := cmd().(type) {
	case matchMsg:
		return msg
	case tea.BatchMsg:
		return runCmd(t, msg[0])
	default:
		t.Fatalf("unexpected message %T", msg)
		return matchMsg{}
	}
}

func started(t *testing.T, api *fakeAPI) ConsoleUI {
	t.Helper()
	ui := newTestUI(t, api)
	model, cmd := ui.Update(tea.KeyMsg{Type: tea.KeyEnter})
	ui = model.(ConsoleUI)
	require.True(t, ui.loading)

	msg := runCmd(t, cmd)
	require.NoError(t, msg.err)
	model, _ = ui.Update(msg)
	return model.(ConsoleUI)
}

func TestConsoleUI_StartMatch(t *testing.T) {
	api := &fakeAPI{state: testMatch()}
	ui := started(t, api)

	assert.False(t, ui.showStartModal)
	assert.False(t, ui.loading)
	assert.True(t, ui.ready)
	assert.Equal(t, api.state.ID, ui.match.ID)
	assert.Equal(t, actionStartGame, api.lastAction["action"])
	assert.Equal(t, map[string]any{"playerName": "Rowan"}, api.lastAction["payload"])
	assert.Contains(t, ui.View(), "VILLAGE")
}

func TestConsoleUI_StartFailureStaysInModal(t *testing.T) {
	api := &fakeAPI{state: testMatch(), failAction: true}
	ui := newTestUI(t, api)

	model, cmd := ui.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model, _ = model.(ConsoleUI).Update(runCmd(t, cmd))
	ui = model.(ConsoleUI)

	assert.True(t, ui.showStartModal)
	require.Error(t, ui.err)
	assert.Contains(t, ui.View(), "Could not start a match")
}

func TestConsoleUI_Vote(t *testing.T) {
	api := &fakeAPI{state: testMatch()}
	ui := started(t, api)

	ui.textarea.SetValue("/vote old hank")
	model, cmd := ui.Update(tea.KeyMsg{Type: tea.KeyEnter})
	ui = model.(ConsoleUI)
	assert.True(t, ui.loading)
	assert.Empty(t, ui.textarea.Value())

	msg := runCmd(t, cmd)
	require.NoError(t, msg.err)
	assert.Equal(t, "VOTE", api.lastAction["action"])
	assert.Equal(t, map[string]any{"target": "Old Hank"}, api.lastAction["payload"])
	assert.Equal(t, api.state.ID.String(), api.lastAction["matchId"])

	model, _ = ui.Update(msg)
	assert.False(t, model.(ConsoleUI).loading)
}

func TestConsoleUI_LocalCommands(t *testing.T) {
	api := &fakeAPI{state: testMatch()}
	ui := started(t, api)

	ui.textarea.SetValue("/help")
	model, cmd := ui.Update(tea.KeyMsg{Type: tea.KeyEnter})
	ui = model.(ConsoleUI)
	assert.Nil(t, cmd)
	assert.Equal(t, helpText, ui.notice)

	ui.textarea.SetValue("/bogus")
	model, _ = ui.Update(tea.KeyMsg{Type: tea.KeyEnter})
	ui = model.(ConsoleUI)
	assert.Contains(t, ui.notice, "unknown command")

	model, _ = ui.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	ui = model.(ConsoleUI)
	assert.NotEmpty(t, ui.notice)

	model, _ = ui.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	ui = model.(ConsoleUI)
	assert.True(t, ui.showQuitModal)
	assert.Contains(t, ui.View(), "Quit Game?")

	model, _ = ui.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	assert.False(t, model.(ConsoleUI).showQuitModal)
}

func TestConsoleUI_NewMatchDeletesOld(t *testing.T) {
	api := &fakeAPI{state: testMatch()}
	ui := started(t, api)

	ui.textarea.SetValue("/new")
	_, cmd := ui.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msg := runCmd(t, cmd)
	require.NoError(t, msg.err)

	assert.Equal(t, []string{api.state.ID.String()}, api.deleted)
	assert.Equal(t, actionStartGame, api.lastAction["action"])
}

func TestFormatEntry(t *testing.T) {
	gm := formatEntry(match.LogEntry{Sender: match.SenderGM, Message: "Dawn breaks."}, "Rowan", 60)
	assert.Contains(t, gm, GMName+": ")
	assert.Contains(t, gm, "Dawn breaks.")

	you := formatEntry(match.LogEntry{Sender: "Rowan", Message: "Hello"}, "Rowan", 60)
	assert.Contains(t, you, "You: ")

	long := formatEntry(match.LogEntry{Sender: match.SenderGM, Message: strings.Repeat("howl ", 30)}, "Rowan", 40)
	assert.Greater(t, strings.Count(long, "\n"), 2)
}

func TestWriteRoster(t *testing.T) {
	state := testMatch()
	out := writeRoster(state)
	assert.Contains(t, out, "Day 3, voting")
	assert.Contains(t, out, "You are Rowan, a Seer.")
	assert.Contains(t, out, "Alive: 2 of 3")
	assert.Contains(t, out, "● Sir Arthur")
	assert.NotContains(t, out, "Werewolf")

	state.GameOver = true
	state.Winner = match.WinnerVillagers
	out = writeRoster(state)
	assert.Contains(t, out, "Sir Arthur (Werewolf)")

	assert.Equal(t, "GAME OVER: Villagers win", gameOverBanner(state))
	state.Winner = match.WinnerNone
	assert.Equal(t, "GAME OVER", gameOverBanner(state))
}
