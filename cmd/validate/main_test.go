package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/werewolf-gm/pkg/match"
)

func validState() *match.State {
	s := &match.State{
		ID: uuid.MustParse("0d7c1b2a-3e4f-4a5b-8c6d-7e8f9a0b1c2d"),
		Seats: []match.Seat{
			{Name: "Rowan", Persona: "An outsider", Role: match.RoleVillager, IsHuman: true, Status: match.StatusAlive},
			{Name: "Sir Arthur", Persona: "Brave", Role: match.RoleWerewolf, Status: match.StatusAlive},
			{Name: "Grandma Elsie", Persona: "Sharp", Role: match.RoleSeer, Status: match.StatusAlive},
			{Name: "Old Hank", Persona: "Grumpy", Role: match.RoleVillager, Status: match.StatusDead},
		},
		Day:     2,
		Phase:   match.PhaseDiscussion,
		Context: match.SceneContext{Season: "autumn", TimeOfDay: "dusk", Location: "the square"},
		NarrativeLog: []match.LogEntry{
			{Sender: match.SenderGM, Message: "Night falls."},
			{Sender: "Rowan", Message: "I vote for Old Hank."},
		},
	}
	s.RecomputeSurvivors()
	return s
}

func encode(t *testing.T, s *match.State) []byte {
	t.Helper()
	data, err := json.Marshal(s)
	require.NoError(t, err)
	return data
}

func TestMatchValidator_Valid(t *testing.T) {
	v := &MatchValidator{}
	assert.NoError(t, v.validate(encode(t, validState())))
}

func TestMatchValidator_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *match.State)
		wantErr string
	}{
		{
			name:    "missing id",
			mutate:  func(s *match.State) { s.ID = uuid.Nil },
			wantErr: "match id is missing",
		},
		{
			name:    "stale survivors",
			mutate:  func(s *match.State) { s.Survivors = s.Survivors[:1] },
			wantErr: "do not match alive seats",
		},
		{
			name: "undeclared villager win",
			mutate: func(s *match.State) {
				s.Seats[1].Status = match.StatusDead
				s.RecomputeSurvivors()
			},
			wantErr: "Villagers have already won",
		},
		{
			name: "wrong winner",
			mutate: func(s *match.State) {
				s.Seats[0].Status = match.StatusDead
				s.Seats[2].Status = match.StatusDead
				s.RecomputeSurvivors()
				s.GameOver = true
				s.Winner = match.WinnerVillagers
			},
			wantErr: "roster says Werewolves",
		},
		{
			name: "premature winner",
			mutate: func(s *match.State) {
				s.GameOver = true
				s.Winner = match.WinnerWerewolves
			},
			wantErr: "no side has won yet",
		},
		{
			name:    "unknown sender",
			mutate:  func(s *match.State) { s.AppendLog("Stranger", "hello") },
			wantErr: `unknown sender "Stranger"`,
		},
		{
			name:    "empty message",
			mutate:  func(s *match.State) { s.AppendLog(match.SenderGM, "  ") },
			wantErr: "empty message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validState()
			tt.mutate(s)
			v := &MatchValidator{}
			err := v.validate(encode(t, s))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMatchValidator_GameOverWithoutWinner(t *testing.T) {
	s := validState()
	s.GameOver = true
	v := &MatchValidator{}
	assert.NoError(t, v.validate(encode(t, s)))
}

func TestMatchValidator_StrictDecoding(t *testing.T) {
	v := &MatchValidator{}

	err := v.validate([]byte(`{"id":`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")

	err = v.validate([]byte(`{"id":"0d7c1b2a-3e4f-4a5b-8c6d-7e8f9a0b1c2d","hitPoints":3}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strict JSON")
}

func TestMatchValidator_ValidateFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "match.json")
	require.NoError(t, os.WriteFile(good, encode(t, validState()), 0o644))

	v := &MatchValidator{}
	assert.NoError(t, v.validateFile(good))

	err := v.validateFile(filepath.Join(dir, "match.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".json extension")

	err = v.validateFile(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}
