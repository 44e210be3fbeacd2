package runner

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/werewolf-gm/pkg/match"
)

// TestSuite defines a scripted match.
// Can either be a regular test with Steps, or a suite that references other Cases
type TestSuite struct {
	Name       string       `json:"name"`
	PlayerName string       `json:"player_name,omitempty"` // START_GAME name when no seed is given
	SeedMatch  *match.State `json:"seed_match,omitempty"`  // replaces START_GAME with a fixed table
	Steps      []TestStep   `json:"steps,omitempty"`
	Cases      []string     `json:"cases,omitempty"` // Used for suite tests (list of case files)
}

// IsSequence returns true if this is a suite that sequences other cases
func (ts *TestSuite) IsSequence() bool {
	return len(ts.Cases) > 0
}

// TestStep is one action sent to POST /v1/game/action.
type TestStep struct {
	Name         string          `json:"name,omitempty"`
	Action       string          `json:"action"`
	Payload      json.RawMessage `json:"payload,omitempty"`
	Expectations Expectations    `json:"expect"`
}

// Expectations defines what to check after a step executes
type Expectations struct {
	Day       *int     `json:"day,omitempty"`
	Phase     *string  `json:"phase,omitempty"`
	GameOver  *bool    `json:"game_over,omitempty"`
	Winner    *string  `json:"winner,omitempty"` // "Villagers", "Werewolves" or "None"
	Seats     *int     `json:"seats,omitempty"`
	Survivors *int     `json:"survivors,omitempty"`
	Alive     []string `json:"alive,omitempty"`
	Dead      []string `json:"dead,omitempty"`

	// Log Analysis, applied to the entries this step appended
	LogContains    []string `json:"log_contains,omitempty"`
	LogNotContains []string `json:"log_not_contains,omitempty"`
	LogGrowth      *int     `json:"log_growth,omitempty"`

	// Status and ErrorContains check rejected requests
	Status        *int   `json:"status,omitempty"`
	ErrorContains string `json:"error_contains,omitempty"`
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	StepName   string
	Success    bool
	Error      error
	Duration   time.Duration
	NewEntries []match.LogEntry
}

// TestJob represents a test suite to be executed
type TestJob struct {
	Name     string
	Suite    TestSuite
	CaseFile string
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Job      TestJob
	Results  []TestResult
	Error    error
	Duration time.Duration
	MatchID  uuid.UUID // ID of the match used for this test
}
