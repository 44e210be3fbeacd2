package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/werewolf-gm/pkg/action"
	"github.com/jwebster45206/werewolf-gm/pkg/match"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

// Runner plays scripted matches against a running werewolf-gm API
type Runner struct {
	BaseURL           string
	Client            *http.Client
	Logger            func(format string, args ...any)
	ErrorHandlingMode ErrorHandlingMode
	Cleanup           bool // delete the match once the suite finishes
}

// NewRunner creates a new test runner
func NewRunner(baseURL string) *Runner {
	return &Runner{
		BaseURL:           strings.TrimSuffix(baseURL, "/"),
		Client:            &http.Client{Timeout: 2 * time.Minute},
		Logger:            func(string, ...any) {},
		ErrorHandlingMode: ErrorHandlingContinue,
		Cleanup:           true,
	}
}

// LoadTestSuite loads a test suite from a JSON file
func LoadTestSuite(filename string) (TestSuite, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	if err := json.Unmarshal(content, &suite); err != nil {
		return TestSuite{}, fmt.Errorf("failed to parse JSON in %s: %w", filename, err)
	}

	return suite, nil
}

// LoadTestSuiteWithExpansion loads a test suite and expands it if it's a sequence
func LoadTestSuiteWithExpansion(filename string, casesDir string) ([]TestJob, error) {
	suite, err := LoadTestSuite(filename)
	if err != nil {
		return nil, err
	}

	if !suite.IsSequence() {
		return []TestJob{{
			Name:     suite.Name,
			Suite:    suite,
			CaseFile: filename,
		}}, nil
	}

	var jobs []TestJob
	for _, caseFile := range suite.Cases {
		casePath := filepath.Join(casesDir, caseFile)

		// Recursively load (in case a sequence references another sequence)
		subJobs, err := LoadTestSuiteWithExpansion(casePath, casesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load case '%s' referenced by sequence '%s': %w", caseFile, suite.Name, err)
		}

		jobs = append(jobs, subJobs...)
	}

	return jobs, nil
}

// RunSuite executes a complete test suite
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) (TestRunResult, error) {
	start := time.Now()
	result := TestRunResult{
		Job: TestJob{
			Name:  suite.Name,
			Suite: suite,
		},
		Results: make([]TestResult, 0, len(suite.Steps)),
	}

	var current *match.State
	if suite.SeedMatch != nil {
		current = suite.SeedMatch.Clone()
		if current.ID == uuid.Nil {
			current.ID = uuid.New()
		}
		current.RecomputeSurvivors()
	}
	seeded := current != nil

	if !seeded && (len(suite.Steps) == 0 || suite.Steps[0].Action != string(action.KindStartGame)) {
		state, err := r.startMatch(ctx, suite.PlayerName)
		if err != nil {
			result.Error = fmt.Errorf("failed to start match: %w", err)
			result.Duration = time.Since(start)
			return result, result.Error
		}
		current = state
		result.MatchID = state.ID
	}

	for i, step := range suite.Steps {
		r.Logger("    [%d/%d] Running step: %s", i+1, len(suite.Steps), step.Name)

		req := r.buildRequest(suite, step, current, seeded)
		stepResult, next := r.runStep(ctx, step, req, current)
		result.Results = append(result.Results, stepResult)

		if next != nil {
			current = next
			seeded = false
			result.MatchID = next.ID
		}

		if stepResult.Error != nil {
			r.Logger("    [%d/%d] ✗ %s: %v", i+1, len(suite.Steps), step.Name, stepResult.Error)
			if result.Error == nil {
				result.Error = fmt.Errorf("step %d (%s) failed: %w", i, step.Name, stepResult.Error)
			}
			if r.ErrorHandlingMode == ErrorHandlingExit {
				break
			}
			continue
		}

		r.Logger("    [%d/%d] ✓ %s (%v)", i+1, len(suite.Steps), step.Name, stepResult.Duration)
	}

	if r.Cleanup && result.MatchID != uuid.Nil {
		if err := DeleteMatch(ctx, r.Client, r.BaseURL, result.MatchID); err != nil {
			r.Logger("    Warning: %v", err)
		}
	}

	result.Duration = time.Since(start)
	return result, result.Error
}

func (r *Runner) startMatch(ctx context.Context, playerName string) (*match.State, error) {
	payload, err := json.Marshal(action.StartGame{PlayerName: playerName})
	if err != nil {
		return nil, err
	}
	resp, err := PostAction(ctx, r.Client, r.BaseURL, ActionRequest{Action: string(action.KindStartGame), Payload: payload})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("start game returned %d: %s", resp.StatusCode, resp.Error)
	}
	return resp.State, nil
}

// buildRequest addresses the step to the stored match, or carries the
// seed inline until the API has stored it.
func (r *Runner) buildRequest(suite TestSuite, step TestStep, current *match.State, seeded bool) ActionRequest {
	req := ActionRequest{Action: step.Action, Payload: step.Payload}

	if step.Action == string(action.KindStartGame) {
		if len(req.Payload) == 0 && suite.PlayerName != "" {
			req.Payload, _ = json.Marshal(action.StartGame{PlayerName: suite.PlayerName})
		}
		return req
	}

	switch {
	case current == nil:
	case seeded:
		req.GameState = current
	default:
		req.MatchID = current.ID.String()
	}
	return req
}

func (r *Runner) runStep(ctx context.Context, step TestStep, req ActionRequest, prev *match.State) (TestResult, *match.State) {
	start := time.Now()
	result := TestResult{StepName: step.Name}

	resp, err := PostAction(ctx, r.Client, r.BaseURL, req)
	if err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		return result, nil
	}

	if resp.State != nil {
		result.NewEntries = newEntries(prev, resp.State)

		// Confirm the API stored what it returned
		stored, err := GetMatch(ctx, r.Client, r.BaseURL, resp.State.ID)
		if err != nil {
			result.Error = fmt.Errorf("failed to get match after step: %w", err)
			result.Duration = time.Since(start)
			return result, resp.State
		}
		if len(stored.NarrativeLog) != len(resp.State.NarrativeLog) {
			result.Error = fmt.Errorf("stored match has %d log entries, response had %d", len(stored.NarrativeLog), len(resp.State.NarrativeLog))
			result.Duration = time.Since(start)
			return result, resp.State
		}
	}

	if err := checkExpectations(step.Expectations, resp, result.NewEntries); err != nil {
		result.Error = fmt.Errorf("expectation failed: %w", err)
		result.Duration = time.Since(start)
		return result, resp.State
	}

	result.Success = true
	result.Duration = time.Since(start)
	return result, resp.State
}

// newEntries returns the log entries next appended on top of prev.
func newEntries(prev, next *match.State) []match.LogEntry {
	if prev == nil || prev.ID != next.ID || len(prev.NarrativeLog) > len(next.NarrativeLog) {
		return next.NarrativeLog
	}
	return next.NarrativeLog[len(prev.NarrativeLog):]
}

func checkExpectations(exp Expectations, resp *ActionResponse, entries []match.LogEntry) error {
	if exp.Status != nil {
		if resp.StatusCode != *exp.Status {
			return fmt.Errorf("expected status %d, got %d (%s)", *exp.Status, resp.StatusCode, resp.Error)
		}
	} else if resp.StatusCode >= 300 {
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, resp.Error)
	}

	if exp.ErrorContains != "" {
		if !strings.Contains(strings.ToLower(resp.Error), strings.ToLower(exp.ErrorContains)) {
			return fmt.Errorf("expected error to contain '%s', got '%s'", exp.ErrorContains, resp.Error)
		}
	}

	state := resp.State
	if state == nil {
		return nil
	}

	if exp.Day != nil && state.Day != *exp.Day {
		return fmt.Errorf("expected day %d, got %d", *exp.Day, state.Day)
	}

	if exp.Phase != nil && string(state.Phase) != *exp.Phase {
		return fmt.Errorf("expected phase %s, got %s", *exp.Phase, state.Phase)
	}

	if exp.GameOver != nil && state.GameOver != *exp.GameOver {
		return fmt.Errorf("expected game_over to be %t, got %t", *exp.GameOver, state.GameOver)
	}

	if exp.Winner != nil {
		if got := winnerName(state.Winner); got != *exp.Winner {
			return fmt.Errorf("expected winner %s, got %s", *exp.Winner, got)
		}
	}

	if exp.Seats != nil && len(state.Seats) != *exp.Seats {
		return fmt.Errorf("expected %d seats, got %d", *exp.Seats, len(state.Seats))
	}

	if exp.Survivors != nil && len(state.Survivors) != *exp.Survivors {
		return fmt.Errorf("expected %d survivors, got %d: %v", *exp.Survivors, len(state.Survivors), state.Survivors)
	}

	for _, name := range exp.Alive {
		seat := state.Seat(name)
		if seat == nil {
			return fmt.Errorf("expected seat %s to exist, but it doesn't", name)
		}
		if !seat.Alive() {
			return fmt.Errorf("expected %s to be alive", name)
		}
	}

	for _, name := range exp.Dead {
		seat := state.Seat(name)
		if seat == nil {
			return fmt.Errorf("expected seat %s to exist, but it doesn't", name)
		}
		if seat.Alive() {
			return fmt.Errorf("expected %s to be dead", name)
		}
	}

	if exp.LogGrowth != nil && len(entries) != *exp.LogGrowth {
		return fmt.Errorf("expected %d new log entries, got %d", *exp.LogGrowth, len(entries))
	}

	text := strings.ToLower(logText(entries))
	for _, expectedText := range exp.LogContains {
		if !strings.Contains(text, strings.ToLower(expectedText)) {
			return fmt.Errorf("expected log to contain '%s', but it didn't", expectedText)
		}
	}
	for _, unexpectedText := range exp.LogNotContains {
		if strings.Contains(text, strings.ToLower(unexpectedText)) {
			return fmt.Errorf("expected log to NOT contain '%s', but it did", unexpectedText)
		}
	}

	return nil
}

func winnerName(w match.Winner) string {
	if w == match.WinnerNone {
		return "None"
	}
	return string(w)
}

func logText(entries []match.LogEntry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.Sender)
		sb.WriteString(": ")
		sb.WriteString(e.Message)
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatReport summarises failed steps grouped by case.
func FormatReport(results []TestRunResult) string {
	var sb strings.Builder
	totalSteps, failedSteps := 0, 0
	failuresByCase := make(map[string][]TestResult)
	for _, run := range results {
		for _, step := range run.Results {
			totalSteps++
			if step.Error != nil {
				failedSteps++
				failuresByCase[run.Job.Name] = append(failuresByCase[run.Job.Name], step)
			}
		}
	}

	sb.WriteString("\n========================================\n")
	sb.WriteString("Integration Report\n")
	sb.WriteString("========================================\n")
	fmt.Fprintf(&sb, "\nOverall: %d/%d steps passed, %d failed\n", totalSteps-failedSteps, totalSteps, failedSteps)

	caseNames := make([]string, 0, len(failuresByCase))
	for name := range failuresByCase {
		caseNames = append(caseNames, name)
	}
	sort.Strings(caseNames)

	for _, name := range caseNames {
		failures := failuresByCase[name]
		fmt.Fprintf(&sb, "\n%s (%d step failure(s)):\n", name, len(failures))
		for _, f := range failures {
			fmt.Fprintf(&sb, "  ✗ %s:\n      %v\n", f.StepName, f.Error)
		}
	}
	sb.WriteString("\n========================================\n")
	return sb.String()
}
