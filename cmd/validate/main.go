package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/werewolf-gm/pkg/match"
	"github.com/jwebster45206/werewolf-gm/pkg/rules"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <match.json> [match.json...]\n", os.Args[0])
		os.Exit(1)
	}

	failed := false
	for _, filename := range os.Args[1:] {
		validator := &MatchValidator{}
		if err := validator.validateFile(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			failed = true
			continue
		}
		fmt.Printf("%s is a valid match state\n", filename)
	}
	if failed {
		os.Exit(1)
	}
}

// MatchValidator checks saved match snapshots for broken invariants.
type MatchValidator struct {
	errors []string
}

func (v *MatchValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	if filepath.Ext(filename) != ".json" {
		return fmt.Errorf("match file must have .json extension: %s", filepath.Base(filename))
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	if err := v.validate(data); err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	return nil
}

func (v *MatchValidator) validate(data []byte) error {
	v.errors = nil

	if !json.Valid(data) {
		return fmt.Errorf("invalid JSON")
	}

	var s match.State
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&s); err != nil {
		return fmt.Errorf("failed strict JSON unmarshaling: %w", err)
	}

	if err := s.Validate(); err != nil {
		v.addError("%v", err)
	}
	v.validateOutcome(&s)
	v.validateLog(&s)

	if s.ID == uuid.Nil {
		v.addError("match id is missing")
	}

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors:\n%s", strings.Join(v.errors, "\n"))
	}
	return nil
}

func (v *MatchValidator) validateOutcome(s *match.State) {
	outcome := rules.Evaluate(s.Seats)
	switch {
	case !s.GameOver && outcome.Over:
		v.addError("match is still running but %s have already won", outcome.Winner)
	case s.GameOver && s.Winner != match.WinnerNone && outcome.Over && s.Winner != outcome.Winner:
		v.addError("winner is %s but the roster says %s", s.Winner, outcome.Winner)
	case s.GameOver && s.Winner != match.WinnerNone && !outcome.Over:
		v.addError("winner is %s but no side has won yet", s.Winner)
	}
}

func (v *MatchValidator) validateLog(s *match.State) {
	if len(s.NarrativeLog) == 0 {
		v.addError("narrative log is empty")
	}
	for i, entry := range s.NarrativeLog {
		if entry.Sender != match.SenderGM && s.Seat(entry.Sender) == nil {
			v.addError("log entry %d has unknown sender %q", i, entry.Sender)
		}
		if strings.TrimSpace(entry.Message) == "" {
			v.addError("log entry %d has an empty message", i)
		}
	}
}

func (v *MatchValidator) addError(format string, args ...any) {
	v.errors = append(v.errors, fmt.Sprintf("  - "+format, args...))
}
