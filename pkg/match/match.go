package match

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the hidden allegiance assigned to a seat at setup.
type Role string

const (
	RoleWerewolf Role = "Werewolf"
	RoleVillager Role = "Villager"
	RoleSeer     Role = "Seer"  // no ability yet
	RoleWitch    Role = "Witch" // no ability yet
)

// Status of a seat. Only ever moves from alive to dead.
type Status string

const (
	StatusAlive Status = "alive"
	StatusDead  Status = "dead"
)

// Phase is the sub-stage of the current day.
type Phase string

const (
	PhaseDiscussion Phase = "discussion"
	PhaseVoting     Phase = "voting"
)

// Winner names the winning side. The zero value means no winner and
// is encoded as JSON null.
type Winner string

const (
	WinnerNone       Winner = ""
	WinnerVillagers  Winner = "Villagers"
	WinnerWerewolves Winner = "Werewolves"
)

func (w Winner) MarshalJSON() ([]byte, error) {
	if w == WinnerNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(w))
}

func (w *Winner) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*w = WinnerNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*w = Winner(s)
	return nil
}

// SenderGM is the log sender used for all narration and system lines.
const SenderGM = "GM"

// Seat is one participant slot in a match.
type Seat struct {
	Name    string `json:"name"`    // unique within a match
	Persona string `json:"persona"` // personality descriptor, fixed at creation
	Role    Role   `json:"role"`
	IsHuman bool   `json:"isHuman"`
	Status  Status `json:"status"`
}

// Alive reports whether the seat is still in play.
func (s Seat) Alive() bool {
	return s.Status == StatusAlive
}

// SceneContext holds the scene descriptors picked once at setup.
type SceneContext struct {
	Season    string `json:"season"`
	TimeOfDay string `json:"time"`
	Location  string `json:"location"`
}

// LogEntry is one line of the narrative log.
type LogEntry struct {
	Sender  string `json:"sender"` // "GM" or a seat name
	Message string `json:"message"`
}

// State is a full snapshot of a match. Every engine call receives one and
// returns a new one; snapshots are never shared between calls.
type State struct {
	ID            uuid.UUID    `json:"id"`
	Seats         []Seat       `json:"seats"`     // creation order, human first
	Survivors     []string     `json:"survivors"` // derived from Seats
	Day           int          `json:"day"`
	Phase         Phase        `json:"phase"`
	Context       SceneContext `json:"context"`
	NarrativeLog  []LogEntry   `json:"narrativeLog"` // append-only
	GameOver      bool         `json:"gameOver"`
	Winner        Winner       `json:"winner"`
	ImageURL      string       `json:"imageUrl"`
	EventImageURL string       `json:"eventImageUrl"`
	UpdatedAt     time.Time    `json:"updatedAt,omitzero"`
}

// MarshalJSON writes an empty media reference as null. Decoding needs
// no counterpart: null leaves a string field empty.
func (s State) MarshalJSON() ([]byte, error) {
	type plain State
	return json.Marshal(struct {
		plain
		ImageURL      *string `json:"imageUrl"`
		EventImageURL *string `json:"eventImageUrl"`
	}{plain(s), mediaRef(s.ImageURL), mediaRef(s.EventImageURL)})
}

func mediaRef(url string) *string {
	if url == "" {
		return nil
	}
	return &url
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	c := *s
	c.Seats = slices.Clone(s.Seats)
	c.Survivors = slices.Clone(s.Survivors)
	c.NarrativeLog = slices.Clone(s.NarrativeLog)
	if c.Seats == nil {
		c.Seats = []Seat{}
	}
	if c.Survivors == nil {
		c.Survivors = []string{}
	}
	if c.NarrativeLog == nil {
		c.NarrativeLog = []LogEntry{}
	}
	return &c
}

// RecomputeSurvivors rebuilds the survivor cache from seat statuses.
func (s *State) RecomputeSurvivors() {
	survivors := make([]string, 0, len(s.Seats))
	for _, seat := range s.Seats {
		if seat.Alive() {
			survivors = append(survivors, seat.Name)
		}
	}
	s.Survivors = survivors
}

// AppendLog adds a line to the narrative log.
func (s *State) AppendLog(sender, message string) {
	s.NarrativeLog = append(s.NarrativeLog, LogEntry{Sender: sender, Message: message})
}

// Human returns the human seat, or nil if the state has none.
func (s *State) Human() *Seat {
	for i := range s.Seats {
		if s.Seats[i].IsHuman {
			return &s.Seats[i]
		}
	}
	return nil
}

// Seat returns the seat with the given name, or nil.
func (s *State) Seat(name string) *Seat {
	for i := range s.Seats {
		if s.Seats[i].Name == name {
			return &s.Seats[i]
		}
	}
	return nil
}

// AliveSeats returns copies of all living seats in seat order.
func (s *State) AliveSeats() []Seat {
	alive := make([]Seat, 0, len(s.Seats))
	for _, seat := range s.Seats {
		if seat.Alive() {
			alive = append(alive, seat)
		}
	}
	return alive
}

// AliveAISeats returns copies of all living non-human seats in seat order.
func (s *State) AliveAISeats() []Seat {
	alive := make([]Seat, 0, len(s.Seats))
	for _, seat := range s.Seats {
		if seat.Alive() && !seat.IsHuman {
			alive = append(alive, seat)
		}
	}
	return alive
}

// Kill marks the named seat dead and refreshes the survivor cache.
// It reports false if no such seat exists.
func (s *State) Kill(name string) bool {
	seat := s.Seat(name)
	if seat == nil {
		return false
	}
	seat.Status = StatusDead
	s.RecomputeSurvivors()
	return true
}

// Validate checks the structural invariants of a snapshot.
func (s *State) Validate() error {
	if s == nil {
		return fmt.Errorf("state is nil")
	}
	if len(s.Seats) == 0 {
		return fmt.Errorf("state has no seats")
	}

	names := make(map[string]struct{}, len(s.Seats))
	humans := 0
	for i, seat := range s.Seats {
		if seat.Name == "" {
			return fmt.Errorf("seat %d has an empty name", i)
		}
		if strings.EqualFold(seat.Name, SenderGM) {
			return fmt.Errorf("seat name %q is reserved", seat.Name)
		}
		if _, dup := names[seat.Name]; dup {
			return fmt.Errorf("duplicate seat name %q", seat.Name)
		}
		names[seat.Name] = struct{}{}
		if seat.IsHuman {
			humans++
		}
		switch seat.Role {
		case RoleWerewolf, RoleVillager, RoleSeer, RoleWitch:
		default:
			return fmt.Errorf("seat %q has unknown role %q", seat.Name, seat.Role)
		}
		if seat.Status != StatusAlive && seat.Status != StatusDead {
			return fmt.Errorf("seat %q has unknown status %q", seat.Name, seat.Status)
		}
	}
	if humans != 1 {
		return fmt.Errorf("expected exactly one human seat, found %d", humans)
	}

	expected := make([]string, 0, len(s.Seats))
	for _, seat := range s.Seats {
		if seat.Alive() {
			expected = append(expected, seat.Name)
		}
	}
	if !slices.Equal(expected, s.Survivors) {
		return fmt.Errorf("survivors %v do not match alive seats %v", s.Survivors, expected)
	}

	if s.Day < 1 {
		return fmt.Errorf("day must be at least 1, got %d", s.Day)
	}
	if s.Phase != PhaseDiscussion && s.Phase != PhaseVoting {
		return fmt.Errorf("unknown phase %q", s.Phase)
	}
	switch s.Winner {
	case WinnerNone:
	case WinnerVillagers, WinnerWerewolves:
		if !s.GameOver {
			return fmt.Errorf("winner %q set while the game is still running", s.Winner)
		}
	default:
		return fmt.Errorf("unknown winner %q", s.Winner)
	}
	return nil
}
