package action

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPayload is returned when a payload does not fit its action.
var ErrInvalidPayload = errors.New("invalid action payload")

// Kind is the wire name of an action.
type Kind string

const (
	KindStartGame         Kind = "START_GAME"
	KindPlayerTalk        Kind = "PLAYER_TALK"
	KindReadyToVote       Kind = "READY_TO_VOTE"
	KindVote              Kind = "VOTE"
	KindProgressToNextDay Kind = "PROGRESS_TO_NEXT_DAY"
)

// Action is one of StartGame, PlayerTalk, ReadyToVote, Vote,
// ProgressToNextDay or Unknown.
type Action interface {
	Kind() Kind
	isAction()
}

// StartGame creates a new match for the named human player.
type StartGame struct {
	PlayerName string `json:"playerName"`
}

// PlayerTalk is a message from the human during discussion.
type PlayerTalk struct {
	Text string `json:"text"`
}

// ReadyToVote ends discussion and opens voting.
type ReadyToVote struct{}

// Vote is the human's elimination choice.
type Vote struct {
	Target string `json:"target"`
}

// ProgressToNextDay is the debug fast-forward that skips to the next day.
type ProgressToNextDay struct{}

// Unknown carries an action name the engine does not recognise.
type Unknown struct {
	Name string
}

func (StartGame) Kind() Kind         { return KindStartGame }
func (PlayerTalk) Kind() Kind        { return KindPlayerTalk }
func (ReadyToVote) Kind() Kind       { return KindReadyToVote }
func (Vote) Kind() Kind              { return KindVote }
func (ProgressToNextDay) Kind() Kind { return KindProgressToNextDay }
func (u Unknown) Kind() Kind         { return Kind(u.Name) }

func (StartGame) isAction()         {}
func (PlayerTalk) isAction()        {}
func (ReadyToVote) isAction()       {}
func (Vote) isAction()              {}
func (ProgressToNextDay) isAction() {}
func (Unknown) isAction()           {}

// Validate checks the fields a talk action needs.
func (p PlayerTalk) Validate() error {
	if strings.TrimSpace(p.Text) == "" {
		return fmt.Errorf("%w: text cannot be empty", ErrInvalidPayload)
	}
	return nil
}

// Decode builds the action named by name from its JSON payload.
// Names the engine does not know decode to Unknown without error.
func Decode(name string, payload json.RawMessage) (Action, error) {
	switch Kind(name) {
	case KindStartGame:
		var a StartGame
		if err := decodePayload(payload, &a); err != nil {
			return nil, err
		}
		return a, nil

	case KindPlayerTalk:
		var a PlayerTalk
		if err := decodePayload(payload, &a); err != nil {
			return nil, err
		}
		if err := a.Validate(); err != nil {
			return nil, err
		}
		return a, nil

	case KindReadyToVote:
		return ReadyToVote{}, nil

	case KindVote:
		var a Vote
		if err := decodePayload(payload, &a); err != nil {
			return nil, err
		}
		return a, nil

	case KindProgressToNextDay:
		return ProgressToNextDay{}, nil

	default:
		return Unknown{Name: name}, nil
	}
}

func decodePayload(payload json.RawMessage, v any) error {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}
