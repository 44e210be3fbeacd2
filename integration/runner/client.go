package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/jwebster45206/werewolf-gm/pkg/match"
)

// ActionRequest mirrors the body of POST /v1/game/action.
type ActionRequest struct {
	Action    string          `json:"action"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	GameState *match.State    `json:"gameState,omitempty"`
	MatchID   string          `json:"matchId,omitempty"`
}

// ActionResponse is either the next match state or the API error.
type ActionResponse struct {
	StatusCode int
	State      *match.State
	Error      string
}

// PostAction sends one action and decodes whichever body the API returned.
// A non-2xx status is not an error here; callers decide whether it was expected.
func PostAction(ctx context.Context, client *http.Client, baseURL string, req ActionRequest) (*ActionResponse, error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal action request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/v1/game/action", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create action request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send action request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read action response: %w", err)
	}

	out := &ActionResponse{StatusCode: resp.StatusCode}
	if resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error == "" {
			out.Error = string(body)
		} else {
			out.Error = apiErr.Error
		}
		return out, nil
	}

	var state match.State
	if err := json.Unmarshal(body, &state); err != nil {
		return nil, fmt.Errorf("failed to decode match state: %w", err)
	}
	out.State = &state
	return out, nil
}

// GetMatch retrieves the stored match by ID.
func GetMatch(ctx context.Context, client *http.Client, baseURL string, matchID uuid.UUID) (*match.State, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/v1/match/%s", baseURL, matchID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create match request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("get match returned %d: %s", resp.StatusCode, string(body))
	}

	var state match.State
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, fmt.Errorf("failed to decode match: %w", err)
	}
	return &state, nil
}

// DeleteMatch removes the match so repeated runs do not pile up in storage.
func DeleteMatch(ctx context.Context, client *http.Client, baseURL string, matchID uuid.UUID) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, fmt.Sprintf("%s/v1/match/%s", baseURL, matchID), nil)
	if err != nil {
		return fmt.Errorf("failed to create delete request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("delete match returned %d", resp.StatusCode)
	}
	return nil
}
