package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/jwebster45206/werewolf-gm/pkg/match"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// ActionRequest matches the API request structure
type ActionRequest struct {
	Action  string `json:"action"`
	Payload any    `json:"payload,omitempty"`
	MatchID string `json:"matchId,omitempty"`
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

func getMatch(client *http.Client, baseURL string, matchID uuid.UUID) (*match.State, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/match/%s", baseURL, matchID))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	return decodeMatch(resp, http.StatusOK, "failed to get match")
}

// sendAction posts one action and returns the resulting match state
func sendAction(client *http.Client, baseURL string, req ActionRequest) (*match.State, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		baseURL+"/v1/game/action",
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	want := http.StatusOK
	if req.Action == actionStartGame {
		want = http.StatusCreated
	}
	return decodeMatch(resp, want, "action failed")
}

func deleteMatch(client *http.Client, baseURL string, matchID uuid.UUID) error {
	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/v1/match/%s", baseURL, matchID), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}
	return nil
}

func decodeMatch(resp *http.Response, wantStatus int, errPrefix string) (*match.State, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil || errorResp.Error == "" {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("%s: %s", errPrefix, errorResp.Error)
	}

	var state match.State
	if err := json.Unmarshal(body, &state); err != nil {
		return nil, fmt.Errorf("failed to parse match response: %w", err)
	}
	return &state, nil
}
