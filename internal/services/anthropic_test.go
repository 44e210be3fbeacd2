package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/werewolf-gm/pkg/chat"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewAnthropicService(t *testing.T) {
	service := NewAnthropicService("test-api-key", "claude-sonnet-4-5", discardLogger())

	if service.apiKey != "test-api-key" {
		t.Errorf("Expected API key test-api-key, got %s", service.apiKey)
	}
	if service.modelName != "claude-sonnet-4-5" {
		t.Errorf("Expected model name claude-sonnet-4-5, got %s", service.modelName)
	}
	if service.baseURL != anthropicBaseURL {
		t.Errorf("Expected base URL %s, got %s", anthropicBaseURL, service.baseURL)
	}
	if service.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
}

func TestAnthropicService_SplitChatMessages(t *testing.T) {
	service := NewAnthropicService("test-key", "model", discardLogger())

	tests := []struct {
		name                   string
		messages               []chat.ChatMessage
		expectedSystem         string
		expectedNonSystemCount int
	}{
		{
			name: "single system message",
			messages: []chat.ChatMessage{
				{Role: chat.ChatRoleSystem, Content: "You are the Game Master."},
				{Role: chat.ChatRoleUser, Content: "Open the story."},
			},
			expectedSystem:         "You are the Game Master.",
			expectedNonSystemCount: 1,
		},
		{
			name: "multiple system messages are joined",
			messages: []chat.ChatMessage{
				{Role: chat.ChatRoleSystem, Content: "You are the Game Master."},
				{Role: chat.ChatRoleUser, Content: "Hello"},
				{Role: chat.ChatRoleSystem, Content: "Be brief."},
			},
			expectedSystem:         "You are the Game Master.\n\nBe brief.",
			expectedNonSystemCount: 1,
		},
		{
			name: "no system messages",
			messages: []chat.ChatMessage{
				{Role: chat.ChatRoleUser, Content: "Hello"},
				{Role: chat.ChatRoleAgent, Content: "Greetings."},
			},
			expectedSystem:         "",
			expectedNonSystemCount: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			system, rest := service.splitChatMessages(tt.messages)
			assert.Equal(t, tt.expectedSystem, system)
			assert.Len(t, rest, tt.expectedNonSystemCount)
			for _, msg := range rest {
				assert.NotEqual(t, chat.ChatRoleSystem, msg.Role)
			}
		})
	}
}

func TestAnthropicService_Chat(t *testing.T) {
	var got AnthropicChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-test",
			"content": [{"type": "text", "text": "Fog rolls over "}, {"type": "text", "text": "the square."}],
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`))
	}))
	defer server.Close()

	service := NewAnthropicService("test-key", "claude-test", discardLogger())
	service.baseURL = server.URL

	resp, err := service.Chat(context.Background(), chat.NewPrompt("system text", "describe the square"))
	require.NoError(t, err)
	assert.Equal(t, "Fog rolls over the square.", resp.Message)
	assert.Equal(t, "claude-test", resp.Model)

	assert.Equal(t, "system text", got.System)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, chat.ChatRoleUser, got.Messages[0].Role)
	assert.Equal(t, DefaultAnthropicMaxTokens, got.MaxTokens)
}

func TestAnthropicService_ChatErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "http error", status: http.StatusTooManyRequests, body: `{"error":{"type":"rate_limit","message":"slow down"}}`},
		{name: "api error in body", status: http.StatusOK, body: `{"error":{"type":"overloaded","message":"busy"}}`},
		{name: "malformed body", status: http.StatusOK, body: `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			service := NewAnthropicService("k", "m", discardLogger())
			service.baseURL = server.URL

			_, err := service.Chat(context.Background(), chat.NewPrompt("", "hi"))
			assert.Error(t, err)
		})
	}
}

func TestAnthropicService_ChatNoMessages(t *testing.T) {
	service := NewAnthropicService("k", "m", discardLogger())
	_, err := service.Chat(context.Background(), []chat.ChatMessage{{Role: chat.ChatRoleSystem, Content: "only system"}})
	assert.Error(t, err)
}
