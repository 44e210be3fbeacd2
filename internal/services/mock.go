package services

import (
	"context"
	"sync"

	"github.com/jwebster45206/werewolf-gm/pkg/chat"
	"github.com/jwebster45206/werewolf-gm/pkg/prompts"
)

// MockNarrator is a Narrator for tests. Without NarrateFunc it returns
// the fallback, like a narrator whose provider is down.
type MockNarrator struct {
	NarrateFunc func(ctx context.Context, prompt string, fallback string) string

	// Track calls for testing
	NarrateCalls []NarrateCall

	mu sync.Mutex // protects all fields above
}

type NarrateCall struct {
	Prompt   string
	Fallback string
}

var _ Narrator = (*MockNarrator)(nil)

func NewMockNarrator() *MockNarrator {
	return &MockNarrator{NarrateCalls: make([]NarrateCall, 0)}
}

func (m *MockNarrator) Narrate(ctx context.Context, prompt string, fallback string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.NarrateCalls = append(m.NarrateCalls, NarrateCall{Prompt: prompt, Fallback: fallback})

	if m.NarrateFunc != nil {
		return m.NarrateFunc(ctx, prompt, fallback)
	}
	if fallback == "" {
		return prompts.DefaultNarration
	}
	return fallback
}

// Calls returns a copy of the recorded calls.
func (m *MockNarrator) Calls() []NarrateCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]NarrateCall(nil), m.NarrateCalls...)
}

// MockIllustrator is an Illustrator for tests. Without IllustrateFunc
// it returns the placeholder image.
type MockIllustrator struct {
	IllustrateFunc func(ctx context.Context, prompt string) string

	IllustrateCalls []string

	mu sync.Mutex
}

var _ Illustrator = (*MockIllustrator)(nil)

func NewMockIllustrator() *MockIllustrator {
	return &MockIllustrator{IllustrateCalls: make([]string, 0)}
}

func (m *MockIllustrator) Illustrate(ctx context.Context, prompt string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.IllustrateCalls = append(m.IllustrateCalls, prompt)

	if m.IllustrateFunc != nil {
		return m.IllustrateFunc(ctx, prompt)
	}
	return PlaceholderImage()
}

func (m *MockIllustrator) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.IllustrateCalls...)
}

// MockChatClient is a ChatClient for tests.
type MockChatClient struct {
	ChatFunc  func(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error)
	ChatCalls [][]chat.ChatMessage

	mu sync.Mutex
}

var _ ChatClient = (*MockChatClient)(nil)

func (m *MockChatClient) Chat(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ChatCalls = append(m.ChatCalls, messages)

	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, messages)
	}
	return &chat.ChatResponse{Message: "The village stirs.", Model: "mock"}, nil
}

// MockImageClient is an ImageClient for tests.
type MockImageClient struct {
	GenerateImageFunc  func(ctx context.Context, prompt string) (*Image, error)
	GenerateImageCalls []string

	mu sync.Mutex
}

var _ ImageClient = (*MockImageClient)(nil)

func (m *MockImageClient) GenerateImage(ctx context.Context, prompt string) (*Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GenerateImageCalls = append(m.GenerateImageCalls, prompt)

	if m.GenerateImageFunc != nil {
		return m.GenerateImageFunc(ctx, prompt)
	}
	return &Image{MimeType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}, nil
}
