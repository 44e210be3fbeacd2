package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jwebster45206/werewolf-gm/pkg/chat"
	"github.com/jwebster45206/werewolf-gm/pkg/prompts"
	"github.com/jwebster45206/werewolf-gm/pkg/textfilter"
)

// Narrator turns a prompt into narration. It never fails: when the
// underlying provider cannot answer, the fallback text is returned.
type Narrator interface {
	Narrate(ctx context.Context, prompt string, fallback string) string
}

// LLMNarrator narrates through a chat model using the GM system prompt.
type LLMNarrator struct {
	client ChatClient
	logger *slog.Logger
}

var _ Narrator = (*LLMNarrator)(nil)

func NewLLMNarrator(client ChatClient, logger *slog.Logger) *LLMNarrator {
	return &LLMNarrator{client: client, logger: logger}
}

func (n *LLMNarrator) Narrate(ctx context.Context, prompt string, fallback string) string {
	if fallback == "" {
		fallback = prompts.DefaultNarration
	}

	resp, err := n.client.Chat(ctx, chat.NewPrompt(prompts.GMSystemPrompt, prompt))
	if err != nil {
		n.logger.Warn("Narration failed, using fallback", "error", err)
		return fallback
	}

	text := strings.TrimSpace(resp.Message)
	if text == "" || text == msgNoResponse {
		n.logger.Warn("Narration was empty, using fallback", "model", resp.Model)
		return fallback
	}
	return text
}

// StaticNarrator always answers with the fallback. Used when no text
// provider is configured.
type StaticNarrator struct{}

var _ Narrator = StaticNarrator{}

func (StaticNarrator) Narrate(_ context.Context, _ string, fallback string) string {
	if fallback == "" {
		return prompts.DefaultNarration
	}
	return fallback
}

// FilteredNarrator replaces profanity in the wrapped narrator's output.
type FilteredNarrator struct {
	next   Narrator
	filter *textfilter.ProfanityFilter
}

var _ Narrator = (*FilteredNarrator)(nil)

func NewFilteredNarrator(next Narrator) *FilteredNarrator {
	return &FilteredNarrator{next: next, filter: textfilter.NewProfanityFilter()}
}

func (f *FilteredNarrator) Narrate(ctx context.Context, prompt string, fallback string) string {
	return f.filter.FilterText(f.next.Narrate(ctx, prompt, fallback))
}
