package services

import (
	"context"

	"github.com/jwebster45206/werewolf-gm/pkg/chat"
)

// ChatClient is a text model provider.
type ChatClient interface {
	// Chat sends the messages and returns the model's reply
	Chat(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error)
}

// Image is raw generated image data.
type Image struct {
	MimeType string
	Data     []byte
}

// ImageClient is an image model provider.
type ImageClient interface {
	// GenerateImage renders a single image for the prompt
	GenerateImage(ctx context.Context, prompt string) (*Image, error)
}
