package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jwebster45206/werewolf-gm/pkg/chat"
)

const (
	openAIBaseURL = "https://api.openai.com/v1"

	DefaultOpenAIImageSize = "1024x768"
)

// OpenAIService implements ChatClient and ImageClient for OpenAI
type OpenAIService struct {
	apiKey         string
	modelName      string
	imageModelName string
	baseURL        string
	httpClient     *http.Client
}

var (
	_ ChatClient  = (*OpenAIService)(nil)
	_ ImageClient = (*OpenAIService)(nil)
)

// OpenAIChatRequest is the chat completions request body
type OpenAIChatRequest struct {
	Model               string             `json:"model"`
	Messages            []chat.ChatMessage `json:"messages"`
	Temperature         float64            `json:"temperature,omitempty"`
	MaxCompletionTokens int                `json:"max_completion_tokens,omitempty"`
}

// OpenAIChatResponse is the chat completions response body
type OpenAIChatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
			Refusal string `json:"refusal,omitempty"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// OpenAIImageRequest is the images API request body
type OpenAIImageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size,omitempty"`
	ResponseFormat string `json:"response_format,omitempty"`
}

// OpenAIImageResponse is the images API response body
type OpenAIImageResponse struct {
	Created int64 `json:"created"`
	Data    []struct {
		B64JSON       string `json:"b64_json"`
		RevisedPrompt string `json:"revised_prompt,omitempty"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewOpenAIService creates a new OpenAI service
func NewOpenAIService(apiKey string, modelName string, imageModelName string) *OpenAIService {
	return &OpenAIService{
		apiKey:         apiKey,
		modelName:      modelName,
		imageModelName: imageModelName,
		baseURL:        openAIBaseURL,
		httpClient: &http.Client{
			Timeout: 90 * time.Second, // image generation can be slow
		},
	}
}

func (o *OpenAIService) post(ctx context.Context, path string, payload any) ([]byte, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+path, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// Chat generates a reply using chat completions
func (o *OpenAIService) Chat(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("no messages provided")
	}

	body, err := o.post(ctx, "/chat/completions", OpenAIChatRequest{
		Model:               o.modelName,
		Messages:            messages,
		Temperature:         0.9,
		MaxCompletionTokens: 1024,
	})
	if err != nil {
		return nil, err
	}

	var chatResp OpenAIChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if chatResp.Error != nil {
		return nil, fmt.Errorf("API error: %s", chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned from API")
	}

	choice := chatResp.Choices[0]
	if choice.Message.Refusal != "" {
		return nil, fmt.Errorf("model refused to respond: %s", choice.Message.Refusal)
	}

	return &chat.ChatResponse{
		Message: choice.Message.Content,
		Model:   chatResp.Model,
	}, nil
}

// GenerateImage renders an image with the images API
func (o *OpenAIService) GenerateImage(ctx context.Context, prompt string) (*Image, error) {
	body, err := o.post(ctx, "/images/generations", OpenAIImageRequest{
		Model:          o.imageModelName,
		Prompt:         prompt,
		N:              1,
		Size:           DefaultOpenAIImageSize,
		ResponseFormat: "b64_json",
	})
	if err != nil {
		return nil, err
	}

	var imgResp OpenAIImageResponse
	if err := json.Unmarshal(body, &imgResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if imgResp.Error != nil {
		return nil, fmt.Errorf("API error: %s", imgResp.Error.Message)
	}
	if len(imgResp.Data) == 0 || imgResp.Data[0].B64JSON == "" {
		return nil, fmt.Errorf("no image data returned")
	}

	data, err := base64.StdEncoding.DecodeString(imgResp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return &Image{MimeType: "image/png", Data: data}, nil
}
