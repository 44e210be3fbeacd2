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
	veniceBaseURL = "https://api.venice.ai/api/v1"
	msgNoResponse = "(no response)"

	DefaultVeniceTemperature = 0.9
	DefaultVeniceMaxTokens   = 1024
	DefaultVeniceImageWidth  = 1024
	DefaultVeniceImageHeight = 768
)

// VeniceService implements ChatClient and ImageClient for Venice AI
type VeniceService struct {
	apiKey         string
	modelName      string
	imageModelName string
	baseURL        string
	httpClient     *http.Client
}

var (
	_ ChatClient  = (*VeniceService)(nil)
	_ ImageClient = (*VeniceService)(nil)
)

type VeniceParameters struct {
	IncludeVeniceSystemPrompt bool   `json:"include_venice_system_prompt"`
	EnableWebSearch           string `json:"enable_web_search"`
}

// VeniceChatRequest represents the request structure for Venice AI chat completions
type VeniceChatRequest struct {
	Model            string             `json:"model"`
	Messages         []chat.ChatMessage `json:"messages"`
	Temperature      float64            `json:"temperature,omitempty"`
	MaxTokens        int                `json:"max_tokens,omitempty"`
	Stream           bool               `json:"stream"`
	VeniceParameters VeniceParameters   `json:"venice_parameters"`
}

// VeniceChatChoice represents a single choice in the Venice AI response
type VeniceChatChoice struct {
	Index   int `json:"index"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

// VeniceChatResponse represents the response structure for Venice AI chat completions
type VeniceChatResponse struct {
	ID      string             `json:"id"`
	Model   string             `json:"model"`
	Choices []VeniceChatChoice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// VeniceImageRequest is the body of an image generation call
type VeniceImageRequest struct {
	Model        string `json:"model"`
	Prompt       string `json:"prompt"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Format       string `json:"format"`
	SafeMode     bool   `json:"safe_mode"`
	ReturnBinary bool   `json:"return_binary"`
}

// VeniceImageResponse carries base64 encoded images
type VeniceImageResponse struct {
	ID     string   `json:"id"`
	Images []string `json:"images"`
	Error  *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewVeniceService creates a new Venice AI service
func NewVeniceService(apiKey string, modelName string, imageModelName string) *VeniceService {
	return &VeniceService{
		apiKey:         apiKey,
		modelName:      modelName,
		imageModelName: imageModelName,
		baseURL:        veniceBaseURL,
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
	}
}

// post sends a JSON body to the Venice API and returns the raw response body
func (v *VeniceService) post(ctx context.Context, path string, payload any) ([]byte, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+path, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+v.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// Chat generates a chat response using Venice AI
func (v *VeniceService) Chat(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
	veniceReq := VeniceChatRequest{
		Model:       v.modelName,
		Messages:    messages,
		Temperature: DefaultVeniceTemperature,
		MaxTokens:   DefaultVeniceMaxTokens,
		Stream:      false,
		VeniceParameters: VeniceParameters{
			IncludeVeniceSystemPrompt: false,
			EnableWebSearch:           "off",
		},
	}

	body, err := v.post(ctx, "/chat/completions", veniceReq)
	if err != nil {
		return nil, err
	}

	var veniceResp VeniceChatResponse
	if err := json.Unmarshal(body, &veniceResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if veniceResp.Error != nil {
		return nil, fmt.Errorf("API error: %s", veniceResp.Error.Message)
	}

	if len(veniceResp.Choices) == 0 {
		return &chat.ChatResponse{Message: msgNoResponse, Model: veniceResp.Model}, nil
	}

	return &chat.ChatResponse{
		Message: veniceResp.Choices[0].Message.Content,
		Model:   veniceResp.Model,
	}, nil
}

// GenerateImage renders an image with the Venice image endpoint
func (v *VeniceService) GenerateImage(ctx context.Context, prompt string) (*Image, error) {
	imgReq := VeniceImageRequest{
		Model:        v.imageModelName,
		Prompt:       prompt,
		Width:        DefaultVeniceImageWidth,
		Height:       DefaultVeniceImageHeight,
		Format:       "png",
		SafeMode:     true,
		ReturnBinary: false,
	}

	body, err := v.post(ctx, "/image/generate", imgReq)
	if err != nil {
		return nil, err
	}

	var imgResp VeniceImageResponse
	if err := json.Unmarshal(body, &imgResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if imgResp.Error != nil {
		return nil, fmt.Errorf("API error: %s", imgResp.Error.Message)
	}
	if len(imgResp.Images) == 0 {
		return nil, fmt.Errorf("no images returned")
	}

	data, err := base64.StdEncoding.DecodeString(imgResp.Images[0])
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return &Image{MimeType: "image/png", Data: data}, nil
}
