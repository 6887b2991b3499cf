// Package openai provides OpenAI GPT integration as an alternative
// AI provider
package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/platewise/v1/internal/infrastructure/config"
	"github.com/platewise/v1/internal/ports/outbound"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Client implements the AIService interface using the OpenAI API
type Client struct {
	apiKey      string
	model       string
	baseURL     string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewClient creates a new OpenAI client
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{
		apiKey:      cfg.AI.OpenAIKey,
		model:       cfg.AI.OpenAIModel,
		baseURL:     defaultBaseURL,
		maxTokens:   cfg.AI.MaxTokens,
		temperature: cfg.AI.Temperature,
		httpClient: &http.Client{
			Timeout: cfg.AI.Timeout,
		},
		logger: logger.Named("openai"),
	}
}

// Available reports whether the provider is configured with credentials
func (c *Client) Available() bool {
	return c.apiKey != ""
}

// Name returns the provider identifier
func (c *Client) Name() string {
	return "openai"
}

// OpenAI chat completions API structures
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// Complete sends a text prompt and returns the generated completion
func (c *Client) Complete(ctx context.Context, req outbound.CompletionRequest) (*outbound.Completion, error) {
	if !c.Available() {
		return nil, fmt.Errorf("openai API key not configured")
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}
	temperature := req.Temperature
	if temperature <= 0 {
		temperature = c.temperature
	}

	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	resp, err := c.send(ctx, &body)
	if err != nil {
		return nil, err
	}

	return &outbound.Completion{
		Text:     strings.TrimSpace(resp.Choices[0].Message.Content),
		Provider: c.Name(),
		Model:    c.model,
		Tokens:   resp.Usage.TotalTokens,
	}, nil
}

// ExtractBarcode asks the vision model to read the barcode digits from an
// image. Returns an empty string when no barcode is visible.
func (c *Client) ExtractBarcode(ctx context.Context, imageData []byte, mimeType string) (string, error) {
	if !c.Available() {
		return "", fmt.Errorf("openai API key not configured")
	}

	dataURI := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(imageData))

	body := chatRequest{
		Model:     c.model,
		MaxTokens: 50,
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []contentPart{
					{
						Type: "text",
						Text: "Read the barcode in this image and respond with ONLY the barcode digits. " +
							"If no barcode is visible or readable, respond with exactly: NONE",
					},
					{Type: "image_url", ImageURL: &imageURL{URL: dataURI}},
				},
			},
		},
	}

	resp, err := c.send(ctx, &body)
	if err != nil {
		return "", err
	}

	return parseBarcode(resp.Choices[0].Message.Content), nil
}

// send performs an API call against the chat completions endpoint
func (c *Client) send(ctx context.Context, body *chatRequest) (*chatResponse, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(respBody))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("no response choices returned")
	}

	c.logger.Debug("OpenAI API call successful",
		zap.Int("total_tokens", chatResp.Usage.TotalTokens),
	)

	return &chatResp, nil
}

// parseBarcode extracts the digit run from a model answer, returning an
// empty string for NONE or garbage
func parseBarcode(answer string) string {
	answer = strings.TrimSpace(answer)
	if answer == "" || strings.EqualFold(answer, "NONE") {
		return ""
	}

	var digits strings.Builder
	for _, r := range answer {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	code := digits.String()
	if len(code) < 6 || len(code) > 14 {
		return ""
	}
	return code
}
