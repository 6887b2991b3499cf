// Package anthropic provides Anthropic Claude integration for meal
// recommendations and barcode photo reading
package anthropic

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

const (
	defaultBaseURL = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"
)

// Client implements the AIService interface using the Anthropic API
type Client struct {
	apiKey      string
	model       string
	baseURL     string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewClient creates a new Anthropic client
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{
		apiKey:      cfg.AI.AnthropicKey,
		model:       cfg.AI.AnthropicModel,
		baseURL:     defaultBaseURL,
		maxTokens:   cfg.AI.MaxTokens,
		temperature: cfg.AI.Temperature,
		httpClient: &http.Client{
			Timeout: cfg.AI.Timeout,
		},
		logger: logger.Named("anthropic"),
	}
}

// Available reports whether the provider is configured with credentials
func (c *Client) Available() bool {
	return c.apiKey != ""
}

// Name returns the provider identifier
func (c *Client) Name() string {
	return "anthropic"
}

// Anthropic messages API structures
type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature,omitempty"`
	System      string    `json:"system,omitempty"`
	Messages    []message `json:"messages"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Complete sends a text prompt and returns the generated completion
func (c *Client) Complete(ctx context.Context, req outbound.CompletionRequest) (*outbound.Completion, error) {
	if !c.Available() {
		return nil, fmt.Errorf("anthropic API key not configured")
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}
	temperature := req.Temperature
	if temperature <= 0 {
		temperature = c.temperature
	}

	body := messagesRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		System:      req.System,
		Messages: []message{
			{
				Role:    "user",
				Content: []contentBlock{{Type: "text", Text: req.Prompt}},
			},
		},
	}

	resp, err := c.send(ctx, &body)
	if err != nil {
		return nil, err
	}

	return &outbound.Completion{
		Text:     resp.text(),
		Provider: c.Name(),
		Model:    c.model,
		Tokens:   resp.Usage.InputTokens + resp.Usage.OutputTokens,
	}, nil
}

// ExtractBarcode asks the vision model to read the barcode digits from an
// image. Returns an empty string when no barcode is visible.
func (c *Client) ExtractBarcode(ctx context.Context, imageData []byte, mimeType string) (string, error) {
	if !c.Available() {
		return "", fmt.Errorf("anthropic API key not configured")
	}

	body := messagesRequest{
		Model:     c.model,
		MaxTokens: 50,
		Messages: []message{
			{
				Role: "user",
				Content: []contentBlock{
					{
						Type: "image",
						Source: &imageSource{
							Type:      "base64",
							MediaType: mimeType,
							Data:      base64.StdEncoding.EncodeToString(imageData),
						},
					},
					{
						Type: "text",
						Text: "Read the barcode in this image and respond with ONLY the barcode digits. " +
							"If no barcode is visible or readable, respond with exactly: NONE",
					},
				},
			},
		},
	}

	resp, err := c.send(ctx, &body)
	if err != nil {
		return "", err
	}

	return parseBarcode(resp.text()), nil
}

// send performs an API call against the messages endpoint
func (c *Client) send(ctx context.Context, body *messagesRequest) (*messagesResponse, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

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

	var msgResp messagesResponse
	if err := json.Unmarshal(respBody, &msgResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	c.logger.Debug("Anthropic API call successful",
		zap.Int("input_tokens", msgResp.Usage.InputTokens),
		zap.Int("output_tokens", msgResp.Usage.OutputTokens),
	)

	return &msgResp, nil
}

// text concatenates the text blocks of a response
func (r *messagesResponse) text() string {
	var sb strings.Builder
	for _, block := range r.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return strings.TrimSpace(sb.String())
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
