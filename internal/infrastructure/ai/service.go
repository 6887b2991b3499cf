// Package ai wires the configured AI provider and provides a mock
// fallback when no credentials are present
package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/platewise/v1/internal/infrastructure/ai/anthropic"
	"github.com/platewise/v1/internal/infrastructure/ai/openai"
	"github.com/platewise/v1/internal/infrastructure/config"
	"github.com/platewise/v1/internal/ports/outbound"
)

// NewAIService selects the configured provider, falling back to a mock
// provider when no API key is available
func NewAIService(cfg *config.Config, logger *zap.Logger) outbound.AIService {
	switch cfg.AI.Provider {
	case "openai":
		client := openai.NewClient(cfg, logger)
		if client.Available() {
			logger.Info("AI provider initialized", zap.String("provider", "openai"))
			return client
		}
	default:
		client := anthropic.NewClient(cfg, logger)
		if client.Available() {
			logger.Info("AI provider initialized", zap.String("provider", "anthropic"))
			return client
		}
	}

	logger.Info("No AI API key configured, using mock provider")
	return NewMockService()
}

// MockService is a stand-in AI provider used when no API key is
// configured, so the rest of the application keeps working
type MockService struct{}

// NewMockService creates a new mock AI provider
func NewMockService() *MockService {
	return &MockService{}
}

// Complete returns a canned completion
func (s *MockService) Complete(ctx context.Context, req outbound.CompletionRequest) (*outbound.Completion, error) {
	return &outbound.Completion{
		Text: "Try a balanced plate with a lean protein, a whole grain, and plenty of " +
			"vegetables. Grilled chicken with brown rice and steamed broccoli is around " +
			"450 calories and keeps you on track toward your daily goal.",
		Provider: s.Name(),
		Model:    "mock",
	}, nil
}

// ExtractBarcode always fails for the mock provider since barcode reading
// requires a vision model
func (s *MockService) ExtractBarcode(ctx context.Context, imageData []byte, mimeType string) (string, error) {
	return "", fmt.Errorf("barcode reading requires a configured AI provider")
}

// Available reports whether the provider is configured with credentials
func (s *MockService) Available() bool {
	return false
}

// Name returns the provider identifier
func (s *MockService) Name() string {
	return "mock"
}
