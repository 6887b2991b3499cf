// Package outbound defines interfaces for external service integrations
package outbound

import (
	"context"

	"github.com/platewise/v1/internal/domain/food"
)

// Completion is a single text completion from an AI provider
type Completion struct {
	Text     string
	Provider string
	Model    string
	Tokens   int
}

// CompletionRequest describes one prompt sent to an AI provider
type CompletionRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// AIService defines the interface for AI provider integrations
type AIService interface {
	// Complete sends a text prompt and returns the generated completion.
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
	// ExtractBarcode asks a vision-capable model to read the barcode digits
	// from an image. Returns an empty string when no barcode is visible.
	ExtractBarcode(ctx context.Context, imageData []byte, mimeType string) (string, error)
	// Available reports whether the provider is configured with credentials.
	Available() bool
	// Name returns the provider identifier used in stored context.
	Name() string
}

// Product is a food item returned by an external nutrition database
type Product struct {
	UPCCode     string
	Name        string
	Brand       string
	Ingredients string
	Nutrition   food.NutritionFacts
	Quality     *food.QualityInfo
	Source      food.Source
}

// NutritionAPI defines the interface for external food databases
type NutritionAPI interface {
	// ProductByBarcode looks up a product by its barcode. Returns nil when
	// the product is unknown to the database.
	ProductByBarcode(ctx context.Context, barcode string) (*Product, error)
	// SearchByName searches products by free text.
	SearchByName(ctx context.Context, query string, limit int) ([]*Product, error)
}
