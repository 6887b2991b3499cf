// Package edamam provides a client for the Edamam food database,
// used as a fallback when Open Food Facts has no match
package edamam

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/platewise/v1/internal/domain/food"
	"github.com/platewise/v1/internal/infrastructure/config"
	"github.com/platewise/v1/internal/ports/outbound"
)

// Client implements the nutrition API interface against Edamam
type Client struct {
	baseURL    string
	appID      string
	appKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Edamam client
func NewClient(cfg *config.Config, logger *zap.Logger) outbound.NutritionAPI {
	return &Client{
		baseURL: strings.TrimRight(cfg.Nutrition.EdamamBaseURL, "/"),
		appID:   cfg.Nutrition.EdamamAppID,
		appKey:  cfg.Nutrition.EdamamAppKey,
		httpClient: &http.Client{
			Timeout: cfg.Nutrition.Timeout,
		},
		logger: logger.Named("edamam"),
	}
}

// Available reports whether API credentials are configured
func (c *Client) Available() bool {
	return c.appID != "" && c.appKey != ""
}

// parserResponse is the food database parser response envelope
type parserResponse struct {
	Hints []struct {
		Food foodPayload `json:"food"`
	} `json:"hints"`
}

// foodPayload is the raw food data returned by the API, nutrients per 100g
type foodPayload struct {
	FoodID    string `json:"foodId"`
	Label     string `json:"label"`
	Brand     string `json:"brand"`
	Image     string `json:"image"`
	Nutrients struct {
		Calories float64 `json:"ENERC_KCAL"`
		Protein  float64 `json:"PROCNT"`
		Fat      float64 `json:"FAT"`
		Carbs    float64 `json:"CHOCDF"`
		Fiber    float64 `json:"FIBTG"`
	} `json:"nutrients"`
}

// ProductByBarcode looks up a product by its barcode. Returns nil when the
// product is unknown to the database.
func (c *Client) ProductByBarcode(ctx context.Context, barcode string) (*outbound.Product, error) {
	if !c.Available() {
		return nil, nil
	}

	params := url.Values{}
	params.Set("app_id", c.appID)
	params.Set("app_key", c.appKey)
	params.Set("upc", barcode)

	products, err := c.parse(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		c.logger.Debug("Product not found", zap.String("barcode", barcode))
		return nil, nil
	}

	product := products[0]
	product.UPCCode = barcode
	return product, nil
}

// SearchByName searches products by free text
func (c *Client) SearchByName(ctx context.Context, query string, limit int) ([]*outbound.Product, error) {
	if !c.Available() {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	params := url.Values{}
	params.Set("app_id", c.appID)
	params.Set("app_key", c.appKey)
	params.Set("ingr", query)

	products, err := c.parse(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(products) > limit {
		products = products[:limit]
	}

	return products, nil
}

// parse calls the food database parser endpoint and maps the hits
func (c *Client) parse(ctx context.Context, params url.Values) ([]*outbound.Product, error) {
	endpoint := fmt.Sprintf("%s/api/food-database/v2/parser?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("edamam request failed: %w", err)
	}
	defer resp.Body.Close()

	// Edamam answers 404 for unknown UPC codes
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("edamam returned status %d", resp.StatusCode)
	}

	var payload parserResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode parser response: %w", err)
	}

	products := make([]*outbound.Product, 0, len(payload.Hints))
	for _, hint := range payload.Hints {
		if hint.Food.Label == "" {
			continue
		}
		products = append(products, toProduct(&hint.Food))
	}

	return products, nil
}

// toProduct maps a raw food payload to the outbound product type
func toProduct(f *foodPayload) *outbound.Product {
	product := &outbound.Product{
		Name:  f.Label,
		Brand: f.Brand,
		Nutrition: food.NutritionFacts{
			Calories: f.Nutrients.Calories,
			Protein:  f.Nutrients.Protein,
			Carbs:    f.Nutrients.Carbs,
			Fat:      f.Nutrients.Fat,
			Fiber:    f.Nutrients.Fiber,
		},
		Source: food.SourceEdamam,
	}

	if f.Image != "" {
		product.Quality = &food.QualityInfo{ImageURL: f.Image}
	}

	return product
}
