// Package openfoodfacts provides a client for the Open Food Facts database
package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/platewise/v1/internal/domain/food"
	"github.com/platewise/v1/internal/infrastructure/config"
	"github.com/platewise/v1/internal/ports/outbound"
)

// extraNutrients are the non-macro nutriment keys carried over from product
// data, mapped to their Open Food Facts field names
var extraNutrients = map[string]string{
	"saturated_fat":       "saturated-fat_100g",
	"trans_fat":           "trans-fat_100g",
	"cholesterol":         "cholesterol_100g",
	"monounsaturated_fat": "monounsaturated-fat_100g",
	"polyunsaturated_fat": "polyunsaturated-fat_100g",
	"omega_3":             "omega-3-fat_100g",
	"omega_6":             "omega-6-fat_100g",
	"calcium":             "calcium_100g",
	"iron":                "iron_100g",
	"potassium":           "potassium_100g",
	"magnesium":           "magnesium_100g",
	"zinc":                "zinc_100g",
	"phosphorus":          "phosphorus_100g",
	"vitamin_a":           "vitamin-a_100g",
	"vitamin_c":           "vitamin-c_100g",
	"vitamin_d":           "vitamin-d_100g",
	"vitamin_e":           "vitamin-e_100g",
	"vitamin_k":           "vitamin-k_100g",
	"vitamin_b6":          "vitamin-b6_100g",
	"vitamin_b12":         "vitamin-b12_100g",
	"caffeine":            "caffeine_100g",
	"alcohol":             "alcohol_100g",
}

// Client implements the nutrition API interface against Open Food Facts
type Client struct {
	baseURL     string
	httpClient  *http.Client
	searchLimit int
	logger      *zap.Logger
}

// NewClient creates a new Open Food Facts client
func NewClient(cfg *config.Config, logger *zap.Logger) outbound.NutritionAPI {
	return &Client{
		baseURL: strings.TrimRight(cfg.Nutrition.OpenFoodFactsBaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Nutrition.Timeout,
		},
		searchLimit: cfg.Nutrition.SearchLimit,
		logger:      logger.Named("openfoodfacts"),
	}
}

// productResponse is the barcode lookup response envelope
type productResponse struct {
	Status  int            `json:"status"`
	Product productPayload `json:"product"`
}

// searchResponse is the free-text search response envelope
type searchResponse struct {
	Products []productPayload `json:"products"`
}

// productPayload is the raw product data returned by the API
type productPayload struct {
	Code            string                 `json:"code"`
	ProductName     string                 `json:"product_name"`
	Brands          string                 `json:"brands"`
	IngredientsText string                 `json:"ingredients_text"`
	Nutriments      map[string]interface{} `json:"nutriments"`
	NutriScoreGrade string                 `json:"nutriscore_grade"`
	NovaGroup       interface{}            `json:"nova_group"`
	AllergensTags   []string               `json:"allergens_tags"`
	LabelsTags      []string               `json:"labels_tags"`
	ServingSize     string                 `json:"serving_size"`
	ImageURL        string                 `json:"image_url"`
}

// ProductByBarcode looks up a product by its barcode. Returns nil when the
// product is unknown to the database.
func (c *Client) ProductByBarcode(ctx context.Context, barcode string) (*outbound.Product, error) {
	endpoint := fmt.Sprintf("%s/api/v0/product/%s.json", c.baseURL, url.PathEscape(barcode))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open food facts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("open food facts returned status %d", resp.StatusCode)
	}

	var payload productResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode product response: %w", err)
	}

	if payload.Status != 1 {
		c.logger.Debug("Product not found", zap.String("barcode", barcode))
		return nil, nil
	}

	product := c.toProduct(&payload.Product)
	if product.UPCCode == "" {
		product.UPCCode = barcode
	}
	if product.Name == "" {
		product.Name = "Product " + barcode
	}

	return product, nil
}

// SearchByName searches products by free text
func (c *Client) SearchByName(ctx context.Context, query string, limit int) ([]*outbound.Product, error) {
	if limit <= 0 || limit > c.searchLimit {
		limit = c.searchLimit
	}

	params := url.Values{}
	params.Set("search_terms", query)
	params.Set("search_simple", "1")
	params.Set("action", "process")
	params.Set("json", "1")
	params.Set("page_size", strconv.Itoa(limit))

	endpoint := fmt.Sprintf("%s/cgi/search.pl?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open food facts search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("open food facts returned status %d", resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	products := make([]*outbound.Product, 0, len(payload.Products))
	for i := range payload.Products {
		// Skip products without names
		if payload.Products[i].ProductName == "" {
			continue
		}
		products = append(products, c.toProduct(&payload.Products[i]))
		if len(products) >= limit {
			break
		}
	}

	return products, nil
}

// toProduct maps a raw product payload to the outbound product type
func (c *Client) toProduct(p *productPayload) *outbound.Product {
	extra := make(map[string]float64)
	for name, key := range extraNutrients {
		if v := safeFloat(p.Nutriments[key]); v != 0 {
			extra[name] = v
		}
	}

	return &outbound.Product{
		UPCCode:     p.Code,
		Name:        p.ProductName,
		Brand:       p.Brands,
		Ingredients: p.IngredientsText,
		Nutrition: food.NutritionFacts{
			Calories: safeFloat(p.Nutriments["energy-kcal_100g"]),
			Protein:  safeFloat(p.Nutriments["proteins_100g"]),
			Carbs:    safeFloat(p.Nutriments["carbohydrates_100g"]),
			Fat:      safeFloat(p.Nutriments["fat_100g"]),
			Fiber:    safeFloat(p.Nutriments["fiber_100g"]),
			Sugar:    safeFloat(p.Nutriments["sugars_100g"]),
			Sodium:   safeFloat(p.Nutriments["sodium_100g"]),
			Extra:    extra,
		},
		Quality: &food.QualityInfo{
			NutriScoreGrade: strings.ToUpper(p.NutriScoreGrade),
			NovaGroup:       int(safeFloat(p.NovaGroup)),
			Allergens:       p.AllergensTags,
			Labels:          p.LabelsTags,
			IsVegan:         hasTag(p.LabelsTags, "en:vegan"),
			IsVegetarian:    hasTag(p.LabelsTags, "en:vegetarian"),
			IsGlutenFree:    hasTag(p.LabelsTags, "en:gluten-free"),
			ServingSize:     p.ServingSize,
			ImageURL:        p.ImageURL,
		},
		Source: food.SourceOpenFoodFacts,
	}
}

// safeFloat converts a loosely typed nutriment value to a float64,
// returning 0 for anything non-numeric
func safeFloat(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// hasTag reports whether the tag list contains the given tag
func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
