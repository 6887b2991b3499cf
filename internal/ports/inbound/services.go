// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the use cases the HTTP layer drives
package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/platewise/v1/internal/domain/food"
	"github.com/platewise/v1/internal/domain/recommendation"
)

// LogFoodCommand contains the data to record a food intake
type LogFoodCommand struct {
	UserID   uuid.UUID
	FoodID   uuid.UUID
	Quantity float64
	MealType food.MealType
	Notes    string
}

// CreateFoodCommand contains the data to create a custom food
type CreateFoodCommand struct {
	Name        string
	Brand       string
	Ingredients string
	Nutrition   food.NutritionFacts
}

// LogEntry pairs a food log with its resolved food and derived nutrition
type LogEntry struct {
	Log      *food.Log
	Food     *food.Food
	Calories float64
}

// LogPage is one page of food log history
type LogPage struct {
	Entries    []LogEntry
	Total      int64
	Page       int
	PerPage    int
	TotalPages int
}

// FoodService defines food catalog and logging use cases
type FoodService interface {
	// Search looks up foods by name, falling back to external databases
	// when the local catalog has no match.
	Search(ctx context.Context, query string, limit int) ([]*food.Food, error)
	// LookupUPC resolves a barcode, consulting Open Food Facts when the
	// code is not in the local catalog.
	LookupUPC(ctx context.Context, upcCode string) (*food.Food, error)
	CreateCustom(ctx context.Context, cmd CreateFoodCommand) (*food.Food, error)
	GetFood(ctx context.Context, id uuid.UUID) (*food.Food, error)

	LogFood(ctx context.Context, cmd LogFoodCommand) (*LogEntry, error)
	History(ctx context.Context, userID uuid.UUID, page, perPage int) (*LogPage, error)
	UpdateLog(ctx context.Context, userID, logID uuid.UUID, quantity float64, mealType food.MealType, notes string) (*LogEntry, error)
	DeleteLog(ctx context.Context, userID, logID uuid.UUID) error
}

// ScanResult is the outcome of a barcode photo scan
type ScanResult struct {
	Barcode string
	Food    *food.Food
}

// BarcodeService defines the barcode photo scanning use case
type BarcodeService interface {
	// Scan extracts the barcode from an image and resolves the product.
	Scan(ctx context.Context, imageData []byte, mimeType string) (*ScanResult, error)
}

// RecommendCommand asks for an AI-generated suggestion
type RecommendCommand struct {
	UserID uuid.UUID
	Type   recommendation.Type
	// FoodName names the food to replace for alternative recommendations
	FoodName string
}

// RecommendationService defines AI recommendation use cases
type RecommendationService interface {
	Recommend(ctx context.Context, cmd RecommendCommand) (*recommendation.Recommendation, error)
	Insights(ctx context.Context, userID uuid.UUID, days int) (*recommendation.Recommendation, error)
	Rate(ctx context.Context, userID, recID uuid.UUID, rating int) error
	List(ctx context.Context, userID uuid.UUID, limit int) ([]*recommendation.Recommendation, error)
}

// DaySummary aggregates logged nutrition for a single calendar day
type DaySummary struct {
	Date     time.Time       `json:"date"`
	Calories float64         `json:"calories"`
	Protein  float64         `json:"protein"`
	Carbs    float64         `json:"carbs"`
	Fat      float64         `json:"fat"`
	Fiber    float64         `json:"fiber"`
	Sugar    float64         `json:"sugar"`
	Sodium   float64         `json:"sodium"`
	Meals    int             `json:"meals"`
	ByMeal   map[string]int  `json:"by_meal,omitempty"`
}
