// Package food defines the food catalog and food log domain entities
package food

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Source identifies where a food record originated
type Source string

const (
	SourceCustom        Source = "custom"
	SourceOpenFoodFacts Source = "openfoodfacts"
	SourceEdamam        Source = "edamam"
)

// MealType classifies a food log entry
type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
	MealTypeSnack     MealType = "snack"
)

// MealTypes lists all valid meal types in daily order.
var MealTypes = []MealType{MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack}

// IsValid reports whether the meal type is one of the allowed values
func (m MealType) IsValid() bool {
	switch m {
	case MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack:
		return true
	}
	return false
}

// NutritionFacts holds per-100g nutrition values. The named fields cover the
// macronutrients every food carries; Extra holds the long tail of vitamins,
// minerals and quality facts that external databases report.
type NutritionFacts struct {
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
	Fiber    float64
	Sugar    float64
	Sodium   float64
	Extra    map[string]float64
}

// Scale returns the facts adjusted for the given quantity in grams.
// Non-finite inputs are treated as zero so one bad upstream value
// cannot poison a daily total.
func (n NutritionFacts) Scale(grams float64) NutritionFacts {
	factor := grams / 100
	scaled := NutritionFacts{
		Calories: safeScale(n.Calories, factor),
		Protein:  safeScale(n.Protein, factor),
		Carbs:    safeScale(n.Carbs, factor),
		Fat:      safeScale(n.Fat, factor),
		Fiber:    safeScale(n.Fiber, factor),
		Sugar:    safeScale(n.Sugar, factor),
		Sodium:   safeScale(n.Sodium, factor),
	}
	if len(n.Extra) > 0 {
		scaled.Extra = make(map[string]float64, len(n.Extra))
		for name, value := range n.Extra {
			scaled.Extra[name] = safeScale(value, factor)
		}
	}
	return scaled
}

func safeScale(value, factor float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0
	}
	return value * factor
}

// QualityInfo holds product quality metadata from external food databases
type QualityInfo struct {
	NutriScoreGrade string
	NovaGroup       int
	Allergens       []string
	Labels          []string
	IsVegan         bool
	IsVegetarian    bool
	IsGlutenFree    bool
	ServingSize     string
	ImageURL        string
}

// Food represents an item in the food catalog
type Food struct {
	id          uuid.UUID
	upcCode     string
	name        string
	brand       string
	ingredients string
	nutrition   NutritionFacts
	quality     *QualityInfo
	source      Source
	createdAt   time.Time
}

// NewFood creates a catalog entry with validation. upcCode may be empty for
// custom foods.
func NewFood(name, brand, ingredients, upcCode string, nutrition NutritionFacts, source Source) (*Food, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if len(name) > 200 {
		return nil, ErrNameTooLong
	}
	if upcCode != "" {
		if err := ValidateUPC(upcCode); err != nil {
			return nil, err
		}
	}
	if source == "" {
		source = SourceCustom
	}

	return &Food{
		id:          uuid.New(),
		upcCode:     upcCode,
		name:        name,
		brand:       strings.TrimSpace(brand),
		ingredients: ingredients,
		nutrition:   nutrition,
		source:      source,
		createdAt:   time.Now(),
	}, nil
}

// ReconstructFood rebuilds a food from persisted state
func ReconstructFood(
	id uuid.UUID,
	upcCode, name, brand, ingredients string,
	nutrition NutritionFacts,
	quality *QualityInfo,
	source Source,
	createdAt time.Time,
) *Food {
	return &Food{
		id:          id,
		upcCode:     upcCode,
		name:        name,
		brand:       brand,
		ingredients: ingredients,
		nutrition:   nutrition,
		quality:     quality,
		source:      source,
		createdAt:   createdAt,
	}
}

// ID returns the food's ID
func (f *Food) ID() uuid.UUID { return f.id }

// UPCCode returns the food's barcode, empty for custom foods
func (f *Food) UPCCode() string { return f.upcCode }

// Name returns the food's name
func (f *Food) Name() string { return f.name }

// Brand returns the food's brand
func (f *Food) Brand() string { return f.brand }

// Ingredients returns the ingredient list text
func (f *Food) Ingredients() string { return f.ingredients }

// Nutrition returns the per-100g nutrition facts
func (f *Food) Nutrition() NutritionFacts { return f.nutrition }

// Quality returns product quality metadata, nil for custom foods
func (f *Food) Quality() *QualityInfo { return f.quality }

// Source returns where the record originated
func (f *Food) Source() Source { return f.source }

// CreatedAt returns when the record was created
func (f *Food) CreatedAt() time.Time { return f.createdAt }

// SetQuality attaches product quality metadata
func (f *Food) SetQuality(q *QualityInfo) { f.quality = q }

// CaloriesFor returns the calories contained in the given quantity of this food.
func (f *Food) CaloriesFor(grams float64) float64 {
	return f.nutrition.Scale(grams).Calories
}

// ValidateUPC checks the barcode format: 6 to 14 digits covers UPC-A,
// EAN-8 and EAN-13.
func ValidateUPC(code string) error {
	if len(code) < 6 || len(code) > 14 {
		return ErrInvalidUPC
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return ErrInvalidUPC
		}
	}
	return nil
}

// Log represents a food intake record for a user
type Log struct {
	id       uuid.UUID
	userID   uuid.UUID
	foodID   uuid.UUID
	quantity float64
	mealType MealType
	notes    string
	loggedAt time.Time
}

// NewLog creates a food log entry with validation. quantity is in grams.
func NewLog(userID, foodID uuid.UUID, quantity float64, mealType MealType, notes string) (*Log, error) {
	if quantity <= 0 || math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return nil, ErrInvalidQuantity
	}
	if !mealType.IsValid() {
		return nil, ErrInvalidMealType
	}

	return &Log{
		id:       uuid.New(),
		userID:   userID,
		foodID:   foodID,
		quantity: quantity,
		mealType: mealType,
		notes:    notes,
		loggedAt: time.Now(),
	}, nil
}

// ReconstructLog rebuilds a log entry from persisted state
func ReconstructLog(
	id, userID, foodID uuid.UUID,
	quantity float64,
	mealType MealType,
	notes string,
	loggedAt time.Time,
) *Log {
	return &Log{
		id:       id,
		userID:   userID,
		foodID:   foodID,
		quantity: quantity,
		mealType: mealType,
		notes:    notes,
		loggedAt: loggedAt,
	}
}

// ID returns the log entry's ID
func (l *Log) ID() uuid.UUID { return l.id }

// UserID returns the owning user's ID
func (l *Log) UserID() uuid.UUID { return l.userID }

// FoodID returns the logged food's ID
func (l *Log) FoodID() uuid.UUID { return l.foodID }

// Quantity returns the logged quantity in grams
func (l *Log) Quantity() float64 { return l.quantity }

// MealType returns the meal classification
func (l *Log) MealType() MealType { return l.mealType }

// Notes returns free-form notes
func (l *Log) Notes() string { return l.notes }

// LoggedAt returns when the intake was recorded
func (l *Log) LoggedAt() time.Time { return l.loggedAt }

// SetLoggedAt backdates the entry, used when importing or generating history
func (l *Log) SetLoggedAt(t time.Time) { l.loggedAt = t }

// Update modifies the mutable fields of a log entry
func (l *Log) Update(quantity float64, mealType MealType, notes string) error {
	if quantity <= 0 || math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return ErrInvalidQuantity
	}
	if !mealType.IsValid() {
		return ErrInvalidMealType
	}
	l.quantity = quantity
	l.mealType = mealType
	l.notes = notes
	return nil
}

// OwnedBy reports whether the log belongs to the given user
func (l *Log) OwnedBy(userID uuid.UUID) bool {
	return l.userID == userID
}
