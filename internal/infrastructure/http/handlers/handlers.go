// Package handlers provides the JSON API endpoint handlers
package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/platewise/v1/internal/domain/food"
	"github.com/platewise/v1/internal/domain/plan"
	"github.com/platewise/v1/internal/domain/recommendation"
	"github.com/platewise/v1/internal/domain/user"
	"github.com/platewise/v1/internal/ports/inbound"
	apperrors "github.com/platewise/v1/pkg/errors"
)

// respondError writes an error in the standard envelope, mapping
// application errors to their HTTP status
func respondError(c *gin.Context, err error) {
	requestID := c.GetString("request_id")

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.NewInternalError("an unexpected error occurred")
	}

	c.Error(err) // nolint:errcheck // surfaced via the request logger
	c.AbortWithStatusJSON(appErr.StatusCode(), apperrors.ToErrorResponse(appErr, requestID))
}

// UserResponse represents user data in API responses
type UserResponse struct {
	ID          string              `json:"id"`
	Email       string              `json:"email"`
	Name        string              `json:"name"`
	PictureURL  string              `json:"picture_url,omitempty"`
	IsActive    bool                `json:"is_active"`
	DaysActive  int                 `json:"days_active"`
	Preferences PreferencesResponse `json:"preferences"`
	CreatedAt   time.Time           `json:"created_at"`
	LastLoginAt *time.Time          `json:"last_login_at,omitempty"`
}

// PreferencesResponse represents nutrition preferences in API responses
type PreferencesResponse struct {
	DailyCalorieGoal    int      `json:"daily_calorie_goal"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
	PreferredCuisine    string   `json:"preferred_cuisine,omitempty"`
}

func toUserResponse(u *user.User) UserResponse {
	prefs := u.Preferences()
	restrictions := make([]string, 0, len(prefs.DietaryRestrictions))
	for _, r := range prefs.DietaryRestrictions {
		restrictions = append(restrictions, string(r))
	}
	return UserResponse{
		ID:         u.ID().String(),
		Email:      u.Email(),
		Name:       u.Name(),
		PictureURL: u.PictureURL(),
		IsActive:   u.IsActive(),
		DaysActive: u.DaysActive(),
		Preferences: PreferencesResponse{
			DailyCalorieGoal:    prefs.DailyCalorieGoal,
			DietaryRestrictions: restrictions,
			PreferredCuisine:    prefs.PreferredCuisine,
		},
		CreatedAt:   u.CreatedAt(),
		LastLoginAt: u.LastLoginAt(),
	}
}

// NutritionResponse represents per-100g nutrition values
type NutritionResponse struct {
	Calories float64            `json:"calories_per_100g"`
	Protein  float64            `json:"protein_per_100g"`
	Carbs    float64            `json:"carbs_per_100g"`
	Fat      float64            `json:"fat_per_100g"`
	Fiber    float64            `json:"fiber_per_100g"`
	Sugar    float64            `json:"sugar_per_100g"`
	Sodium   float64            `json:"sodium_per_100g"`
	Extra    map[string]float64 `json:"extra,omitempty"`
}

// QualityResponse represents food quality indicators
type QualityResponse struct {
	NutriScoreGrade string   `json:"nutriscore_grade,omitempty"`
	NovaGroup       int      `json:"nova_group,omitempty"`
	Allergens       []string `json:"allergens,omitempty"`
	Labels          []string `json:"labels,omitempty"`
	IsVegan         bool     `json:"is_vegan"`
	IsVegetarian    bool     `json:"is_vegetarian"`
	IsGlutenFree    bool     `json:"is_gluten_free"`
	ServingSize     string   `json:"serving_size,omitempty"`
	ImageURL        string   `json:"image_url,omitempty"`
}

// FoodResponse represents a catalog food in API responses
type FoodResponse struct {
	ID          string            `json:"id"`
	UPCCode     string            `json:"upc_code,omitempty"`
	Name        string            `json:"name"`
	Brand       string            `json:"brand,omitempty"`
	Ingredients string            `json:"ingredients,omitempty"`
	Nutrition   NutritionResponse `json:"nutrition"`
	Quality     *QualityResponse  `json:"quality,omitempty"`
	Source      string            `json:"source"`
	CreatedAt   time.Time         `json:"created_at"`
}

func toFoodResponse(f *food.Food) FoodResponse {
	n := f.Nutrition()
	resp := FoodResponse{
		ID:          f.ID().String(),
		UPCCode:     f.UPCCode(),
		Name:        f.Name(),
		Brand:       f.Brand(),
		Ingredients: f.Ingredients(),
		Nutrition: NutritionResponse{
			Calories: n.Calories,
			Protein:  n.Protein,
			Carbs:    n.Carbs,
			Fat:      n.Fat,
			Fiber:    n.Fiber,
			Sugar:    n.Sugar,
			Sodium:   n.Sodium,
			Extra:    n.Extra,
		},
		Source:    string(f.Source()),
		CreatedAt: f.CreatedAt(),
	}
	if q := f.Quality(); q != nil {
		resp.Quality = &QualityResponse{
			NutriScoreGrade: q.NutriScoreGrade,
			NovaGroup:       q.NovaGroup,
			Allergens:       q.Allergens,
			Labels:          q.Labels,
			IsVegan:         q.IsVegan,
			IsVegetarian:    q.IsVegetarian,
			IsGlutenFree:    q.IsGlutenFree,
			ServingSize:     q.ServingSize,
			ImageURL:        q.ImageURL,
		}
	}
	return resp
}

// LogEntryResponse represents a food log with its resolved food
type LogEntryResponse struct {
	ID       string       `json:"id"`
	Food     FoodResponse `json:"food"`
	Quantity float64      `json:"quantity"`
	MealType string       `json:"meal_type"`
	Notes    string       `json:"notes,omitempty"`
	Calories float64      `json:"calories"`
	LoggedAt time.Time    `json:"logged_at"`
}

func toLogEntryResponse(e inbound.LogEntry) LogEntryResponse {
	return LogEntryResponse{
		ID:       e.Log.ID().String(),
		Food:     toFoodResponse(e.Food),
		Quantity: e.Log.Quantity(),
		MealType: string(e.Log.MealType()),
		Notes:    e.Log.Notes(),
		Calories: e.Calories,
		LoggedAt: e.Log.LoggedAt(),
	}
}

func toLogEntryResponses(entries []inbound.LogEntry) []LogEntryResponse {
	out := make([]LogEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toLogEntryResponse(e))
	}
	return out
}

// RecommendationResponse represents a stored AI suggestion
type RecommendationResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Text      string    `json:"text"`
	Provider  string    `json:"provider,omitempty"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

func toRecommendationResponse(r *recommendation.Recommendation) RecommendationResponse {
	return RecommendationResponse{
		ID:        r.ID().String(),
		Type:      string(r.Type()),
		Text:      r.Text(),
		Provider:  r.Context().Provider,
		Rating:    r.Rating(),
		CreatedAt: r.CreatedAt(),
	}
}

func toRecommendationResponses(recs []*recommendation.Recommendation) []RecommendationResponse {
	out := make([]RecommendationResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, toRecommendationResponse(r))
	}
	return out
}

// PlanResponse represents a daily meal plan
type PlanResponse struct {
	ID        string                        `json:"id"`
	Date      string                        `json:"date"`
	Meals     map[string][]plan.PlannedMeal `json:"meals"`
	Goals     plan.Goals                    `json:"goals"`
	UpdatedAt time.Time                     `json:"updated_at"`
}

func toPlanResponse(p *plan.DailyPlan) *PlanResponse {
	if p == nil {
		return nil
	}
	return &PlanResponse{
		ID:        p.ID().String(),
		Date:      p.Date().Format("2006-01-02"),
		Meals:     p.Meals(),
		Goals:     p.Goals(),
		UpdatedAt: p.UpdatedAt(),
	}
}

// parseDate reads a YYYY-MM-DD query value, defaulting to today
func parseDate(c *gin.Context, key string) (time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return time.Now(), nil
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, apperrors.NewBadRequestError("date must be in YYYY-MM-DD format")
	}
	return date, nil
}
