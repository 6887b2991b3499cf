// Package ai implements AI recommendation and insight use cases
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/platewise/v1/internal/domain/food"
	"github.com/platewise/v1/internal/domain/recommendation"
	"github.com/platewise/v1/internal/domain/user"
	"github.com/platewise/v1/internal/infrastructure/monitoring"
	"github.com/platewise/v1/internal/ports/inbound"
	"github.com/platewise/v1/internal/ports/outbound"
	apperrors "github.com/platewise/v1/pkg/errors"
)

const (
	recentLogContext = 10
	contextFoodNames = 5
	defaultListLimit = 20
	insightDays      = 7

	recommendTokens = 300
	insightTokens   = 400
	alternateTokens = 250
)

// Service implements inbound.RecommendationService
type Service struct {
	users           outbound.UserRepository
	foods           outbound.FoodRepository
	logs            outbound.FoodLogRepository
	recommendations outbound.RecommendationRepository
	provider        outbound.AIService
	metrics         *monitoring.MetricsCollector
	logger          *zap.Logger
}

// NewService creates a new recommendation service
func NewService(
	users outbound.UserRepository,
	foods outbound.FoodRepository,
	logs outbound.FoodLogRepository,
	recommendations outbound.RecommendationRepository,
	provider outbound.AIService,
	metrics *monitoring.MetricsCollector,
	logger *zap.Logger,
) inbound.RecommendationService {
	return &Service{
		users:           users,
		foods:           foods,
		logs:            logs,
		recommendations: recommendations,
		provider:        provider,
		metrics:         metrics,
		logger:          logger.Named("recommendation-service"),
	}
}

// loggedItem is one recent food log rendered into the prompt context
type loggedItem struct {
	Name     string  `json:"name"`
	Brand    string  `json:"brand,omitempty"`
	Quantity float64 `json:"quantity"`
	Calories float64 `json:"calories"`
	MealType string  `json:"meal_type"`
	Date     string  `json:"date"`
}

// Recommend generates and stores a personalized suggestion. When the AI
// provider fails the recommendation falls back to generic guidance so
// the user always gets an answer.
func (s *Service) Recommend(ctx context.Context, cmd inbound.RecommendCommand) (*recommendation.Recommendation, error) {
	if !cmd.Type.IsValid() {
		return nil, apperrors.NewValidationError(recommendation.ErrInvalidType.Error())
	}
	if cmd.Type == recommendation.TypeInsight {
		return s.Insights(ctx, cmd.UserID, insightDays)
	}

	u, err := s.user(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	items, foodNames, err := s.recentItems(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	prefs := u.Preferences()
	var prompt string
	maxTokens := recommendTokens
	if cmd.Type == recommendation.TypeAlternative && cmd.FoodName != "" {
		prompt = alternativesPrompt(cmd.FoodName, restrictionNames(prefs))
		maxTokens = alternateTokens
	} else {
		prompt = recommendationPrompt(cmd.Type, prefs, items)
	}

	text, provider, model := s.complete(ctx, outbound.CompletionRequest{
		Prompt:      prompt,
		MaxTokens:   maxTokens,
		Temperature: 0.7,
	}, fallbackRecommendation(prefs.DailyCalorieGoal))

	recCtx := recommendation.Context{
		RecentFoods:         foodNames,
		DietaryRestrictions: restrictionNames(prefs),
		CalorieGoal:         prefs.DailyCalorieGoal,
		PreferredCuisine:    prefs.PreferredCuisine,
		Provider:            provider,
		Model:               model,
	}

	rec, err := recommendation.New(cmd.UserID, cmd.Type, text, recCtx)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := s.recommendations.Create(ctx, rec); err != nil {
		return nil, apperrors.NewDatabaseError("create recommendation", err)
	}
	return rec, nil
}

// Insights analyzes recent eating patterns and stores the result
func (s *Service) Insights(ctx context.Context, userID uuid.UUID, days int) (*recommendation.Recommendation, error) {
	if days <= 0 {
		days = insightDays
	}

	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}

	to := time.Now()
	from := to.AddDate(0, 0, -days)
	logs, err := s.logs.FindByUserAndRange(ctx, userID, from, to)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list food logs", err)
	}

	prefs := u.Preferences()
	stats, foodNames := s.patternStats(ctx, logs)
	prompt := insightsPrompt(prefs, stats)

	text, provider, model := s.complete(ctx, outbound.CompletionRequest{
		Prompt:      prompt,
		MaxTokens:   insightTokens,
		Temperature: 0.6,
	}, fallbackInsight)

	recCtx := recommendation.Context{
		RecentFoods:         foodNames,
		DietaryRestrictions: restrictionNames(prefs),
		CalorieGoal:         prefs.DailyCalorieGoal,
		PreferredCuisine:    prefs.PreferredCuisine,
		Provider:            provider,
		Model:               model,
	}

	rec, err := recommendation.New(userID, recommendation.TypeInsight, text, recCtx)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := s.recommendations.Create(ctx, rec); err != nil {
		return nil, apperrors.NewDatabaseError("create recommendation", err)
	}
	return rec, nil
}

// Rate records a thumbs up or thumbs down for a recommendation
func (s *Service) Rate(ctx context.Context, userID, recID uuid.UUID, rating int) error {
	rec, err := s.recommendations.FindByID(ctx, recID)
	if err != nil {
		if errors.Is(err, recommendation.ErrNotFound) {
			return apperrors.NewNotFoundError("recommendation")
		}
		return apperrors.NewDatabaseError("find recommendation", err)
	}
	if rec.UserID() != userID {
		return apperrors.NewNotFoundError("recommendation")
	}

	if err := rec.Rate(rating); err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	if err := s.recommendations.Update(ctx, rec); err != nil {
		return apperrors.NewDatabaseError("update recommendation", err)
	}
	return nil
}

// List returns a user's newest recommendations, excluding the ones
// they rated down.
func (s *Service) List(ctx context.Context, userID uuid.UUID, limit int) ([]*recommendation.Recommendation, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	recs, err := s.recommendations.FindVisible(ctx, userID, limit)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list recommendations", err)
	}
	return recs, nil
}

// complete runs the prompt through the provider, falling back to the
// given text when the provider errors out.
func (s *Service) complete(ctx context.Context, req outbound.CompletionRequest, fallback string) (text, provider, model string) {
	start := time.Now()
	completion, err := s.provider.Complete(ctx, req)
	if err != nil {
		s.metrics.AIRequest(s.provider.Name(), "unknown", "error", time.Since(start))
		s.logger.Warn("ai completion failed, using fallback", zap.Error(err))
		return fallback, s.provider.Name(), ""
	}
	s.metrics.AIRequest(completion.Provider, completion.Model, "ok", time.Since(start))
	return completion.Text, completion.Provider, completion.Model
}

func (s *Service) user(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, apperrors.NewUserNotFoundError(userID.String())
		}
		return nil, apperrors.NewDatabaseError("find user", err)
	}
	return u, nil
}

// recentItems loads the last logs and renders them for the prompt,
// returning the first few food names for the stored context.
func (s *Service) recentItems(ctx context.Context, userID uuid.UUID) ([]loggedItem, []string, error) {
	logs, err := s.logs.FindRecent(ctx, userID, recentLogContext)
	if err != nil {
		return nil, nil, apperrors.NewDatabaseError("list food logs", err)
	}

	items := make([]loggedItem, 0, len(logs))
	names := make([]string, 0, contextFoodNames)
	for _, log := range logs {
		f, err := s.foods.FindByID(ctx, log.FoodID())
		if err != nil {
			continue
		}
		items = append(items, loggedItem{
			Name:     f.Name(),
			Brand:    f.Brand(),
			Quantity: log.Quantity(),
			Calories: f.CaloriesFor(log.Quantity()),
			MealType: string(log.MealType()),
			Date:     log.LoggedAt().Format("2006-01-02"),
		})
		if len(names) < contextFoodNames {
			names = append(names, f.Name())
		}
	}
	return items, names, nil
}

// patternStats aggregates logs into the figures the insight prompt uses
type patternStats struct {
	DaysTracked      int
	TotalCalories    float64
	AvgDailyCalories float64
	MealPatterns     map[string]mealStat
	FoodCategories   map[string]int
}

type mealStat struct {
	Count    int     `json:"count"`
	Calories float64 `json:"calories"`
}

func (s *Service) patternStats(ctx context.Context, logs []*food.Log) (patternStats, []string) {
	stats := patternStats{
		MealPatterns:   make(map[string]mealStat),
		FoodCategories: make(map[string]int),
	}
	days := make(map[string]struct{})
	var names []string

	for _, log := range logs {
		f, err := s.foods.FindByID(ctx, log.FoodID())
		if err != nil {
			continue
		}
		calories := f.CaloriesFor(log.Quantity())

		meal := string(log.MealType())
		stat := stats.MealPatterns[meal]
		stat.Count++
		stat.Calories += calories
		stats.MealPatterns[meal] = stat

		stats.TotalCalories += calories
		days[log.LoggedAt().Format("2006-01-02")] = struct{}{}

		if category := categorize(f.Name()); category != "" {
			stats.FoodCategories[category]++
		}
		if len(names) < contextFoodNames {
			names = append(names, f.Name())
		}
	}

	stats.DaysTracked = len(days)
	if stats.DaysTracked > 0 {
		stats.AvgDailyCalories = stats.TotalCalories / float64(stats.DaysTracked)
	}
	return stats, names
}

// categorize buckets a food by name keywords for the insight prompt
func categorize(name string) string {
	name = strings.ToLower(name)
	switch {
	case containsAny(name, "vegetable", "fruit", "salad", "spinach", "broccoli"):
		return "fruits_vegetables"
	case containsAny(name, "chicken", "fish", "beef", "protein", "egg"):
		return "proteins"
	case containsAny(name, "bread", "rice", "pasta", "grain"):
		return "grains"
	}
	return ""
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func restrictionNames(prefs user.Preferences) []string {
	names := make([]string, 0, len(prefs.DietaryRestrictions))
	for _, r := range prefs.DietaryRestrictions {
		names = append(names, string(r))
	}
	return names
}

func recommendationPrompt(recType recommendation.Type, prefs user.Preferences, items []loggedItem) string {
	restrictions := "None"
	if len(prefs.DietaryRestrictions) > 0 {
		restrictions = strings.Join(restrictionNames(prefs), ", ")
	}
	cuisine := prefs.PreferredCuisine
	if cuisine == "" {
		cuisine = "No preference"
	}
	intake := "No recent food logs"
	if len(items) > 0 {
		if data, err := json.MarshalIndent(items, "", "  "); err == nil {
			intake = string(data)
		}
	}

	return fmt.Sprintf(`You are a helpful nutrition assistant. Based on the following information about a user's recent food intake, provide a personalized %[1]s recommendation.

USER PROFILE:
- Daily calorie goal: %d calories
- Dietary restrictions: %s
- Preferred cuisine: %s

RECENT FOOD INTAKE (last %d items):
%s

GUIDELINES:
1. Consider the user's calorie goal and recent intake
2. Respect dietary restrictions
3. Consider preferred cuisine if specified
4. Provide specific, actionable recommendations
5. Include estimated calorie information
6. Keep recommendations realistic and achievable
7. Focus on nutritional balance

Please provide a %[1]s recommendation in 2-3 sentences. Be specific about food suggestions and include brief reasoning for your recommendation.`,
		recType, prefs.DailyCalorieGoal, restrictions, cuisine, recentLogContext, intake)
}

func insightsPrompt(prefs user.Preferences, stats patternStats) string {
	restrictions := "None"
	if len(prefs.DietaryRestrictions) > 0 {
		restrictions = strings.Join(restrictionNames(prefs), ", ")
	}

	return fmt.Sprintf(`You are a nutrition expert analyzing a user's eating patterns. Provide helpful health insights based on the following data:

USER PROFILE:
- Daily calorie goal: %d calories
- Dietary restrictions: %s

EATING PATTERNS (last %d days):
- Average daily calories: %.0f
- Total calories tracked: %.0f
- Meal patterns: %s
- Food categories: %s

Please provide 3-4 specific, actionable health insights based on this data. Focus on:
1. Calorie balance relative to goals
2. Meal timing and frequency
3. Food variety and nutritional balance
4. Specific recommendations for improvement

Keep insights positive and encouraging while being honest about areas for improvement.`,
		prefs.DailyCalorieGoal, restrictions, stats.DaysTracked,
		stats.AvgDailyCalories, stats.TotalCalories,
		jsonBlock(stats.MealPatterns), jsonBlock(stats.FoodCategories))
}

func alternativesPrompt(foodName string, restrictions []string) string {
	constraint := "None"
	if len(restrictions) > 0 {
		constraint = strings.Join(restrictions, ", ")
	}

	return fmt.Sprintf(`You are a nutrition expert. A user is looking for healthier alternatives to %q.

USER CONSTRAINTS:
- Dietary restrictions: %s

Please suggest 3-4 healthier alternatives that:
1. Are similar in taste or texture
2. Are generally lower in calories or higher in nutritional value
3. Respect the user's dietary restrictions
4. Are commonly available

Format your response as a simple list with brief explanations for each alternative.`,
		foodName, constraint)
}

func fallbackRecommendation(calorieGoal int) string {
	return fmt.Sprintf("I'd be happy to help with meal recommendations, but I'm having trouble connecting to the AI service right now. Consider balancing your meals with lean proteins, whole grains, and plenty of vegetables to meet your %d calorie goal.", calorieGoal)
}

const fallbackInsight = "I'm having trouble analyzing your eating patterns right now. Keep tracking your meals and aim for a balanced diet with plenty of fruits, vegetables, lean proteins, and whole grains."

// jsonBlock renders a map with stable key order for prompt text
func jsonBlock(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}
