// Package gorm provides mapping between domain entities and GORM models
package gorm

import (
	"encoding/json"

	"github.com/platewise/v1/internal/domain/food"
	"github.com/platewise/v1/internal/domain/plan"
	"github.com/platewise/v1/internal/domain/recommendation"
	"github.com/platewise/v1/internal/domain/user"
)

// UserToModel converts a domain user to a GORM model
func UserToModel(u *user.User) *UserModel {
	prefs := u.Preferences()
	restrictions := make([]string, len(prefs.DietaryRestrictions))
	for i, dr := range prefs.DietaryRestrictions {
		restrictions[i] = string(dr)
	}

	return &UserModel{
		ID:           u.ID(),
		Email:        u.Email(),
		Name:         u.Name(),
		PasswordHash: u.PasswordHash(),
		PictureURL:   u.PictureURL(),
		IsActive:     u.IsActive(),
		Preferences: &UserPreferencesModel{
			DailyCalorieGoal:    prefs.DailyCalorieGoal,
			DietaryRestrictions: restrictions,
			PreferredCuisine:    prefs.PreferredCuisine,
		},
		CreatedAt:   u.CreatedAt(),
		UpdatedAt:   u.UpdatedAt(),
		LastLoginAt: u.LastLoginAt(),
	}
}

// ModelToUser converts a GORM model to a domain user
func ModelToUser(model *UserModel) *user.User {
	prefs := user.Preferences{DailyCalorieGoal: 2000}
	if model.Preferences != nil {
		restrictions := make([]user.DietaryRestriction, len(model.Preferences.DietaryRestrictions))
		for i, dr := range model.Preferences.DietaryRestrictions {
			restrictions[i] = user.DietaryRestriction(dr)
		}
		prefs = user.Preferences{
			DailyCalorieGoal:    model.Preferences.DailyCalorieGoal,
			DietaryRestrictions: restrictions,
			PreferredCuisine:    model.Preferences.PreferredCuisine,
		}
	}

	return user.Reconstruct(
		model.ID,
		model.Email,
		model.Name,
		model.PasswordHash,
		model.PictureURL,
		model.IsActive,
		prefs,
		model.CreatedAt,
		model.UpdatedAt,
		model.LastLoginAt,
	)
}

// FoodToModel converts a domain food to a GORM model
func FoodToModel(f *food.Food) *FoodModel {
	n := f.Nutrition()
	model := &FoodModel{
		ID:          f.ID(),
		Name:        f.Name(),
		Brand:       f.Brand(),
		Ingredients: f.Ingredients(),
		Source:      string(f.Source()),
		Calories:    n.Calories,
		Protein:     n.Protein,
		Carbs:       n.Carbs,
		Fat:         n.Fat,
		Fiber:       n.Fiber,
		Sugar:       n.Sugar,
		Sodium:      n.Sodium,
		Extra:       FloatMap(n.Extra),
		CreatedAt:   f.CreatedAt(),
	}

	if upc := f.UPCCode(); upc != "" {
		model.UPCCode = &upc
	}

	if q := f.Quality(); q != nil {
		model.NutriScoreGrade = q.NutriScoreGrade
		model.NovaGroup = q.NovaGroup
		model.Allergens = q.Allergens
		model.Labels = q.Labels
		model.IsVegan = q.IsVegan
		model.IsVegetarian = q.IsVegetarian
		model.IsGlutenFree = q.IsGlutenFree
		model.ServingSize = q.ServingSize
		model.ImageURL = q.ImageURL
	}

	return model
}

// ModelToFood converts a GORM model to a domain food
func ModelToFood(model *FoodModel) *food.Food {
	upc := ""
	if model.UPCCode != nil {
		upc = *model.UPCCode
	}

	nutrition := food.NutritionFacts{
		Calories: model.Calories,
		Protein:  model.Protein,
		Carbs:    model.Carbs,
		Fat:      model.Fat,
		Fiber:    model.Fiber,
		Sugar:    model.Sugar,
		Sodium:   model.Sodium,
		Extra:    map[string]float64(model.Extra),
	}

	var quality *food.QualityInfo
	if model.NutriScoreGrade != "" || model.NovaGroup != 0 || model.ServingSize != "" ||
		model.ImageURL != "" || len(model.Allergens) > 0 || len(model.Labels) > 0 ||
		model.IsVegan || model.IsVegetarian || model.IsGlutenFree {
		quality = &food.QualityInfo{
			NutriScoreGrade: model.NutriScoreGrade,
			NovaGroup:       model.NovaGroup,
			Allergens:       model.Allergens,
			Labels:          model.Labels,
			IsVegan:         model.IsVegan,
			IsVegetarian:    model.IsVegetarian,
			IsGlutenFree:    model.IsGlutenFree,
			ServingSize:     model.ServingSize,
			ImageURL:        model.ImageURL,
		}
	}

	return food.ReconstructFood(
		model.ID,
		upc,
		model.Name,
		model.Brand,
		model.Ingredients,
		nutrition,
		quality,
		food.Source(model.Source),
		model.CreatedAt,
	)
}

// LogToModel converts a domain food log to a GORM model
func LogToModel(l *food.Log) *FoodLogModel {
	return &FoodLogModel{
		ID:       l.ID(),
		UserID:   l.UserID(),
		FoodID:   l.FoodID(),
		Quantity: l.Quantity(),
		MealType: string(l.MealType()),
		Notes:    l.Notes(),
		LoggedAt: l.LoggedAt(),
	}
}

// ModelToLog converts a GORM model to a domain food log
func ModelToLog(model *FoodLogModel) *food.Log {
	return food.ReconstructLog(
		model.ID,
		model.UserID,
		model.FoodID,
		model.Quantity,
		food.MealType(model.MealType),
		model.Notes,
		model.LoggedAt,
	)
}

// PlanToModel converts a domain daily plan to a GORM model
func PlanToModel(p *plan.DailyPlan) (*DailyPlanModel, error) {
	meals, err := toJSONField(p.Meals())
	if err != nil {
		return nil, err
	}
	goals, err := toJSONField(p.Goals())
	if err != nil {
		return nil, err
	}

	return &DailyPlanModel{
		ID:        p.ID(),
		UserID:    p.UserID(),
		Date:      p.Date(),
		Meals:     meals,
		Goals:     goals,
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}, nil
}

// ModelToPlan converts a GORM model to a domain daily plan
func ModelToPlan(model *DailyPlanModel) (*plan.DailyPlan, error) {
	var meals map[string][]plan.PlannedMeal
	if err := fromJSONField(model.Meals, &meals); err != nil {
		return nil, err
	}
	var goals plan.Goals
	if err := fromJSONField(model.Goals, &goals); err != nil {
		return nil, err
	}

	return plan.Reconstruct(
		model.ID,
		model.UserID,
		model.Date,
		meals,
		goals,
		model.CreatedAt,
		model.UpdatedAt,
	), nil
}

// RecommendationToModel converts a domain recommendation to a GORM model
func RecommendationToModel(r *recommendation.Recommendation) (*RecommendationModel, error) {
	ctx := r.Context()
	ctxField, err := toJSONField(ctx)
	if err != nil {
		return nil, err
	}

	return &RecommendationModel{
		ID:        r.ID(),
		UserID:    r.UserID(),
		Type:      string(r.Type()),
		Content:   r.Text(),
		Context:   ctxField,
		Provider:  ctx.Provider,
		Model:     ctx.Model,
		Rating:    r.Rating(),
		IsUsed:    r.IsUsed(),
		CreatedAt: r.CreatedAt(),
	}, nil
}

// ModelToRecommendation converts a GORM model to a domain recommendation
func ModelToRecommendation(model *RecommendationModel) (*recommendation.Recommendation, error) {
	var ctx recommendation.Context
	if err := fromJSONField(model.Context, &ctx); err != nil {
		return nil, err
	}
	if ctx.Provider == "" {
		ctx.Provider = model.Provider
	}
	if ctx.Model == "" {
		ctx.Model = model.Model
	}

	return recommendation.Reconstruct(
		model.ID,
		model.UserID,
		recommendation.Type(model.Type),
		model.Content,
		ctx,
		model.IsUsed,
		model.Rating,
		model.CreatedAt,
	), nil
}

// toJSONField serializes a value through JSON into a generic map
func toJSONField(v interface{}) (JSONField, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var field JSONField
	if err := json.Unmarshal(data, &field); err != nil {
		return nil, err
	}
	return field, nil
}

// fromJSONField deserializes a generic map back into a typed value
func fromJSONField(field JSONField, out interface{}) error {
	if len(field) == 0 {
		return nil
	}
	data, err := json.Marshal(field)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
