// Package plan defines the daily meal plan domain entity
package plan

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Domain errors for plan operations
var (
	ErrPlanNotFound = errors.New("daily plan not found")
	ErrNotPlanOwner = errors.New("only the owner can modify this plan")
)

// PlannedMeal describes one intended meal within a daily plan
type PlannedMeal struct {
	FoodName string  `json:"food_name"`
	Grams    float64 `json:"grams,omitempty"`
	Calories float64 `json:"calories,omitempty"`
	Notes    string  `json:"notes,omitempty"`
}

// Goals holds per-day nutritional targets
type Goals struct {
	Calories float64 `json:"calories,omitempty"`
	Protein  float64 `json:"protein,omitempty"`
	Carbs    float64 `json:"carbs,omitempty"`
	Fat      float64 `json:"fat,omitempty"`
}

// DailyPlan represents a user's meal plan for a single date. At most one
// plan exists per user and date.
type DailyPlan struct {
	id        uuid.UUID
	userID    uuid.UUID
	date      time.Time
	meals     map[string][]PlannedMeal
	goals     Goals
	createdAt time.Time
	updatedAt time.Time
}

// NewDailyPlan creates a plan for the given date. The date is truncated to
// midnight UTC so equality checks are calendar based.
func NewDailyPlan(userID uuid.UUID, date time.Time) *DailyPlan {
	now := time.Now()
	return &DailyPlan{
		id:        uuid.New(),
		userID:    userID,
		date:      Day(date),
		meals:     make(map[string][]PlannedMeal),
		createdAt: now,
		updatedAt: now,
	}
}

// Reconstruct rebuilds a plan from persisted state
func Reconstruct(
	id, userID uuid.UUID,
	date time.Time,
	meals map[string][]PlannedMeal,
	goals Goals,
	createdAt, updatedAt time.Time,
) *DailyPlan {
	if meals == nil {
		meals = make(map[string][]PlannedMeal)
	}
	return &DailyPlan{
		id:        id,
		userID:    userID,
		date:      Day(date),
		meals:     meals,
		goals:     goals,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// ID returns the plan's ID
func (p *DailyPlan) ID() uuid.UUID { return p.id }

// UserID returns the owning user's ID
func (p *DailyPlan) UserID() uuid.UUID { return p.userID }

// Date returns the plan's calendar date at midnight UTC
func (p *DailyPlan) Date() time.Time { return p.date }

// Meals returns the planned meals keyed by meal type
func (p *DailyPlan) Meals() map[string][]PlannedMeal { return p.meals }

// Goals returns the nutritional targets for the day
func (p *DailyPlan) Goals() Goals { return p.goals }

// CreatedAt returns when the plan was created
func (p *DailyPlan) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns when the plan was last modified
func (p *DailyPlan) UpdatedAt() time.Time { return p.updatedAt }

// SetMeals replaces the planned meals
func (p *DailyPlan) SetMeals(meals map[string][]PlannedMeal) {
	if meals == nil {
		meals = make(map[string][]PlannedMeal)
	}
	p.meals = meals
	p.updatedAt = time.Now()
}

// SetGoals replaces the nutritional targets
func (p *DailyPlan) SetGoals(goals Goals) {
	p.goals = goals
	p.updatedAt = time.Now()
}

// OwnedBy reports whether the plan belongs to the given user
func (p *DailyPlan) OwnedBy(userID uuid.UUID) bool {
	return p.userID == userID
}

// Day truncates a timestamp to midnight UTC
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
