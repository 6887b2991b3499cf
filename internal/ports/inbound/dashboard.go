package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/platewise/v1/internal/domain/plan"
	"github.com/platewise/v1/internal/domain/recommendation"
)

// TodaySummary is the dashboard landing view data
type TodaySummary struct {
	Summary         DaySummary                        `json:"summary"`
	CalorieGoal     int                               `json:"calorie_goal"`
	Entries         []LogEntry                        `json:"entries"`
	Recommendations []*recommendation.Recommendation  `json:"recommendations"`
	WeekSummary     []DaySummary                      `json:"week_summary"`
}

// Analytics aggregates eating patterns over a period
type Analytics struct {
	From             time.Time          `json:"from"`
	To               time.Time          `json:"to"`
	DaysTracked      int                `json:"days_tracked"`
	AvgDailyCalories float64            `json:"avg_daily_calories"`
	CalorieGoal      int                `json:"calorie_goal"`
	MealPatterns     map[string]int     `json:"meal_patterns"`
	DailyCalories    []DailyCaloriePoint `json:"daily_calories"`
}

// DailyCaloriePoint is one day in the analytics calorie chart
type DailyCaloriePoint struct {
	Date     time.Time `json:"date"`
	Calories float64   `json:"calories"`
}

// PlannerView pairs the plan for a date with what was actually logged
type PlannerView struct {
	Date   time.Time             `json:"date"`
	Plan   *plan.DailyPlan       `json:"plan,omitempty"`
	Logged map[string][]LogEntry `json:"logged"`
}

// SavePlanCommand contains the data to store a daily meal plan
type SavePlanCommand struct {
	UserID uuid.UUID
	Date   time.Time
	Meals  map[string][]plan.PlannedMeal
	Goals  plan.Goals
}

// DashboardService defines dashboard and planning use cases
type DashboardService interface {
	// Today returns the landing dashboard for the current day.
	Today(ctx context.Context, userID uuid.UUID) (*TodaySummary, error)
	// Nutrition returns per-day nutrition summaries for the last n days.
	Nutrition(ctx context.Context, userID uuid.UUID, days int) ([]DaySummary, error)
	// Analytics aggregates the last 30 days of eating patterns.
	Analytics(ctx context.Context, userID uuid.UUID) (*Analytics, error)
	// Planner returns the meal plan and logged foods for a date.
	Planner(ctx context.Context, userID uuid.UUID, date time.Time) (*PlannerView, error)
	// SavePlan stores the meal plan for a date, replacing any existing one.
	SavePlan(ctx context.Context, cmd SavePlanCommand) (*plan.DailyPlan, error)
}
