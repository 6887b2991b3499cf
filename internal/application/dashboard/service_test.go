package dashboard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/platewise/v1/internal/application/dashboard"
	"github.com/platewise/v1/internal/domain/food"
	"github.com/platewise/v1/internal/domain/plan"
	"github.com/platewise/v1/internal/domain/recommendation"
	"github.com/platewise/v1/internal/domain/user"
	gormRepo "github.com/platewise/v1/internal/infrastructure/persistence/gorm"
	"github.com/platewise/v1/internal/ports/inbound"
	apperrors "github.com/platewise/v1/pkg/errors"
	"github.com/platewise/v1/test/testutils"
)

type fixture struct {
	svc    inbound.DashboardService
	userID uuid.UUID
	logs   func(t *testing.T, quantity float64, mealType food.MealType, at time.Time)
	recs   func(t *testing.T, text string, used bool)
	plans  func(t *testing.T, date time.Time, meals map[string][]plan.PlannedMeal)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db := testutils.NewTestDB(t)
	users := gormRepo.NewUserRepository(db)
	foods := gormRepo.NewFoodRepository(db)
	logs := gormRepo.NewFoodLogRepository(db)
	plans := gormRepo.NewPlanRepository(db)
	recs := gormRepo.NewRecommendationRepository(db)

	seed := time.Now().UnixNano()
	owner := testutils.NewUserFactory(seed).Create()
	require.NoError(t, users.Create(ctx, owner))

	// One food at 400 kcal per 100g keeps the expected totals simple
	item := testutils.NewFoodFactory(seed).CreateNamed("Trail Mix", 400)
	require.NoError(t, foods.Create(ctx, item))

	logFactory := testutils.NewLogFactory(seed)

	svc := dashboard.NewService(users, foods, logs, plans, recs, zap.NewNop())
	return &fixture{
		svc:    svc,
		userID: owner.ID(),
		logs: func(t *testing.T, quantity float64, mealType food.MealType, at time.Time) {
			t.Helper()
			log := logFactory.CreateAt(owner.ID(), item.ID(), mealType, at)
			require.NoError(t, log.Update(quantity, mealType, ""))
			require.NoError(t, logs.Create(ctx, log))
		},
		recs: func(t *testing.T, text string, used bool) {
			t.Helper()
			rec, err := recommendation.New(owner.ID(), recommendation.TypeMeal, text, recommendation.Context{})
			require.NoError(t, err)
			if used {
				rec.MarkUsed()
			}
			require.NoError(t, recs.Create(ctx, rec))
		},
		plans: func(t *testing.T, date time.Time, meals map[string][]plan.PlannedMeal) {
			t.Helper()
			p := plan.NewDailyPlan(owner.ID(), date)
			p.SetMeals(meals)
			require.NoError(t, plans.Save(ctx, p))
		},
	}
}

func TestToday(t *testing.T) {
	ctx := context.Background()

	t.Run("LogsAndRecommendations_AreAggregated", func(t *testing.T) {
		fix := newFixture(t)
		now := time.Now().UTC()
		fix.logs(t, 100, food.MealTypeBreakfast, now)
		fix.logs(t, 50, food.MealTypeLunch, now)
		fix.logs(t, 100, food.MealTypeLunch, now.AddDate(0, 0, -2))
		fix.recs(t, "fresh", false)
		fix.recs(t, "acted on", true)

		today, err := fix.svc.Today(ctx, fix.userID)

		require.NoError(t, err)
		assert.Equal(t, user.DefaultCalorieGoal, today.CalorieGoal)
		assert.Len(t, today.Entries, 2, "only the current day's entries")
		assert.InDelta(t, 600, today.Summary.Calories, 0.01)
		assert.Equal(t, 2, today.Summary.Meals)
		assert.Equal(t, 1, today.Summary.ByMeal["breakfast"])
		assert.Equal(t, 1, today.Summary.ByMeal["lunch"])

		require.Len(t, today.Recommendations, 1, "used recommendations are excluded")
		assert.Equal(t, "fresh", today.Recommendations[0].Text())

		require.Len(t, today.WeekSummary, 7)
		assert.InDelta(t, 600, today.WeekSummary[6].Calories, 0.01, "week summary ends on today")
	})

	t.Run("UnknownUser_ReturnsUserNotFound", func(t *testing.T) {
		fix := newFixture(t)

		_, err := fix.svc.Today(ctx, uuid.New())

		var appErr *apperrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperrors.CodeUserNotFound, appErr.Code)
	})
}

func TestNutrition(t *testing.T) {
	ctx := context.Background()

	t.Run("IncludesEmptyDaysOldestFirst", func(t *testing.T) {
		fix := newFixture(t)
		now := time.Now().UTC()
		fix.logs(t, 100, food.MealTypeDinner, now)
		fix.logs(t, 200, food.MealTypeDinner, now.AddDate(0, 0, -1))

		days, err := fix.svc.Nutrition(ctx, fix.userID, 3)

		require.NoError(t, err)
		require.Len(t, days, 3)
		assert.True(t, days[0].Date.Before(days[1].Date))
		assert.Zero(t, days[0].Calories, "untracked days carry zero totals")
		assert.InDelta(t, 800, days[1].Calories, 0.01)
		assert.InDelta(t, 400, days[2].Calories, 0.01)
	})

	t.Run("NonPositiveDays_DefaultsToWeek", func(t *testing.T) {
		fix := newFixture(t)

		days, err := fix.svc.Nutrition(ctx, fix.userID, 0)

		require.NoError(t, err)
		assert.Len(t, days, 7)
	})

	t.Run("OversizedRange_IsClamped", func(t *testing.T) {
		fix := newFixture(t)

		days, err := fix.svc.Nutrition(ctx, fix.userID, 400)

		require.NoError(t, err)
		assert.Len(t, days, 90)
	})
}

func TestAnalytics(t *testing.T) {
	ctx := context.Background()

	t.Run("AveragesOverTrackedDaysOnly", func(t *testing.T) {
		fix := newFixture(t)
		now := time.Now().UTC()
		fix.logs(t, 100, food.MealTypeBreakfast, now)
		fix.logs(t, 100, food.MealTypeLunch, now)
		fix.logs(t, 50, food.MealTypeLunch, now.AddDate(0, 0, -3))

		analytics, err := fix.svc.Analytics(ctx, fix.userID)

		require.NoError(t, err)
		assert.Equal(t, 2, analytics.DaysTracked, "days without logs do not count")
		assert.InDelta(t, 500, analytics.AvgDailyCalories, 0.01, "(800 + 200) / 2")
		assert.Equal(t, 1, analytics.MealPatterns["breakfast"])
		assert.Equal(t, 2, analytics.MealPatterns["lunch"])
		require.Len(t, analytics.DailyCalories, 2)
		assert.True(t, analytics.DailyCalories[0].Date.Before(analytics.DailyCalories[1].Date))
	})

	t.Run("NoLogs_ReturnsZeroes", func(t *testing.T) {
		fix := newFixture(t)

		analytics, err := fix.svc.Analytics(ctx, fix.userID)

		require.NoError(t, err)
		assert.Zero(t, analytics.DaysTracked)
		assert.Zero(t, analytics.AvgDailyCalories)
		assert.Empty(t, analytics.DailyCalories)
	})
}

func TestPlanner(t *testing.T) {
	ctx := context.Background()

	t.Run("PlanAndLogs_AreGroupedByMeal", func(t *testing.T) {
		fix := newFixture(t)
		date := time.Now().UTC()
		fix.plans(t, date, map[string][]plan.PlannedMeal{
			"dinner": {{FoodName: "Salmon", Grams: 150}},
		})
		fix.logs(t, 100, food.MealTypeDinner, date)
		fix.logs(t, 30, food.MealTypeSnack, date)

		view, err := fix.svc.Planner(ctx, fix.userID, date)

		require.NoError(t, err)
		require.NotNil(t, view.Plan)
		assert.Equal(t, "Salmon", view.Plan.Meals()["dinner"][0].FoodName)
		assert.Len(t, view.Logged["dinner"], 1)
		assert.Len(t, view.Logged["snack"], 1)
	})

	t.Run("NoPlan_ReturnsViewWithNilPlan", func(t *testing.T) {
		fix := newFixture(t)

		view, err := fix.svc.Planner(ctx, fix.userID, time.Now())

		require.NoError(t, err)
		assert.Nil(t, view.Plan)
		assert.Empty(t, view.Logged)
	})
}

func TestSavePlan(t *testing.T) {
	ctx := context.Background()

	t.Run("SaveTwice_ReplacesPlanForTheDay", func(t *testing.T) {
		fix := newFixture(t)
		date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

		first, err := fix.svc.SavePlan(ctx, inbound.SavePlanCommand{
			UserID: fix.userID,
			Date:   date,
			Meals:  map[string][]plan.PlannedMeal{"lunch": {{FoodName: "Soup"}}},
		})
		require.NoError(t, err)
		assert.Equal(t, "Soup", first.Meals()["lunch"][0].FoodName)

		second, err := fix.svc.SavePlan(ctx, inbound.SavePlanCommand{
			UserID: fix.userID,
			Date:   date,
			Meals:  map[string][]plan.PlannedMeal{"lunch": {{FoodName: "Stew"}}},
			Goals:  plan.Goals{Calories: 1900},
		})
		require.NoError(t, err)
		assert.Equal(t, "Stew", second.Meals()["lunch"][0].FoodName)
		assert.Equal(t, 1900.0, second.Goals().Calories)

		view, err := fix.svc.Planner(ctx, fix.userID, date)
		require.NoError(t, err)
		require.NotNil(t, view.Plan)
		assert.Equal(t, "Stew", view.Plan.Meals()["lunch"][0].FoodName)
	})
}
