package plan

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// PlanTestSuite provides a test suite for the DailyPlan entity
type PlanTestSuite struct {
	suite.Suite
}

// TestPlanCreation tests daily plan creation scenarios
func (suite *PlanTestSuite) TestPlanCreation() {
	suite.Run("NewPlan_ShouldTruncateDateToMidnightUTC", func() {
		// Arrange
		userID := uuid.New()
		afternoon := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

		// Act
		plan := NewDailyPlan(userID, afternoon)

		// Assert
		require.NotNil(suite.T(), plan)
		assert.NotEqual(suite.T(), uuid.Nil, plan.ID())
		assert.Equal(suite.T(), userID, plan.UserID())
		assert.Equal(suite.T(), time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), plan.Date())
		assert.NotNil(suite.T(), plan.Meals())
		assert.Empty(suite.T(), plan.Meals())
	})

	suite.Run("NewPlanWithZonedDate_ShouldUseUTCCalendarDay", func() {
		// Arrange
		zone := time.FixedZone("UTC-8", -8*60*60)
		lateEvening := time.Date(2026, 3, 14, 22, 0, 0, 0, zone)

		// Act
		plan := NewDailyPlan(uuid.New(), lateEvening)

		// Assert
		assert.Equal(suite.T(), time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), plan.Date())
	})

	suite.Run("ReconstructWithNilMeals_ShouldInitializeMap", func() {
		// Act
		plan := Reconstruct(uuid.New(), uuid.New(), time.Now(), nil, Goals{}, time.Now(), time.Now())

		// Assert
		assert.NotNil(suite.T(), plan.Meals())
	})
}

// TestPlanModification tests meal and goal updates
func (suite *PlanTestSuite) TestPlanModification() {
	suite.Run("SetMeals_ShouldReplacePlannedMeals", func() {
		// Arrange
		plan := NewDailyPlan(uuid.New(), time.Now())
		meals := map[string][]PlannedMeal{
			"breakfast": {{FoodName: "Oatmeal", Grams: 80, Calories: 311}},
			"lunch":     {{FoodName: "Chicken Salad", Calories: 450, Notes: "light dressing"}},
		}

		// Act
		plan.SetMeals(meals)

		// Assert
		assert.Equal(suite.T(), meals, plan.Meals())
		assert.Len(suite.T(), plan.Meals()["breakfast"], 1)
	})

	suite.Run("SetMealsNil_ShouldKeepMapUsable", func() {
		// Arrange
		plan := NewDailyPlan(uuid.New(), time.Now())

		// Act
		plan.SetMeals(nil)

		// Assert
		assert.NotNil(suite.T(), plan.Meals())
	})

	suite.Run("SetGoals_ShouldReplaceTargets", func() {
		// Arrange
		plan := NewDailyPlan(uuid.New(), time.Now())
		goals := Goals{Calories: 2200, Protein: 140, Carbs: 250, Fat: 70}

		// Act
		plan.SetGoals(goals)

		// Assert
		assert.Equal(suite.T(), goals, plan.Goals())
	})

	suite.Run("OwnedBy_ShouldMatchOwnerOnly", func() {
		// Arrange
		owner := uuid.New()
		plan := NewDailyPlan(owner, time.Now())

		// Assert
		assert.True(suite.T(), plan.OwnedBy(owner))
		assert.False(suite.T(), plan.OwnedBy(uuid.New()))
	})
}

// TestDay tests the calendar day truncation helper
func (suite *PlanTestSuite) TestDay() {
	suite.Run("SameCalendarDay_ShouldBeEqual", func() {
		// Arrange
		morning := time.Date(2026, 1, 2, 6, 30, 0, 0, time.UTC)
		evening := time.Date(2026, 1, 2, 23, 59, 59, 0, time.UTC)

		// Assert
		assert.Equal(suite.T(), Day(morning), Day(evening))
	})

	suite.Run("DifferentDays_ShouldDiffer", func() {
		// Arrange
		first := time.Date(2026, 1, 2, 23, 59, 59, 0, time.UTC)
		second := time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)

		// Assert
		assert.NotEqual(suite.T(), Day(first), Day(second))
	})
}

// TestPlanTestSuite runs the test suite
func TestPlanTestSuite(t *testing.T) {
	suite.Run(t, new(PlanTestSuite))
}
