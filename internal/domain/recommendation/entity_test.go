package recommendation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// RecommendationTestSuite provides a test suite for the Recommendation entity
type RecommendationTestSuite struct {
	suite.Suite
}

// TestRecommendationCreation tests creation scenarios
func (suite *RecommendationTestSuite) TestRecommendationCreation() {
	suite.Run("ValidRecommendation_ShouldCreateSuccessfully", func() {
		// Arrange
		userID := uuid.New()
		ctx := Context{
			RecentFoods:         []string{"Oatmeal", "Banana"},
			DietaryRestrictions: []string{"vegetarian"},
			CalorieGoal:         2000,
			Provider:            "anthropic",
			Model:               "claude-3-sonnet-20240229",
		}

		// Act
		rec, err := New(userID, TypeMeal, "Try a lentil curry with brown rice.", ctx)

		// Assert
		require.NoError(suite.T(), err)
		require.NotNil(suite.T(), rec)

		assert.NotEqual(suite.T(), uuid.Nil, rec.ID())
		assert.Equal(suite.T(), userID, rec.UserID())
		assert.Equal(suite.T(), TypeMeal, rec.Type())
		assert.Equal(suite.T(), "Try a lentil curry with brown rice.", rec.Text())
		assert.Equal(suite.T(), ctx, rec.Context())
		assert.False(suite.T(), rec.IsUsed())
		assert.Zero(suite.T(), rec.Rating())
		assert.NotZero(suite.T(), rec.CreatedAt())
	})

	suite.Run("InvalidType_ShouldReturnError", func() {
		// Act
		rec, err := New(uuid.New(), Type("dessert"), "text", Context{})

		// Assert
		assert.Nil(suite.T(), rec)
		assert.Equal(suite.T(), ErrInvalidType, err)
	})

	suite.Run("AllKnownTypes_ShouldBeAccepted", func() {
		for _, recType := range []Type{TypeMeal, TypeSnack, TypeAlternative, TypeInsight} {
			rec, err := New(uuid.New(), recType, "text", Context{})
			require.NoError(suite.T(), err)
			assert.Equal(suite.T(), recType, rec.Type())
		}
	})
}

// TestRating tests the thumbs up/down feedback rules
func (suite *RecommendationTestSuite) TestRating() {
	suite.Run("ThumbsUp_ShouldRecordRating", func() {
		// Arrange
		rec, err := New(uuid.New(), TypeSnack, "text", Context{})
		require.NoError(suite.T(), err)

		// Act
		err = rec.Rate(RatingUp)

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), RatingUp, rec.Rating())
	})

	suite.Run("ThumbsDown_ShouldRecordRating", func() {
		// Arrange
		rec, err := New(uuid.New(), TypeSnack, "text", Context{})
		require.NoError(suite.T(), err)

		// Act
		err = rec.Rate(RatingDown)

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), RatingDown, rec.Rating())
	})

	suite.Run("RatingCanBeChanged", func() {
		// Arrange
		rec, err := New(uuid.New(), TypeMeal, "text", Context{})
		require.NoError(suite.T(), err)
		require.NoError(suite.T(), rec.Rate(RatingDown))

		// Act
		err = rec.Rate(RatingUp)

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), RatingUp, rec.Rating())
	})

	suite.Run("OutOfRangeRating_ShouldReturnError", func() {
		// Arrange
		rec, err := New(uuid.New(), TypeMeal, "text", Context{})
		require.NoError(suite.T(), err)

		for _, rating := range []int{0, 2, -2, 5} {
			assert.Equal(suite.T(), ErrInvalidRating, rec.Rate(rating), "rating %d should be rejected", rating)
		}
		assert.Zero(suite.T(), rec.Rating())
	})
}

// TestUsageTracking tests the used flag
func (suite *RecommendationTestSuite) TestUsageTracking() {
	suite.Run("MarkUsed_ShouldFlagRecommendation", func() {
		// Arrange
		rec, err := New(uuid.New(), TypeAlternative, "text", Context{})
		require.NoError(suite.T(), err)

		// Act
		rec.MarkUsed()

		// Assert
		assert.True(suite.T(), rec.IsUsed())
	})
}

// TestRecommendationTestSuite runs the test suite
func TestRecommendationTestSuite(t *testing.T) {
	suite.Run(t, new(RecommendationTestSuite))
}
