package gorm_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/v1/internal/domain/food"
	"github.com/platewise/v1/internal/domain/plan"
	"github.com/platewise/v1/internal/domain/recommendation"
	"github.com/platewise/v1/internal/domain/user"
	gormRepo "github.com/platewise/v1/internal/infrastructure/persistence/gorm"
	"github.com/platewise/v1/test/testutils"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	db := testutils.NewTestDB(t)
	repo := gormRepo.NewUserRepository(db)
	factory := testutils.NewUserFactory(time.Now().UnixNano())

	t.Run("CreateAndFindByID", func(t *testing.T) {
		created := factory.Create()
		require.NoError(t, repo.Create(ctx, created))

		found, err := repo.FindByID(ctx, created.ID())
		require.NoError(t, err)
		assert.Equal(t, created.ID(), found.ID())
		assert.Equal(t, created.Email(), found.Email())
		assert.Equal(t, created.Name(), found.Name())
		assert.True(t, found.IsActive())
		assert.Equal(t, user.DefaultCalorieGoal, found.Preferences().DailyCalorieGoal)
	})

	t.Run("DuplicateEmail_ReturnsEmailAlreadyExists", func(t *testing.T) {
		first := factory.CreateWithEmail("duplicate@example.com")
		require.NoError(t, repo.Create(ctx, first))

		second := factory.CreateWithEmail("duplicate@example.com")
		assert.ErrorIs(t, repo.Create(ctx, second), user.ErrEmailAlreadyExists)
	})

	t.Run("FindByEmail", func(t *testing.T) {
		created := factory.CreateWithEmail("findme@example.com")
		require.NoError(t, repo.Create(ctx, created))

		found, err := repo.FindByEmail(ctx, "findme@example.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID(), found.ID())

		_, err = repo.FindByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})

	t.Run("FindByID_Missing_ReturnsUserNotFound", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})

	t.Run("Update_PersistsPreferences", func(t *testing.T) {
		created := factory.Create()
		require.NoError(t, repo.Create(ctx, created))

		prefs := user.Preferences{
			DailyCalorieGoal:    1750,
			DietaryRestrictions: []user.DietaryRestriction{user.DietaryRestrictionVegan},
			PreferredCuisine:    "thai",
		}
		require.NoError(t, created.UpdatePreferences(prefs))
		require.NoError(t, repo.Update(ctx, created))

		found, err := repo.FindByID(ctx, created.ID())
		require.NoError(t, err)
		assert.Equal(t, 1750, found.Preferences().DailyCalorieGoal)
		assert.Equal(t, []user.DietaryRestriction{user.DietaryRestrictionVegan}, found.Preferences().DietaryRestrictions)
		assert.Equal(t, "thai", found.Preferences().PreferredCuisine)
	})

	t.Run("UpdateLastLogin_SetsTimestamp", func(t *testing.T) {
		created := factory.Create()
		require.NoError(t, repo.Create(ctx, created))
		require.Nil(t, created.LastLoginAt())

		require.NoError(t, repo.UpdateLastLogin(ctx, created.ID()))

		found, err := repo.FindByID(ctx, created.ID())
		require.NoError(t, err)
		require.NotNil(t, found.LastLoginAt())
		assert.WithinDuration(t, time.Now(), *found.LastLoginAt(), 5*time.Second)
	})

	t.Run("Exists", func(t *testing.T) {
		created := factory.Create()
		require.NoError(t, repo.Create(ctx, created))

		exists, err := repo.Exists(ctx, created.ID())
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.Exists(ctx, uuid.New())
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestFoodRepository(t *testing.T) {
	ctx := context.Background()
	db := testutils.NewTestDB(t)
	repo := gormRepo.NewFoodRepository(db)
	factory := testutils.NewFoodFactory(time.Now().UnixNano())

	t.Run("CreateAndFindByID", func(t *testing.T) {
		created := factory.Create()
		require.NoError(t, repo.Create(ctx, created))

		found, err := repo.FindByID(ctx, created.ID())
		require.NoError(t, err)
		assert.Equal(t, created.Name(), found.Name())
		assert.Equal(t, created.Brand(), found.Brand())
		assert.InDelta(t, created.Nutrition().Calories, found.Nutrition().Calories, 0.001)
		assert.Equal(t, food.SourceCustom, found.Source())
	})

	t.Run("FindByUPC", func(t *testing.T) {
		created := factory.CreateWithUPC("4006381333931")
		require.NoError(t, repo.Create(ctx, created))

		found, err := repo.FindByUPC(ctx, "4006381333931")
		require.NoError(t, err)
		assert.Equal(t, created.ID(), found.ID())

		_, err = repo.FindByUPC(ctx, "0000000000000")
		assert.ErrorIs(t, err, food.ErrFoodNotFound)
	})

	t.Run("Upsert_DuplicateUPC_ReturnsExisting", func(t *testing.T) {
		first := factory.CreateWithUPC("012345678905")
		require.NoError(t, repo.Create(ctx, first))

		second := factory.CreateWithUPC("012345678905")
		stored, err := repo.Upsert(ctx, second)
		require.NoError(t, err)
		assert.Equal(t, first.ID(), stored.ID(), "upsert should resolve to the existing record")
	})

	t.Run("Upsert_NewFood_Stores", func(t *testing.T) {
		created := factory.CreateWithUPC("123456789999")
		stored, err := repo.Upsert(ctx, created)
		require.NoError(t, err)
		assert.Equal(t, created.ID(), stored.ID())

		found, err := repo.FindByUPC(ctx, "123456789999")
		require.NoError(t, err)
		assert.Equal(t, created.ID(), found.ID())
	})

	t.Run("QualityInfo_RoundTrips", func(t *testing.T) {
		created := factory.CreateWithUPC("737628064502")
		created.SetQuality(&food.QualityInfo{
			NutriScoreGrade: "b",
			NovaGroup:       3,
			Allergens:       []string{"gluten", "soy"},
			Labels:          []string{"organic"},
			IsVegetarian:    true,
			ServingSize:     "85g",
		})
		require.NoError(t, repo.Create(ctx, created))

		found, err := repo.FindByID(ctx, created.ID())
		require.NoError(t, err)
		require.NotNil(t, found.Quality())
		assert.Equal(t, "b", found.Quality().NutriScoreGrade)
		assert.Equal(t, 3, found.Quality().NovaGroup)
		assert.Equal(t, []string{"gluten", "soy"}, found.Quality().Allergens)
		assert.True(t, found.Quality().IsVegetarian)
	})

	t.Run("SearchByName_MatchesNameAndBrand", func(t *testing.T) {
		oatmeal := factory.CreateNamed("Steel Cut Oatmeal", 379)
		require.NoError(t, repo.Create(ctx, oatmeal))

		byName, err := repo.SearchByName(ctx, "Steel Cut", 10)
		require.NoError(t, err)
		require.Len(t, byName, 1)
		assert.Equal(t, oatmeal.ID(), byName[0].ID())

		none, err := repo.SearchByName(ctx, "no-such-food-xyz", 10)
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestFoodLogRepository(t *testing.T) {
	ctx := context.Background()
	db := testutils.NewTestDB(t)
	users := gormRepo.NewUserRepository(db)
	foods := gormRepo.NewFoodRepository(db)
	logs := gormRepo.NewFoodLogRepository(db)

	seed := time.Now().UnixNano()
	userFactory := testutils.NewUserFactory(seed)
	foodFactory := testutils.NewFoodFactory(seed)
	logFactory := testutils.NewLogFactory(seed)

	owner := userFactory.Create()
	require.NoError(t, users.Create(ctx, owner))
	item := foodFactory.Create()
	require.NoError(t, foods.Create(ctx, item))

	t.Run("CreateAndFindByID", func(t *testing.T) {
		log := logFactory.Create(owner.ID(), item.ID(), food.MealTypeLunch)
		require.NoError(t, logs.Create(ctx, log))

		found, err := logs.FindByID(ctx, log.ID())
		require.NoError(t, err)
		assert.Equal(t, log.UserID(), found.UserID())
		assert.Equal(t, log.FoodID(), found.FoodID())
		assert.InDelta(t, log.Quantity(), found.Quantity(), 0.001)
		assert.Equal(t, food.MealTypeLunch, found.MealType())
	})

	t.Run("FindByID_Missing_ReturnsFoodLogNotFound", func(t *testing.T) {
		_, err := logs.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, food.ErrFoodLogNotFound)
	})

	t.Run("Update_PersistsChanges", func(t *testing.T) {
		log := logFactory.Create(owner.ID(), item.ID(), food.MealTypeBreakfast)
		require.NoError(t, logs.Create(ctx, log))

		require.NoError(t, log.Update(222, food.MealTypeDinner, "moved to dinner"))
		require.NoError(t, logs.Update(ctx, log))

		found, err := logs.FindByID(ctx, log.ID())
		require.NoError(t, err)
		assert.Equal(t, 222.0, found.Quantity())
		assert.Equal(t, food.MealTypeDinner, found.MealType())
		assert.Equal(t, "moved to dinner", found.Notes())
	})

	t.Run("Delete_RemovesEntry", func(t *testing.T) {
		log := logFactory.Create(owner.ID(), item.ID(), food.MealTypeSnack)
		require.NoError(t, logs.Create(ctx, log))

		require.NoError(t, logs.Delete(ctx, log.ID()))

		_, err := logs.FindByID(ctx, log.ID())
		assert.ErrorIs(t, err, food.ErrFoodLogNotFound)
	})

	t.Run("QueriesByUserAndRange", func(t *testing.T) {
		historyUser := userFactory.Create()
		require.NoError(t, users.Create(ctx, historyUser))

		now := time.Now()
		times := []time.Time{
			now.Add(-72 * time.Hour),
			now.Add(-48 * time.Hour),
			now.Add(-24 * time.Hour),
			now.Add(-1 * time.Hour),
		}
		for _, at := range times {
			log := logFactory.CreateAt(historyUser.ID(), item.ID(), food.MealTypeLunch, at)
			require.NoError(t, logs.Create(ctx, log))
		}

		// FindByUser pages newest first
		page, total, err := logs.FindByUser(ctx, historyUser.ID(), 0, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		require.Len(t, page, 2)
		assert.True(t, page[0].LoggedAt().After(page[1].LoggedAt()))

		// FindByUserAndRange is inclusive of from, exclusive of to, oldest first
		ranged, err := logs.FindByUserAndRange(ctx, historyUser.ID(), now.Add(-49*time.Hour), now)
		require.NoError(t, err)
		require.Len(t, ranged, 3)
		assert.True(t, ranged[0].LoggedAt().Before(ranged[1].LoggedAt()))

		// FindRecent caps at the limit, newest first
		recent, err := logs.FindRecent(ctx, historyUser.ID(), 3)
		require.NoError(t, err)
		require.Len(t, recent, 3)
		assert.WithinDuration(t, times[3], recent[0].LoggedAt(), time.Second)

		// Queries stay scoped to the requesting user
		others, _, err := logs.FindByUser(ctx, owner.ID(), 0, 100)
		require.NoError(t, err)
		for _, log := range others {
			assert.Equal(t, owner.ID(), log.UserID())
		}
	})
}

func TestPlanRepository(t *testing.T) {
	ctx := context.Background()
	db := testutils.NewTestDB(t)
	users := gormRepo.NewUserRepository(db)
	plans := gormRepo.NewPlanRepository(db)
	userFactory := testutils.NewUserFactory(time.Now().UnixNano())

	owner := userFactory.Create()
	require.NoError(t, users.Create(ctx, owner))

	t.Run("SaveAndFindByUserAndDate", func(t *testing.T) {
		date := time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC)
		created := plan.NewDailyPlan(owner.ID(), date)
		created.SetMeals(map[string][]plan.PlannedMeal{
			"breakfast": {{FoodName: "Oatmeal", Grams: 80}},
		})
		created.SetGoals(plan.Goals{Calories: 2000, Protein: 120})
		require.NoError(t, plans.Save(ctx, created))

		// Any time on the same calendar day resolves to the plan
		found, err := plans.FindByUserAndDate(ctx, owner.ID(), time.Date(2026, 8, 28, 7, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, created.Date(), found.Date())
		require.Len(t, found.Meals()["breakfast"], 1)
		assert.Equal(t, "Oatmeal", found.Meals()["breakfast"][0].FoodName)
		assert.Equal(t, 2000.0, found.Goals().Calories)
	})

	t.Run("Save_SameDay_Upserts", func(t *testing.T) {
		date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		first := plan.NewDailyPlan(owner.ID(), date)
		first.SetMeals(map[string][]plan.PlannedMeal{"lunch": {{FoodName: "Salad"}}})
		require.NoError(t, plans.Save(ctx, first))

		second := plan.NewDailyPlan(owner.ID(), date)
		second.SetMeals(map[string][]plan.PlannedMeal{"lunch": {{FoodName: "Ramen"}}})
		require.NoError(t, plans.Save(ctx, second))

		found, err := plans.FindByUserAndDate(ctx, owner.ID(), date)
		require.NoError(t, err)
		require.Len(t, found.Meals()["lunch"], 1)
		assert.Equal(t, "Ramen", found.Meals()["lunch"][0].FoodName)
		assert.Equal(t, first.ID(), found.ID(), "the original row is kept on conflict")
	})

	t.Run("FindByUserAndDate_Missing_ReturnsPlanNotFound", func(t *testing.T) {
		_, err := plans.FindByUserAndDate(ctx, owner.ID(), time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC))
		assert.ErrorIs(t, err, plan.ErrPlanNotFound)
	})

	t.Run("FindByUser_ReturnsRange", func(t *testing.T) {
		rangeUser := userFactory.Create()
		require.NoError(t, users.Create(ctx, rangeUser))

		for day := 1; day <= 3; day++ {
			p := plan.NewDailyPlan(rangeUser.ID(), time.Date(2026, 10, day, 0, 0, 0, 0, time.UTC))
			require.NoError(t, plans.Save(ctx, p))
		}

		found, err := plans.FindByUser(ctx, rangeUser.ID(),
			time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Len(t, found, 2)
	})
}

func TestRecommendationRepository(t *testing.T) {
	ctx := context.Background()
	db := testutils.NewTestDB(t)
	users := gormRepo.NewUserRepository(db)
	recs := gormRepo.NewRecommendationRepository(db)
	userFactory := testutils.NewUserFactory(time.Now().UnixNano())

	owner := userFactory.Create()
	require.NoError(t, users.Create(ctx, owner))

	newRec := func(t *testing.T, recType recommendation.Type, text string) *recommendation.Recommendation {
		t.Helper()
		rec, err := recommendation.New(owner.ID(), recType, text, recommendation.Context{
			CalorieGoal: 2000,
			Provider:    "anthropic",
			Model:       "claude-3-sonnet-20240229",
		})
		require.NoError(t, err)
		return rec
	}

	t.Run("CreateAndFindByID", func(t *testing.T) {
		rec := newRec(t, recommendation.TypeMeal, "Try a quinoa bowl.")
		require.NoError(t, recs.Create(ctx, rec))

		found, err := recs.FindByID(ctx, rec.ID())
		require.NoError(t, err)
		assert.Equal(t, rec.Text(), found.Text())
		assert.Equal(t, recommendation.TypeMeal, found.Type())
		assert.Equal(t, "anthropic", found.Context().Provider)
		assert.Zero(t, found.Rating())
	})

	t.Run("FindByID_Missing_ReturnsNotFound", func(t *testing.T) {
		_, err := recs.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, recommendation.ErrNotFound)
	})

	t.Run("Update_PersistsRating", func(t *testing.T) {
		rec := newRec(t, recommendation.TypeSnack, "Apple with peanut butter.")
		require.NoError(t, recs.Create(ctx, rec))

		require.NoError(t, rec.Rate(recommendation.RatingUp))
		require.NoError(t, recs.Update(ctx, rec))

		found, err := recs.FindByID(ctx, rec.ID())
		require.NoError(t, err)
		assert.Equal(t, recommendation.RatingUp, found.Rating())
	})

	t.Run("FindVisible_ExcludesThumbsDown", func(t *testing.T) {
		visibleUser := userFactory.Create()
		require.NoError(t, users.Create(ctx, visibleUser))

		kept, err := recommendation.New(visibleUser.ID(), recommendation.TypeMeal, "keep", recommendation.Context{})
		require.NoError(t, err)
		require.NoError(t, recs.Create(ctx, kept))

		hidden, err := recommendation.New(visibleUser.ID(), recommendation.TypeMeal, "hide", recommendation.Context{})
		require.NoError(t, err)
		require.NoError(t, hidden.Rate(recommendation.RatingDown))
		require.NoError(t, recs.Create(ctx, hidden))

		visible, err := recs.FindVisible(ctx, visibleUser.ID(), 10)
		require.NoError(t, err)
		require.Len(t, visible, 1)
		assert.Equal(t, kept.ID(), visible[0].ID())
	})

	t.Run("FindUnused_ExcludesUsed", func(t *testing.T) {
		unusedUser := userFactory.Create()
		require.NoError(t, users.Create(ctx, unusedUser))

		fresh, err := recommendation.New(unusedUser.ID(), recommendation.TypeInsight, "fresh", recommendation.Context{})
		require.NoError(t, err)
		require.NoError(t, recs.Create(ctx, fresh))

		used, err := recommendation.New(unusedUser.ID(), recommendation.TypeInsight, "used", recommendation.Context{})
		require.NoError(t, err)
		used.MarkUsed()
		require.NoError(t, recs.Create(ctx, used))

		unused, err := recs.FindUnused(ctx, unusedUser.ID(), 10)
		require.NoError(t, err)
		require.Len(t, unused, 1)
		assert.Equal(t, fresh.ID(), unused[0].ID())
	})
}
