package demo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/platewise/v1/internal/application/demo"
	gormRepo "github.com/platewise/v1/internal/infrastructure/persistence/gorm"
	"github.com/platewise/v1/test/testutils"
)

// staples cover at least one food per meal pattern so the generator
// always finds something to log
var staples = []string{"Oatmeal", "Greek Yogurt", "Banana", "Almonds", "Chicken Breast", "Brown Rice"}

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("SeededCatalog_ProducesPlausibleHistory", func(t *testing.T) {
		db := testutils.NewTestDB(t)
		users := gormRepo.NewUserRepository(db)
		foods := gormRepo.NewFoodRepository(db)
		logs := gormRepo.NewFoodLogRepository(db)
		foodFactory := testutils.NewFoodFactory(7)

		for _, name := range staples {
			require.NoError(t, foods.Create(ctx, foodFactory.CreateNamed(name, 150)))
		}

		owner := testutils.NewUserFactory(7).Create()
		require.NoError(t, users.Create(ctx, owner))

		gen := demo.NewGenerator(foods, logs, 42, zap.NewNop())
		result, err := gen.Generate(ctx, owner.ID(), 1)

		require.NoError(t, err)
		assert.Greater(t, result.LogsCreated, 0)
		assert.Greater(t, result.DaysWithLogs, 0)
		assert.LessOrEqual(t, result.DaysWithLogs, 31)
		assert.Greater(t, result.AvgDailyCalories, 0)
		assert.Greater(t, result.MealBreakdown["dinner"], 0, "dinner is almost never skipped")

		stored, total, err := logs.FindByUser(ctx, owner.ID(), 0, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(result.LogsCreated), total)
		require.NotEmpty(t, stored)
		assert.Contains(t, stored[0].Notes(), "Demo data for")
		assert.Greater(t, stored[0].Quantity(), 0.0)
	})

	t.Run("EmptyCatalog_ReturnsError", func(t *testing.T) {
		db := testutils.NewTestDB(t)
		users := gormRepo.NewUserRepository(db)
		foods := gormRepo.NewFoodRepository(db)
		logs := gormRepo.NewFoodLogRepository(db)

		owner := testutils.NewUserFactory(7).Create()
		require.NoError(t, users.Create(ctx, owner))

		gen := demo.NewGenerator(foods, logs, 42, zap.NewNop())
		_, err := gen.Generate(ctx, owner.ID(), 1)

		assert.ErrorContains(t, err, "no foods available")
	})
}
