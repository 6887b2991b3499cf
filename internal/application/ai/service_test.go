package ai_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	aiService "github.com/platewise/v1/internal/application/ai"
	"github.com/platewise/v1/internal/domain/food"
	"github.com/platewise/v1/internal/domain/recommendation"
	"github.com/platewise/v1/internal/domain/user"
	"github.com/platewise/v1/internal/infrastructure/monitoring"
	gormRepo "github.com/platewise/v1/internal/infrastructure/persistence/gorm"
	"github.com/platewise/v1/internal/ports/inbound"
	"github.com/platewise/v1/internal/ports/outbound"
	apperrors "github.com/platewise/v1/pkg/errors"
	"github.com/platewise/v1/test/testutils"
)

// The collector registers with the default Prometheus registry, so the
// test binary shares a single instance.
var testMetrics = monitoring.NewMetricsCollector(zap.NewNop())

// stubProvider returns a canned completion and records the prompts it saw
type stubProvider struct {
	text    string
	err     error
	prompts []string
}

func (s *stubProvider) Complete(ctx context.Context, req outbound.CompletionRequest) (*outbound.Completion, error) {
	s.prompts = append(s.prompts, req.Prompt)
	if s.err != nil {
		return nil, s.err
	}
	return &outbound.Completion{Text: s.text, Provider: "stub", Model: "stub-model"}, nil
}

func (s *stubProvider) ExtractBarcode(ctx context.Context, imageData []byte, mimeType string) (string, error) {
	return "", nil
}

func (s *stubProvider) Available() bool { return true }
func (s *stubProvider) Name() string    { return "stub" }

type fixture struct {
	svc      inbound.RecommendationService
	provider *stubProvider
	userID   uuid.UUID
	logFood  func(t *testing.T, name string, calories float64, mealType food.MealType, at time.Time)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db := testutils.NewTestDB(t)
	users := gormRepo.NewUserRepository(db)
	foods := gormRepo.NewFoodRepository(db)
	logs := gormRepo.NewFoodLogRepository(db)
	recs := gormRepo.NewRecommendationRepository(db)

	seed := time.Now().UnixNano()
	owner := testutils.NewUserFactory(seed).Create()
	require.NoError(t, users.Create(ctx, owner))

	foodFactory := testutils.NewFoodFactory(seed)
	logFactory := testutils.NewLogFactory(seed)

	provider := &stubProvider{text: "Try a chickpea curry with brown rice for dinner."}
	svc := aiService.NewService(users, foods, logs, recs, provider, testMetrics, zap.NewNop())

	return &fixture{
		svc:      svc,
		provider: provider,
		userID:   owner.ID(),
		logFood: func(t *testing.T, name string, calories float64, mealType food.MealType, at time.Time) {
			t.Helper()
			item := foodFactory.CreateNamed(name, calories)
			require.NoError(t, foods.Create(ctx, item))
			require.NoError(t, logs.Create(ctx, logFactory.CreateAt(owner.ID(), item.ID(), mealType, at)))
		},
	}
}

func appCode(t *testing.T, err error) apperrors.ErrorCode {
	t.Helper()
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr), "expected an application error, got %v", err)
	return appErr.Code
}

func TestRecommend(t *testing.T) {
	ctx := context.Background()

	t.Run("MealRecommendation_IsStoredWithContext", func(t *testing.T) {
		fix := newFixture(t)
		fix.logFood(t, "Oatmeal", 389, food.MealTypeBreakfast, time.Now().Add(-2*time.Hour))

		rec, err := fix.svc.Recommend(ctx, inbound.RecommendCommand{
			UserID: fix.userID,
			Type:   recommendation.TypeMeal,
		})

		require.NoError(t, err)
		assert.Equal(t, recommendation.TypeMeal, rec.Type())
		assert.Equal(t, "Try a chickpea curry with brown rice for dinner.", rec.Text())
		assert.Equal(t, "stub", rec.Context().Provider)
		assert.Equal(t, "stub-model", rec.Context().Model)
		assert.Contains(t, rec.Context().RecentFoods, "Oatmeal")
		assert.Equal(t, user.DefaultCalorieGoal, rec.Context().CalorieGoal)

		// The prompt carries the user's recent intake
		require.Len(t, fix.provider.prompts, 1)
		assert.Contains(t, fix.provider.prompts[0], "Oatmeal")

		// The stored recommendation is listed afterwards
		listed, err := fix.svc.List(ctx, fix.userID, 10)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, rec.ID(), listed[0].ID())
	})

	t.Run("AlternativeWithFoodName_UsesAlternativesPrompt", func(t *testing.T) {
		fix := newFixture(t)

		rec, err := fix.svc.Recommend(ctx, inbound.RecommendCommand{
			UserID:   fix.userID,
			Type:     recommendation.TypeAlternative,
			FoodName: "Potato Chips",
		})

		require.NoError(t, err)
		assert.Equal(t, recommendation.TypeAlternative, rec.Type())
		require.Len(t, fix.provider.prompts, 1)
		assert.Contains(t, fix.provider.prompts[0], "Potato Chips")
		assert.Contains(t, strings.ToLower(fix.provider.prompts[0]), "alternative")
	})

	t.Run("InsightType_DelegatesToInsights", func(t *testing.T) {
		fix := newFixture(t)

		rec, err := fix.svc.Recommend(ctx, inbound.RecommendCommand{
			UserID: fix.userID,
			Type:   recommendation.TypeInsight,
		})

		require.NoError(t, err)
		assert.Equal(t, recommendation.TypeInsight, rec.Type())
	})

	t.Run("ProviderFailure_PersistsFallbackText", func(t *testing.T) {
		fix := newFixture(t)
		fix.provider.err = errors.New("provider unavailable")

		rec, err := fix.svc.Recommend(ctx, inbound.RecommendCommand{
			UserID: fix.userID,
			Type:   recommendation.TypeMeal,
		})

		require.NoError(t, err, "provider failures degrade to canned advice")
		assert.Contains(t, rec.Text(), "having trouble connecting")
		assert.Contains(t, rec.Text(), "2000 calorie goal")
		assert.Equal(t, "stub", rec.Context().Provider)
		assert.Empty(t, rec.Context().Model)

		listed, err := fix.svc.List(ctx, fix.userID, 10)
		require.NoError(t, err)
		assert.Len(t, listed, 1, "the fallback is stored like any recommendation")
	})

	t.Run("InvalidType_ReturnsValidationError", func(t *testing.T) {
		fix := newFixture(t)

		_, err := fix.svc.Recommend(ctx, inbound.RecommendCommand{
			UserID: fix.userID,
			Type:   recommendation.Type("dessert"),
		})

		assert.Equal(t, apperrors.CodeValidationFailed, appCode(t, err))
	})

	t.Run("UnknownUser_ReturnsUserNotFound", func(t *testing.T) {
		fix := newFixture(t)

		_, err := fix.svc.Recommend(ctx, inbound.RecommendCommand{
			UserID: uuid.New(),
			Type:   recommendation.TypeMeal,
		})

		assert.Equal(t, apperrors.CodeUserNotFound, appCode(t, err))
	})
}

func TestInsights(t *testing.T) {
	ctx := context.Background()

	t.Run("PatternsFlowIntoPrompt", func(t *testing.T) {
		fix := newFixture(t)
		now := time.Now()
		fix.logFood(t, "Banana", 89, food.MealTypeBreakfast, now.Add(-20*time.Hour))
		fix.logFood(t, "Chicken Breast", 165, food.MealTypeDinner, now.Add(-44*time.Hour))

		rec, err := fix.svc.Insights(ctx, fix.userID, 7)

		require.NoError(t, err)
		assert.Equal(t, recommendation.TypeInsight, rec.Type())
		require.Len(t, fix.provider.prompts, 1)
		assert.Contains(t, fix.provider.prompts[0], "breakfast")
		assert.Contains(t, fix.provider.prompts[0], "dinner")
	})

	t.Run("ProviderFailure_PersistsFallbackInsight", func(t *testing.T) {
		fix := newFixture(t)
		fix.provider.err = errors.New("provider unavailable")

		rec, err := fix.svc.Insights(ctx, fix.userID, 7)

		require.NoError(t, err)
		assert.Contains(t, rec.Text(), "trouble analyzing your eating patterns")
	})
}

func TestRate(t *testing.T) {
	ctx := context.Background()

	t.Run("OwnerRating_IsPersisted", func(t *testing.T) {
		fix := newFixture(t)
		rec, err := fix.svc.Recommend(ctx, inbound.RecommendCommand{UserID: fix.userID, Type: recommendation.TypeSnack})
		require.NoError(t, err)

		require.NoError(t, fix.svc.Rate(ctx, fix.userID, rec.ID(), recommendation.RatingDown))

		// Down-rated entries disappear from the list
		listed, err := fix.svc.List(ctx, fix.userID, 10)
		require.NoError(t, err)
		assert.Empty(t, listed)
	})

	t.Run("ForeignRecommendation_LooksNonexistent", func(t *testing.T) {
		fix := newFixture(t)
		rec, err := fix.svc.Recommend(ctx, inbound.RecommendCommand{UserID: fix.userID, Type: recommendation.TypeSnack})
		require.NoError(t, err)

		err = fix.svc.Rate(ctx, uuid.New(), rec.ID(), recommendation.RatingUp)

		assert.Equal(t, apperrors.CodeNotFound, appCode(t, err))
	})

	t.Run("InvalidRating_ReturnsValidationError", func(t *testing.T) {
		fix := newFixture(t)
		rec, err := fix.svc.Recommend(ctx, inbound.RecommendCommand{UserID: fix.userID, Type: recommendation.TypeSnack})
		require.NoError(t, err)

		err = fix.svc.Rate(ctx, fix.userID, rec.ID(), 5)

		assert.Equal(t, apperrors.CodeValidationFailed, appCode(t, err))
	})

	t.Run("UnknownRecommendation_ReturnsNotFound", func(t *testing.T) {
		fix := newFixture(t)

		err := fix.svc.Rate(ctx, fix.userID, uuid.New(), recommendation.RatingUp)

		assert.Equal(t, apperrors.CodeNotFound, appCode(t, err))
	})
}
