package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	aiService "github.com/platewise/v1/internal/application/ai"
	barcodeService "github.com/platewise/v1/internal/application/barcode"
	dashboardService "github.com/platewise/v1/internal/application/dashboard"
	"github.com/platewise/v1/internal/application/demo"
	foodService "github.com/platewise/v1/internal/application/food"
	userService "github.com/platewise/v1/internal/application/user"
	"github.com/platewise/v1/internal/domain/food"
	"github.com/platewise/v1/internal/infrastructure/config"
	"github.com/platewise/v1/internal/infrastructure/http/server"
	"github.com/platewise/v1/internal/infrastructure/monitoring"
	gormRepo "github.com/platewise/v1/internal/infrastructure/persistence/gorm"
	"github.com/platewise/v1/internal/infrastructure/persistence/memory"
	"github.com/platewise/v1/internal/infrastructure/security"
	"github.com/platewise/v1/internal/ports/outbound"
	"github.com/platewise/v1/pkg/healthcheck"
	"github.com/platewise/v1/test/testutils"
)

// The collector registers with the default Prometheus registry, so the
// test binary shares a single instance.
var testMetrics = monitoring.NewMetricsCollector(zap.NewNop())

const testBarcode = "737628064502"

type stubAI struct {
	text    string
	barcode string
}

func (s *stubAI) Complete(ctx context.Context, req outbound.CompletionRequest) (*outbound.Completion, error) {
	return &outbound.Completion{Text: s.text, Provider: "stub", Model: "stub-model"}, nil
}

func (s *stubAI) ExtractBarcode(ctx context.Context, imageData []byte, mimeType string) (string, error) {
	return s.barcode, nil
}

func (s *stubAI) Available() bool { return true }
func (s *stubAI) Name() string    { return "stub" }

type stubNutrition struct {
	products map[string]*outbound.Product
}

func (s *stubNutrition) ProductByBarcode(ctx context.Context, barcode string) (*outbound.Product, error) {
	return s.products[barcode], nil
}

func (s *stubNutrition) SearchByName(ctx context.Context, query string, limit int) ([]*outbound.Product, error) {
	return nil, nil
}

type env struct {
	router *gin.Engine
}

// newEnv wires the full router against an in-memory database with
// stubbed AI and nutrition providers.
func newEnv(t *testing.T, mutate func(cfg *config.Config)) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		App: config.AppConfig{
			Name:        "platewise",
			Version:     "test",
			Environment: "test",
		},
		Auth: config.AuthConfig{
			JWTSecret:         "test-secret-key-for-testing-only-32-bytes",
			JWTExpiration:     time.Hour,
			RefreshExpiration: 24 * time.Hour,
			BCryptCost:        4,
			Issuer:            "platewise-test",
			Audience:          "platewise-api",
		},
		Upload: config.UploadConfig{
			MaxFileSize:  1 << 20,
			AllowedTypes: []string{"image/jpeg", "image/png", "image/webp"},
		},
		Monitoring: config.MonitoringConfig{
			EnableMetrics:   true,
			MetricsPath:     "/metrics",
			HealthCheckPath: "/health",
			ReadinessPath:   "/ready",
		},
		RateLimit: config.RateLimitConfig{
			Enable:         false,
			RequestsPerMin: 60,
			BurstSize:      10,
		},
		Features: config.FeatureFlags{
			EnableAIRecommendations: true,
			EnableBarcodeScan:       true,
			EnableDemoData:          true,
		},
	}
	if mutate != nil {
		mutate(cfg)
	}

	db := testutils.NewTestDB(t)
	cache := memory.NewCacheRepository()
	auth := security.NewAuthService(cfg, zap.NewNop(), cache)

	users := gormRepo.NewUserRepository(db)
	foods := gormRepo.NewFoodRepository(db)
	logs := gormRepo.NewFoodLogRepository(db)
	plans := gormRepo.NewPlanRepository(db)
	recs := gormRepo.NewRecommendationRepository(db)

	ai := &stubAI{text: "Try a grilled salmon bowl with brown rice.", barcode: testBarcode}
	nutrition := &stubNutrition{products: map[string]*outbound.Product{
		testBarcode: {
			UPCCode: testBarcode,
			Name:    "Rice Noodles",
			Brand:   "Thai Kitchen",
			Nutrition: food.NutritionFacts{
				Calories: 365,
				Protein:  7,
				Carbs:    82,
				Fat:      1,
			},
			Source: food.SourceOpenFoodFacts,
		},
	}}

	foodSvc := foodService.NewService(foods, logs, nutrition, nil, cache, testMetrics, zap.NewNop())

	services := server.Services{
		Users:           userService.NewService(users, auth, testMetrics, zap.NewNop()),
		Foods:           foodSvc,
		Barcode:         barcodeService.NewService(ai, foodSvc, testMetrics, zap.NewNop()),
		Dashboard:       dashboardService.NewService(users, foods, logs, plans, recs, zap.NewNop()),
		Recommendations: aiService.NewService(users, foods, logs, recs, ai, testMetrics, zap.NewNop()),
		Demo:            demo.NewGenerator(foods, logs, 42, zap.NewNop()),
	}

	srv := server.NewServer(cfg, zap.NewNop(), services, auth,
		security.NewValidationService(zap.NewNop()), testMetrics,
		healthcheck.New("test", zap.NewNop()))

	return &env{router: srv.Router()}
}

func (e *env) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, target any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), target), w.Body.String())
}

type authPayload struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (e *env) register(t *testing.T, email string) authPayload {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    email,
		"name":     "Test User",
		"password": "supersecret1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp authPayload
	decode(t, w, &resp)
	return resp
}

func (e *env) createFood(t *testing.T, token, name string, calories float64) string {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/v1/foods", token, gin.H{
		"name":              name,
		"calories_per_100g": calories,
		"protein_per_100g":  10.0,
		"carbs_per_100g":    40.0,
		"fat_per_100g":      5.0,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		ID string `json:"id"`
	}
	decode(t, w, &resp)
	return resp.ID
}

func TestAuthEndpoints(t *testing.T) {
	e := newEnv(t, nil)

	account := e.register(t, "jane@example.com")
	assert.NotEmpty(t, account.AccessToken)
	assert.Equal(t, "jane@example.com", account.User.Email)

	t.Run("Login_ReturnsFreshTokenPair", func(t *testing.T) {
		w := e.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"email":    "jane@example.com",
			"password": "supersecret1",
		})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp authPayload
		decode(t, w, &resp)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
	})

	t.Run("Login_WrongPassword_Returns401", func(t *testing.T) {
		w := e.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"email":    "jane@example.com",
			"password": "wrongpassword1",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Refresh_RotatesAndRevokesOldToken", func(t *testing.T) {
		w := e.do(t, http.MethodPost, "/api/v1/auth/refresh", "", gin.H{
			"refresh_token": account.RefreshToken,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		again := e.do(t, http.MethodPost, "/api/v1/auth/refresh", "", gin.H{
			"refresh_token": account.RefreshToken,
		})
		assert.Equal(t, http.StatusUnauthorized, again.Code)
	})

	t.Run("Profile_RequiresToken", func(t *testing.T) {
		w := e.do(t, http.MethodGet, "/api/v1/users/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		authed := e.do(t, http.MethodGet, "/api/v1/users/me", account.AccessToken, nil)
		require.Equal(t, http.StatusOK, authed.Code, authed.Body.String())

		var profile struct {
			Email      string `json:"email"`
			DaysActive int    `json:"days_active"`
		}
		decode(t, authed, &profile)
		assert.Equal(t, "jane@example.com", profile.Email)
		assert.GreaterOrEqual(t, profile.DaysActive, 1, "accounts count their first day")
	})

	t.Run("UpdatePreferences_RoundTrips", func(t *testing.T) {
		w := e.do(t, http.MethodPut, "/api/v1/users/me/preferences", account.AccessToken, gin.H{
			"daily_calorie_goal":   1800,
			"dietary_restrictions": []string{"vegetarian"},
			"preferred_cuisine":    "thai",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Preferences struct {
				DailyCalorieGoal    int      `json:"daily_calorie_goal"`
				DietaryRestrictions []string `json:"dietary_restrictions"`
			} `json:"preferences"`
		}
		decode(t, w, &resp)
		assert.Equal(t, 1800, resp.Preferences.DailyCalorieGoal)
		assert.Equal(t, []string{"vegetarian"}, resp.Preferences.DietaryRestrictions)
	})

	t.Run("Register_InvalidPayload_Returns400", func(t *testing.T) {
		w := e.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
			"email":    "not-an-email",
			"name":     "X",
			"password": "short",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestFoodAndLogEndpoints(t *testing.T) {
	e := newEnv(t, nil)
	token := e.register(t, "log@example.com").AccessToken

	foodID := e.createFood(t, token, "Trail Mix", 400)

	t.Run("GetFood_ReturnsCreatedFood", func(t *testing.T) {
		w := e.do(t, http.MethodGet, "/api/v1/foods/"+foodID, token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Name      string `json:"name"`
			Source    string `json:"source"`
			Nutrition struct {
				Calories float64 `json:"calories_per_100g"`
			} `json:"nutrition"`
		}
		decode(t, w, &resp)
		assert.Equal(t, "Trail Mix", resp.Name)
		assert.Equal(t, "custom", resp.Source)
		assert.Equal(t, 400.0, resp.Nutrition.Calories)
	})

	t.Run("Search_FindsLocalCatalog", func(t *testing.T) {
		w := e.do(t, http.MethodGet, "/api/v1/foods/search?q=trail", token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Count int `json:"count"`
		}
		decode(t, w, &resp)
		assert.Equal(t, 1, resp.Count)
	})

	t.Run("LookupUPC_ResolvesViaExternalDatabase", func(t *testing.T) {
		w := e.do(t, http.MethodGet, "/api/v1/foods/upc/"+testBarcode, token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Name    string `json:"name"`
			UPCCode string `json:"upc_code"`
			Source  string `json:"source"`
		}
		decode(t, w, &resp)
		assert.Equal(t, "Rice Noodles", resp.Name)
		assert.Equal(t, testBarcode, resp.UPCCode)
		assert.Equal(t, "openfoodfacts", resp.Source)
	})

	t.Run("LookupUPC_UnknownBarcode_Returns404", func(t *testing.T) {
		w := e.do(t, http.MethodGet, "/api/v1/foods/upc/999999999999", token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("LogFood_ScalesCalories", func(t *testing.T) {
		w := e.do(t, http.MethodPost, "/api/v1/logs", token, gin.H{
			"food_id":   foodID,
			"quantity":  50.0,
			"meal_type": "lunch",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp struct {
			ID       string  `json:"id"`
			Calories float64 `json:"calories"`
			MealType string  `json:"meal_type"`
		}
		decode(t, w, &resp)
		assert.Equal(t, 200.0, resp.Calories)
		assert.Equal(t, "lunch", resp.MealType)

		update := e.do(t, http.MethodPut, "/api/v1/logs/"+resp.ID, token, gin.H{
			"quantity":  100.0,
			"meal_type": "dinner",
		})
		require.Equal(t, http.StatusOK, update.Code, update.Body.String())

		var updated struct {
			Calories float64 `json:"calories"`
			MealType string  `json:"meal_type"`
		}
		decode(t, update, &updated)
		assert.Equal(t, 400.0, updated.Calories)
		assert.Equal(t, "dinner", updated.MealType)
	})

	t.Run("History_PagesLogs", func(t *testing.T) {
		w := e.do(t, http.MethodGet, "/api/v1/logs?page=1&per_page=10", token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Total int `json:"total"`
			Page  int `json:"page"`
		}
		decode(t, w, &resp)
		assert.Equal(t, 1, resp.Total)
		assert.Equal(t, 1, resp.Page)
	})

	t.Run("LogFood_InvalidMealType_Returns400", func(t *testing.T) {
		w := e.do(t, http.MethodPost, "/api/v1/logs", token, gin.H{
			"food_id":   foodID,
			"quantity":  50.0,
			"meal_type": "brunch",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBarcodeScanEndpoint(t *testing.T) {
	e := newEnv(t, nil)
	token := e.register(t, "scan@example.com").AccessToken

	scan := func(t *testing.T, contentType string) *httptest.ResponseRecorder {
		t.Helper()

		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="image"; filename="label.jpg"`)
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/barcode/scan", &buf)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)

		w := httptest.NewRecorder()
		e.router.ServeHTTP(w, req)
		return w
	}

	t.Run("PhotoWithBarcode_ResolvesProduct", func(t *testing.T) {
		w := scan(t, "image/jpeg")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Barcode string `json:"barcode"`
			Food    struct {
				Name string `json:"name"`
			} `json:"food"`
		}
		decode(t, w, &resp)
		assert.Equal(t, testBarcode, resp.Barcode)
		assert.Equal(t, "Rice Noodles", resp.Food.Name)
	})

	t.Run("UnsupportedImageType_Returns400", func(t *testing.T) {
		w := scan(t, "image/gif")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("MissingImageField_Returns400", func(t *testing.T) {
		w := e.do(t, http.MethodPost, "/api/v1/barcode/scan", token, gin.H{"image": "x"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDashboardAndPlannerEndpoints(t *testing.T) {
	e := newEnv(t, nil)
	token := e.register(t, "dash@example.com").AccessToken

	foodID := e.createFood(t, token, "Oatmeal", 380)
	w := e.do(t, http.MethodPost, "/api/v1/logs", token, gin.H{
		"food_id":   foodID,
		"quantity":  100.0,
		"meal_type": "breakfast",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	t.Run("Dashboard_ShowsTodayTotals", func(t *testing.T) {
		w := e.do(t, http.MethodGet, "/api/v1/dashboard", token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Summary struct {
				Calories float64 `json:"calories"`
			} `json:"summary"`
			CalorieGoal int `json:"calorie_goal"`
			WeekSummary []struct {
				Calories float64 `json:"calories"`
			} `json:"week_summary"`
		}
		decode(t, w, &resp)
		assert.Equal(t, 380.0, resp.Summary.Calories)
		assert.Equal(t, 2000, resp.CalorieGoal)
		assert.Len(t, resp.WeekSummary, 7)
	})

	t.Run("Nutrition_ReturnsRequestedWindow", func(t *testing.T) {
		w := e.do(t, http.MethodGet, "/api/v1/dashboard/nutrition?days=3", token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Days []json.RawMessage `json:"days"`
		}
		decode(t, w, &resp)
		assert.Len(t, resp.Days, 3)
	})

	t.Run("Analytics_ReturnsAggregates", func(t *testing.T) {
		w := e.do(t, http.MethodGet, "/api/v1/dashboard/analytics", token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			DaysTracked int `json:"days_tracked"`
		}
		decode(t, w, &resp)
		assert.Equal(t, 1, resp.DaysTracked)
	})

	t.Run("Planner_SaveThenRead", func(t *testing.T) {
		date := time.Now().UTC().Format("2006-01-02")
		saved := e.do(t, http.MethodPost, "/api/v1/planner", token, gin.H{
			"date": date,
			"meals": gin.H{
				"lunch": []gin.H{{"food_name": "Salmon Bowl", "calories": 550}},
			},
			"goals": gin.H{"calories": 1900},
		})
		require.Equal(t, http.StatusOK, saved.Code, saved.Body.String())

		w := e.do(t, http.MethodGet, "/api/v1/planner?date="+date, token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Date string `json:"date"`
			Plan *struct {
				Meals map[string][]struct {
					FoodName string `json:"food_name"`
				} `json:"meals"`
			} `json:"plan"`
			Logged map[string][]json.RawMessage `json:"logged"`
		}
		decode(t, w, &resp)
		assert.Equal(t, date, resp.Date)
		require.NotNil(t, resp.Plan)
		require.Len(t, resp.Plan.Meals["lunch"], 1)
		assert.Equal(t, "Salmon Bowl", resp.Plan.Meals["lunch"][0].FoodName)
		assert.Len(t, resp.Logged["breakfast"], 1)
	})

	t.Run("Planner_BadDate_Returns400", func(t *testing.T) {
		w := e.do(t, http.MethodGet, "/api/v1/planner?date=03-02-2026", token, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAIEndpoints(t *testing.T) {
	e := newEnv(t, nil)
	token := e.register(t, "ai@example.com").AccessToken

	t.Run("Recommend_StoresAndLists", func(t *testing.T) {
		w := e.do(t, http.MethodPost, "/api/v1/ai/recommendation", token, gin.H{"type": "meal"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var rec struct {
			ID       string `json:"id"`
			Type     string `json:"type"`
			Text     string `json:"text"`
			Provider string `json:"provider"`
		}
		decode(t, w, &rec)
		assert.Equal(t, "meal", rec.Type)
		assert.Contains(t, rec.Text, "salmon")
		assert.Equal(t, "stub", rec.Provider)

		list := e.do(t, http.MethodGet, "/api/v1/ai/recommendations", token, nil)
		require.Equal(t, http.StatusOK, list.Code, list.Body.String())

		var listed struct {
			Recommendations []struct {
				ID string `json:"id"`
			} `json:"recommendations"`
		}
		decode(t, list, &listed)
		require.Len(t, listed.Recommendations, 1)
		assert.Equal(t, rec.ID, listed.Recommendations[0].ID)

		rate := e.do(t, http.MethodPost, "/api/v1/ai/recommendation/"+rec.ID+"/rate", token,
			gin.H{"rating": -1})
		require.Equal(t, http.StatusOK, rate.Code, rate.Body.String())

		hidden := e.do(t, http.MethodGet, "/api/v1/ai/recommendations", token, nil)
		decode(t, hidden, &listed)
		assert.Empty(t, listed.Recommendations)
	})

	t.Run("Insights_ReturnsStoredRecommendation", func(t *testing.T) {
		w := e.do(t, http.MethodPost, "/api/v1/ai/insights?days=7", token, nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var rec struct {
			Type string `json:"type"`
		}
		decode(t, w, &rec)
		assert.Equal(t, "insight", rec.Type)
	})

	t.Run("Rate_InvalidValue_Returns400", func(t *testing.T) {
		w := e.do(t, http.MethodPost, "/api/v1/ai/recommendation", token, gin.H{"type": "meal"})
		require.Equal(t, http.StatusCreated, w.Code)
		var rec struct {
			ID string `json:"id"`
		}
		decode(t, w, &rec)

		rate := e.do(t, http.MethodPost, "/api/v1/ai/recommendation/"+rec.ID+"/rate", token,
			gin.H{"rating": 5})
		assert.Equal(t, http.StatusBadRequest, rate.Code)
	})
}

func TestDemoGenerateEndpoint(t *testing.T) {
	e := newEnv(t, nil)
	token := e.register(t, "demo@example.com").AccessToken
	e.createFood(t, token, "Oatmeal", 380)

	w := e.do(t, http.MethodPost, "/api/v1/demo/generate?months=1", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		LogsCreated  int `json:"logs_created"`
		DaysWithLogs int `json:"days_with_logs"`
	}
	decode(t, w, &resp)
	assert.Positive(t, resp.LogsCreated)
	assert.Positive(t, resp.DaysWithLogs)
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	e := newEnv(t, nil)

	for _, path := range []string{"/health", "/live", "/ready", "/metrics"} {
		w := e.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestFeatureFlags(t *testing.T) {
	t.Run("MaintenanceMode_Returns503ForAPIOnly", func(t *testing.T) {
		e := newEnv(t, func(cfg *config.Config) {
			cfg.Features.MaintenanceMode = true
		})

		api := e.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"email":    "jane@example.com",
			"password": "supersecret1",
		})
		assert.Equal(t, http.StatusServiceUnavailable, api.Code)

		probe := e.do(t, http.MethodGet, "/health", "", nil)
		assert.Equal(t, http.StatusOK, probe.Code)
	})

	t.Run("DisabledAI_RemovesRoutes", func(t *testing.T) {
		e := newEnv(t, func(cfg *config.Config) {
			cfg.Features.EnableAIRecommendations = false
		})
		token := e.register(t, "flags@example.com").AccessToken

		w := e.do(t, http.MethodPost, "/api/v1/ai/recommendation", token, gin.H{"type": "meal"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("DisabledBarcodeScan_RemovesRoute", func(t *testing.T) {
		e := newEnv(t, func(cfg *config.Config) {
			cfg.Features.EnableBarcodeScan = false
		})
		token := e.register(t, "noscan@example.com").AccessToken

		w := e.do(t, http.MethodPost, "/api/v1/barcode/scan", token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
