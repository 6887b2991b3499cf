package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/platewise/v1/internal/domain/food"
	"github.com/platewise/v1/internal/infrastructure/security"
	"github.com/platewise/v1/internal/ports/inbound"
	apperrors "github.com/platewise/v1/pkg/errors"
)

// FoodHandlers handles food catalog and logging API requests
type FoodHandlers struct {
	foods     inbound.FoodService
	validator *security.ValidationService
	logger    *zap.Logger
}

// NewFoodHandlers creates a new food handlers instance
func NewFoodHandlers(foods inbound.FoodService, validator *security.ValidationService, logger *zap.Logger) *FoodHandlers {
	return &FoodHandlers{
		foods:     foods,
		validator: validator,
		logger:    logger,
	}
}

// Search handles GET /api/v1/foods/search
func (h *FoodHandlers) Search(c *gin.Context) {
	query := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	results, err := h.foods.Search(c.Request.Context(), query, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	foods := make([]FoodResponse, 0, len(results))
	for _, f := range results {
		foods = append(foods, toFoodResponse(f))
	}
	c.JSON(http.StatusOK, gin.H{"foods": foods, "count": len(foods)})
}

// LookupUPC handles GET /api/v1/foods/upc/:code
func (h *FoodHandlers) LookupUPC(c *gin.Context) {
	f, err := h.foods.LookupUPC(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFoodResponse(f))
}

// GetFood handles GET /api/v1/foods/:id
func (h *FoodHandlers) GetFood(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.NewBadRequestError("invalid food id"))
		return
	}

	f, err := h.foods.GetFood(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFoodResponse(f))
}

// CreateFoodRequest represents a custom food creation request
type CreateFoodRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Brand       string  `json:"brand" validate:"max=100"`
	Ingredients string  `json:"ingredients" validate:"max=2000"`
	Calories    float64 `json:"calories_per_100g" validate:"min=0"`
	Protein     float64 `json:"protein_per_100g" validate:"min=0"`
	Carbs       float64 `json:"carbs_per_100g" validate:"min=0"`
	Fat         float64 `json:"fat_per_100g" validate:"min=0"`
	Fiber       float64 `json:"fiber_per_100g" validate:"min=0"`
	Sugar       float64 `json:"sugar_per_100g" validate:"min=0"`
	Sodium      float64 `json:"sodium_per_100g" validate:"min=0"`
}

// CreateFood handles POST /api/v1/foods
func (h *FoodHandlers) CreateFood(c *gin.Context) {
	var req CreateFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewBadRequestError("invalid JSON payload"))
		return
	}
	if err := h.validator.Validate(req); err != nil {
		respondError(c, apperrors.NewValidationError(err.Error()))
		return
	}

	f, err := h.foods.CreateCustom(c.Request.Context(), inbound.CreateFoodCommand{
		Name:        req.Name,
		Brand:       req.Brand,
		Ingredients: req.Ingredients,
		Nutrition: food.NutritionFacts{
			Calories: req.Calories,
			Protein:  req.Protein,
			Carbs:    req.Carbs,
			Fat:      req.Fat,
			Fiber:    req.Fiber,
			Sugar:    req.Sugar,
			Sodium:   req.Sodium,
		},
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toFoodResponse(f))
}

// LogFoodRequest represents a food logging request
type LogFoodRequest struct {
	FoodID   string  `json:"food_id" validate:"required,uuid"`
	Quantity float64 `json:"quantity" validate:"required,gt=0"`
	MealType string  `json:"meal_type" validate:"required,meal_type"`
	Notes    string  `json:"notes" validate:"max=500"`
}

// LogFood handles POST /api/v1/logs
func (h *FoodHandlers) LogFood(c *gin.Context) {
	userID, err := security.UserID(c)
	if err != nil {
		respondError(c, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	var req LogFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewBadRequestError("invalid JSON payload"))
		return
	}
	if err := h.validator.Validate(req); err != nil {
		respondError(c, apperrors.NewValidationError(err.Error()))
		return
	}

	foodID, err := uuid.Parse(req.FoodID)
	if err != nil {
		respondError(c, apperrors.NewBadRequestError("invalid food id"))
		return
	}

	entry, err := h.foods.LogFood(c.Request.Context(), inbound.LogFoodCommand{
		UserID:   userID,
		FoodID:   foodID,
		Quantity: req.Quantity,
		MealType: food.MealType(req.MealType),
		Notes:    req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toLogEntryResponse(*entry))
}

// History handles GET /api/v1/logs
func (h *FoodHandlers) History(c *gin.Context) {
	userID, err := security.UserID(c)
	if err != nil {
		respondError(c, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "0"))

	result, err := h.foods.History(c.Request.Context(), userID, page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":        toLogEntryResponses(result.Entries),
		"total":       result.Total,
		"page":        result.Page,
		"per_page":    result.PerPage,
		"total_pages": result.TotalPages,
	})
}

// UpdateLogRequest represents a food log update request
type UpdateLogRequest struct {
	Quantity float64 `json:"quantity" validate:"required,gt=0"`
	MealType string  `json:"meal_type" validate:"required,meal_type"`
	Notes    string  `json:"notes" validate:"max=500"`
}

// UpdateLog handles PUT /api/v1/logs/:id
func (h *FoodHandlers) UpdateLog(c *gin.Context) {
	userID, err := security.UserID(c)
	if err != nil {
		respondError(c, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	logID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.NewBadRequestError("invalid log id"))
		return
	}

	var req UpdateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewBadRequestError("invalid JSON payload"))
		return
	}
	if err := h.validator.Validate(req); err != nil {
		respondError(c, apperrors.NewValidationError(err.Error()))
		return
	}

	entry, err := h.foods.UpdateLog(c.Request.Context(), userID, logID,
		req.Quantity, food.MealType(req.MealType), req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLogEntryResponse(*entry))
}

// DeleteLog handles DELETE /api/v1/logs/:id
func (h *FoodHandlers) DeleteLog(c *gin.Context) {
	userID, err := security.UserID(c)
	if err != nil {
		respondError(c, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	logID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.NewBadRequestError("invalid log id"))
		return
	}

	if err := h.foods.DeleteLog(c.Request.Context(), userID, logID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "log deleted"})
}
