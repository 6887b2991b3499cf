package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/platewise/v1/internal/domain/recommendation"
	"github.com/platewise/v1/internal/infrastructure/security"
	"github.com/platewise/v1/internal/ports/inbound"
	apperrors "github.com/platewise/v1/pkg/errors"
)

// AIHandlers handles AI recommendation API requests
type AIHandlers struct {
	recommendations inbound.RecommendationService
	validator       *security.ValidationService
	logger          *zap.Logger
}

// NewAIHandlers creates a new AI handlers instance
func NewAIHandlers(recommendations inbound.RecommendationService, validator *security.ValidationService, logger *zap.Logger) *AIHandlers {
	return &AIHandlers{
		recommendations: recommendations,
		validator:       validator,
		logger:          logger,
	}
}

// RecommendRequest represents a recommendation request
type RecommendRequest struct {
	Type     string `json:"type" validate:"omitempty,oneof=meal snack alternative insight"`
	FoodName string `json:"food_name" validate:"max=200"`
}

// Recommend handles POST /api/v1/ai/recommendation
func (h *AIHandlers) Recommend(c *gin.Context) {
	userID, err := security.UserID(c)
	if err != nil {
		respondError(c, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewBadRequestError("invalid JSON payload"))
		return
	}
	if err := h.validator.Validate(req); err != nil {
		respondError(c, apperrors.NewValidationError(err.Error()))
		return
	}
	if req.Type == "" {
		req.Type = string(recommendation.TypeMeal)
	}

	rec, err := h.recommendations.Recommend(c.Request.Context(), inbound.RecommendCommand{
		UserID:   userID,
		Type:     recommendation.Type(req.Type),
		FoodName: req.FoodName,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRecommendationResponse(rec))
}

// Insights handles POST /api/v1/ai/insights
func (h *AIHandlers) Insights(c *gin.Context) {
	userID, err := security.UserID(c)
	if err != nil {
		respondError(c, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))

	rec, err := h.recommendations.Insights(c.Request.Context(), userID, days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRecommendationResponse(rec))
}

// RateRequest represents a recommendation rating request
type RateRequest struct {
	Rating int `json:"rating" validate:"required,oneof=1 -1"`
}

// Rate handles POST /api/v1/ai/recommendation/:id/rate
func (h *AIHandlers) Rate(c *gin.Context) {
	userID, err := security.UserID(c)
	if err != nil {
		respondError(c, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	recID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.NewBadRequestError("invalid recommendation id"))
		return
	}

	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewBadRequestError("invalid JSON payload"))
		return
	}
	if req.Rating != recommendation.RatingUp && req.Rating != recommendation.RatingDown {
		respondError(c, apperrors.NewValidationError("rating must be 1 or -1"))
		return
	}

	if err := h.recommendations.Rate(c.Request.Context(), userID, recID, req.Rating); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rating saved"})
}

// List handles GET /api/v1/ai/recommendations
func (h *AIHandlers) List(c *gin.Context) {
	userID, err := security.UserID(c)
	if err != nil {
		respondError(c, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	recs, err := h.recommendations.List(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": toRecommendationResponses(recs)})
}
