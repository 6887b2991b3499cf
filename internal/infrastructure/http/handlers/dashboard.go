package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/platewise/v1/internal/domain/plan"
	"github.com/platewise/v1/internal/infrastructure/security"
	"github.com/platewise/v1/internal/ports/inbound"
	apperrors "github.com/platewise/v1/pkg/errors"
)

// DashboardHandlers handles dashboard and planner API requests
type DashboardHandlers struct {
	dashboard inbound.DashboardService
	validator *security.ValidationService
	logger    *zap.Logger
}

// NewDashboardHandlers creates a new dashboard handlers instance
func NewDashboardHandlers(dashboard inbound.DashboardService, validator *security.ValidationService, logger *zap.Logger) *DashboardHandlers {
	return &DashboardHandlers{
		dashboard: dashboard,
		validator: validator,
		logger:    logger,
	}
}

// Today handles GET /api/v1/dashboard
func (h *DashboardHandlers) Today(c *gin.Context) {
	userID, err := security.UserID(c)
	if err != nil {
		respondError(c, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	summary, err := h.dashboard.Today(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary":         summary.Summary,
		"calorie_goal":    summary.CalorieGoal,
		"entries":         toLogEntryResponses(summary.Entries),
		"recommendations": toRecommendationResponses(summary.Recommendations),
		"week_summary":    summary.WeekSummary,
	})
}

// Nutrition handles GET /api/v1/dashboard/nutrition
func (h *DashboardHandlers) Nutrition(c *gin.Context) {
	userID, err := security.UserID(c)
	if err != nil {
		respondError(c, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))

	summaries, err := h.dashboard.Nutrition(c.Request.Context(), userID, days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": summaries})
}

// Analytics handles GET /api/v1/dashboard/analytics
func (h *DashboardHandlers) Analytics(c *gin.Context) {
	userID, err := security.UserID(c)
	if err != nil {
		respondError(c, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	analytics, err := h.dashboard.Analytics(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// Planner handles GET /api/v1/planner
func (h *DashboardHandlers) Planner(c *gin.Context) {
	userID, err := security.UserID(c)
	if err != nil {
		respondError(c, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	date, err := parseDate(c, "date")
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.dashboard.Planner(c.Request.Context(), userID, date)
	if err != nil {
		respondError(c, err)
		return
	}

	logged := make(map[string][]LogEntryResponse, len(view.Logged))
	for meal, entries := range view.Logged {
		logged[meal] = toLogEntryResponses(entries)
	}

	c.JSON(http.StatusOK, gin.H{
		"date":   view.Date.Format("2006-01-02"),
		"plan":   toPlanResponse(view.Plan),
		"logged": logged,
	})
}

// SavePlanRequest represents a daily plan save request
type SavePlanRequest struct {
	Date  string                        `json:"date" validate:"required"`
	Meals map[string][]plan.PlannedMeal `json:"meals" validate:"required"`
	Goals plan.Goals                    `json:"goals"`
}

// SavePlan handles POST /api/v1/planner
func (h *DashboardHandlers) SavePlan(c *gin.Context) {
	userID, err := security.UserID(c)
	if err != nil {
		respondError(c, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	var req SavePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewBadRequestError("invalid JSON payload"))
		return
	}
	if err := h.validator.Validate(req); err != nil {
		respondError(c, apperrors.NewValidationError(err.Error()))
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		respondError(c, apperrors.NewBadRequestError("date must be in YYYY-MM-DD format"))
		return
	}

	for meal := range req.Meals {
		if !validMealName(meal) {
			respondError(c, apperrors.NewValidationError("meals keys must be breakfast, lunch, dinner or snack"))
			return
		}
	}

	saved, err := h.dashboard.SavePlan(c.Request.Context(), inbound.SavePlanCommand{
		UserID: userID,
		Date:   date,
		Meals:  req.Meals,
		Goals:  req.Goals,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPlanResponse(saved))
}

func validMealName(name string) bool {
	switch name {
	case "breakfast", "lunch", "dinner", "snack":
		return true
	}
	return false
}
