package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/platewise/v1/internal/domain/user"
	"github.com/platewise/v1/internal/infrastructure/security"
	"github.com/platewise/v1/internal/ports/inbound"
	apperrors "github.com/platewise/v1/pkg/errors"
)

// AuthHandlers handles authentication API requests
type AuthHandlers struct {
	users     inbound.UserService
	validator *security.ValidationService
	logger    *zap.Logger
}

// NewAuthHandlers creates a new authentication handlers instance
func NewAuthHandlers(users inbound.UserService, validator *security.ValidationService, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{
		users:     users,
		validator: validator,
		logger:    logger,
	}
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Password string `json:"password" validate:"required,strong_password"`
}

// LoginRequest represents a user login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the refresh token to exchange
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse represents an authentication response with tokens
type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewBadRequestError("invalid JSON payload"))
		return
	}
	if err := h.validator.Validate(req); err != nil {
		respondError(c, apperrors.NewValidationError(err.Error()))
		return
	}

	result, err := h.users.Register(c.Request.Context(), inbound.RegisterCommand{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		User:         toUserResponse(result.User),
	})
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewBadRequestError("invalid JSON payload"))
		return
	}
	if err := h.validator.Validate(req); err != nil {
		respondError(c, apperrors.NewValidationError(err.Error()))
		return
	}

	result, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		User:         toUserResponse(result.User),
	})
}

// Refresh handles POST /api/v1/auth/refresh
func (h *AuthHandlers) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewBadRequestError("invalid JSON payload"))
		return
	}

	result, err := h.users.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		User:         toUserResponse(result.User),
	})
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandlers) Logout(c *gin.Context) {
	tokenID := c.GetString("token_id")
	if err := h.users.Logout(c.Request.Context(), tokenID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Profile handles GET /api/v1/users/me
func (h *AuthHandlers) Profile(c *gin.Context) {
	userID, err := security.UserID(c)
	if err != nil {
		respondError(c, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	u, err := h.users.Profile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(u))
}

// UpdateProfileRequest represents a profile update request
type UpdateProfileRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=100"`
	PictureURL string `json:"picture_url" validate:"omitempty,url"`
}

// UpdateProfile handles PUT /api/v1/users/me
func (h *AuthHandlers) UpdateProfile(c *gin.Context) {
	userID, err := security.UserID(c)
	if err != nil {
		respondError(c, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewBadRequestError("invalid JSON payload"))
		return
	}
	if err := h.validator.Validate(req); err != nil {
		respondError(c, apperrors.NewValidationError(err.Error()))
		return
	}

	u, err := h.users.UpdateProfile(c.Request.Context(), userID, req.Name, req.PictureURL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(u))
}

// UpdatePreferencesRequest represents a preferences update request
type UpdatePreferencesRequest struct {
	DailyCalorieGoal    int      `json:"daily_calorie_goal" validate:"required,min=500,max=10000"`
	DietaryRestrictions []string `json:"dietary_restrictions" validate:"dive,oneof=vegetarian vegan gluten_free dairy_free keto paleo halal kosher"`
	PreferredCuisine    string   `json:"preferred_cuisine" validate:"max=50"`
}

// UpdatePreferences handles PUT /api/v1/users/me/preferences
func (h *AuthHandlers) UpdatePreferences(c *gin.Context) {
	userID, err := security.UserID(c)
	if err != nil {
		respondError(c, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewBadRequestError("invalid JSON payload"))
		return
	}
	if err := h.validator.Validate(req); err != nil {
		respondError(c, apperrors.NewValidationError(err.Error()))
		return
	}

	restrictions := make([]user.DietaryRestriction, 0, len(req.DietaryRestrictions))
	for _, r := range req.DietaryRestrictions {
		restrictions = append(restrictions, user.DietaryRestriction(r))
	}

	u, err := h.users.UpdatePreferences(c.Request.Context(), userID, user.Preferences{
		DailyCalorieGoal:    req.DailyCalorieGoal,
		DietaryRestrictions: restrictions,
		PreferredCuisine:    req.PreferredCuisine,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(u))
}
