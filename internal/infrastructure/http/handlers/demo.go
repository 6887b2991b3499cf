package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/platewise/v1/internal/application/demo"
	"github.com/platewise/v1/internal/infrastructure/security"
	apperrors "github.com/platewise/v1/pkg/errors"
)

// DemoHandlers handles demo data generation requests
type DemoHandlers struct {
	generator *demo.Generator
	logger    *zap.Logger
}

// NewDemoHandlers creates a new demo handlers instance
func NewDemoHandlers(generator *demo.Generator, logger *zap.Logger) *DemoHandlers {
	return &DemoHandlers{
		generator: generator,
		logger:    logger,
	}
}

// Generate handles POST /api/v1/demo/generate. It backfills months of
// realistic food logs for the authenticated user.
func (h *DemoHandlers) Generate(c *gin.Context) {
	userID, err := security.UserID(c)
	if err != nil {
		respondError(c, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	months, _ := strconv.Atoi(c.DefaultQuery("months", "6"))
	if months < 1 || months > 12 {
		respondError(c, apperrors.NewValidationError("months must be between 1 and 12"))
		return
	}

	result, err := h.generator.Generate(c.Request.Context(), userID, months)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}
