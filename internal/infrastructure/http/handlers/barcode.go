package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/platewise/v1/internal/infrastructure/config"
	"github.com/platewise/v1/internal/ports/inbound"
	apperrors "github.com/platewise/v1/pkg/errors"
)

// BarcodeHandlers handles barcode photo scanning requests
type BarcodeHandlers struct {
	scanner inbound.BarcodeService
	config  *config.Config
	logger  *zap.Logger
}

// NewBarcodeHandlers creates a new barcode handlers instance
func NewBarcodeHandlers(scanner inbound.BarcodeService, cfg *config.Config, logger *zap.Logger) *BarcodeHandlers {
	return &BarcodeHandlers{
		scanner: scanner,
		config:  cfg,
		logger:  logger,
	}
}

// Scan handles POST /api/v1/barcode/scan. The photo is sent as the
// "image" field of a multipart form.
func (h *BarcodeHandlers) Scan(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		respondError(c, apperrors.NewBadRequestError("image file is required"))
		return
	}

	if header.Size > h.config.Upload.MaxFileSize {
		respondError(c, apperrors.NewBadRequestError(
			fmt.Sprintf("image exceeds the %d byte limit", h.config.Upload.MaxFileSize)))
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if !h.allowedType(mimeType) {
		respondError(c, apperrors.NewBadRequestError("unsupported image type"))
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, apperrors.NewInternalError("failed to read uploaded image"))
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(io.LimitReader(file, h.config.Upload.MaxFileSize+1))
	if err != nil {
		respondError(c, apperrors.NewInternalError("failed to read uploaded image"))
		return
	}
	if int64(len(imageData)) > h.config.Upload.MaxFileSize {
		respondError(c, apperrors.NewBadRequestError(
			fmt.Sprintf("image exceeds the %d byte limit", h.config.Upload.MaxFileSize)))
		return
	}

	result, err := h.scanner.Scan(c.Request.Context(), imageData, mimeType)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"barcode": result.Barcode,
		"food":    toFoodResponse(result.Food),
	})
}

func (h *BarcodeHandlers) allowedType(mimeType string) bool {
	for _, allowed := range h.config.Upload.AllowedTypes {
		if allowed == mimeType {
			return true
		}
	}
	return false
}
