// Package barcode implements the barcode photo scanning use case
package barcode

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/platewise/v1/internal/infrastructure/monitoring"
	"github.com/platewise/v1/internal/ports/inbound"
	"github.com/platewise/v1/internal/ports/outbound"
	apperrors "github.com/platewise/v1/pkg/errors"
)

// Service implements inbound.BarcodeService
type Service struct {
	ai      outbound.AIService
	foods   inbound.FoodService
	metrics *monitoring.MetricsCollector
	logger  *zap.Logger
}

// NewService creates a new barcode scanning service
func NewService(
	ai outbound.AIService,
	foods inbound.FoodService,
	metrics *monitoring.MetricsCollector,
	logger *zap.Logger,
) inbound.BarcodeService {
	return &Service{
		ai:      ai,
		foods:   foods,
		metrics: metrics,
		logger:  logger.Named("barcode-service"),
	}
}

// Scan extracts the barcode digits from a product photo and resolves
// the product through the nutrition databases.
func (s *Service) Scan(ctx context.Context, imageData []byte, mimeType string) (*inbound.ScanResult, error) {
	if len(imageData) == 0 {
		return nil, apperrors.NewBadRequestError("image data is required")
	}
	if !s.ai.Available() {
		s.metrics.BarcodeScan("unavailable")
		return nil, apperrors.NewExternalServiceError("ai provider",
			apperrors.NewInternalError("no ai provider is configured"))
	}

	start := time.Now()
	barcode, err := s.ai.ExtractBarcode(ctx, imageData, mimeType)
	s.metrics.AIRequest(s.ai.Name(), "vision", statusOf(err), time.Since(start))
	if err != nil {
		s.logger.Error("barcode extraction failed", zap.Error(err))
		s.metrics.BarcodeScan("error")
		return nil, apperrors.NewExternalServiceError("ai provider", err)
	}
	if barcode == "" {
		s.metrics.BarcodeScan("not_detected")
		return nil, apperrors.NewBarcodeNotDetectedError()
	}

	s.logger.Debug("barcode extracted", zap.String("barcode", barcode))

	f, err := s.foods.LookupUPC(ctx, barcode)
	if err != nil {
		s.metrics.BarcodeScan("unknown_product")
		return nil, err
	}

	s.metrics.BarcodeScan("ok")
	return &inbound.ScanResult{Barcode: barcode, Food: f}, nil
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
