// Package food implements food catalog and logging use cases
package food

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/platewise/v1/internal/domain/food"
	"github.com/platewise/v1/internal/infrastructure/monitoring"
	"github.com/platewise/v1/internal/ports/inbound"
	"github.com/platewise/v1/internal/ports/outbound"
	apperrors "github.com/platewise/v1/pkg/errors"
)

const (
	defaultSearchLimit = 10
	defaultPageSize    = 20
	maxPageSize        = 100

	upcCacheTTL = 24 * time.Hour
)

// Service implements inbound.FoodService
type Service struct {
	foods     outbound.FoodRepository
	logs      outbound.FoodLogRepository
	nutrition outbound.NutritionAPI
	fallback  outbound.NutritionAPI
	cache     outbound.CacheRepository
	metrics   *monitoring.MetricsCollector
	logger    *zap.Logger
}

// NewService creates a new food service. The fallback nutrition API may be
// nil when no secondary database is configured.
func NewService(
	foods outbound.FoodRepository,
	logs outbound.FoodLogRepository,
	nutrition outbound.NutritionAPI,
	fallback outbound.NutritionAPI,
	cache outbound.CacheRepository,
	metrics *monitoring.MetricsCollector,
	logger *zap.Logger,
) inbound.FoodService {
	return &Service{
		foods:     foods,
		logs:      logs,
		nutrition: nutrition,
		fallback:  fallback,
		cache:     cache,
		metrics:   metrics,
		logger:    logger.Named("food-service"),
	}
}

// Search looks up foods by name. The local catalog is consulted first;
// when it has no match the external databases are queried and any hits
// are persisted so subsequent searches stay local.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]*food.Food, error) {
	if query == "" {
		return nil, apperrors.NewBadRequestError("search query is required")
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	local, err := s.foods.SearchByName(ctx, query, limit)
	if err != nil {
		return nil, apperrors.NewDatabaseError("search foods", err)
	}
	if len(local) > 0 {
		return local, nil
	}

	products, err := s.nutrition.SearchByName(ctx, query, limit)
	if err != nil {
		s.metrics.NutritionLookup("openfoodfacts", "error")
		s.logger.Warn("external food search failed",
			zap.String("query", query), zap.Error(err))
		products = nil
	}
	if len(products) == 0 && s.fallback != nil {
		products, err = s.fallback.SearchByName(ctx, query, limit)
		if err != nil {
			s.metrics.NutritionLookup("edamam", "error")
			s.logger.Warn("fallback food search failed",
				zap.String("query", query), zap.Error(err))
			products = nil
		}
	}
	if len(products) == 0 {
		return []*food.Food{}, nil
	}
	s.metrics.NutritionLookup(string(products[0].Source), "hit")

	results := make([]*food.Food, 0, len(products))
	for _, p := range products {
		f, err := s.persistProduct(ctx, p)
		if err != nil {
			s.logger.Warn("failed to store external food",
				zap.String("name", p.Name), zap.Error(err))
			continue
		}
		results = append(results, f)
	}
	return results, nil
}

// LookupUPC resolves a barcode to a food, consulting the external
// databases when the code is not in the local catalog.
func (s *Service) LookupUPC(ctx context.Context, upcCode string) (*food.Food, error) {
	if err := food.ValidateUPC(upcCode); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if f := s.cachedUPC(ctx, upcCode); f != nil {
		return f, nil
	}

	f, err := s.foods.FindByUPC(ctx, upcCode)
	if err == nil {
		s.rememberUPC(ctx, upcCode, f.ID())
		return f, nil
	}
	if !errors.Is(err, food.ErrFoodNotFound) {
		return nil, apperrors.NewDatabaseError("find food by upc", err)
	}

	product, err := s.nutrition.ProductByBarcode(ctx, upcCode)
	if err != nil {
		s.metrics.NutritionLookup("openfoodfacts", "error")
		return nil, apperrors.NewExternalServiceError("nutrition database", err)
	}
	if product == nil && s.fallback != nil {
		product, err = s.fallback.ProductByBarcode(ctx, upcCode)
		if err != nil {
			s.metrics.NutritionLookup("edamam", "error")
			s.logger.Warn("fallback barcode lookup failed",
				zap.String("upc", upcCode), zap.Error(err))
			product = nil
		}
	}
	if product == nil {
		s.metrics.NutritionLookup("openfoodfacts", "miss")
		return nil, apperrors.NewProductNotFoundError(upcCode)
	}
	s.metrics.NutritionLookup(string(product.Source), "hit")

	f, err = s.persistProduct(ctx, product)
	if err != nil {
		return nil, err
	}
	s.rememberUPC(ctx, upcCode, f.ID())
	return f, nil
}

// CreateCustom adds a user-entered food to the catalog
func (s *Service) CreateCustom(ctx context.Context, cmd inbound.CreateFoodCommand) (*food.Food, error) {
	f, err := food.NewFood(cmd.Name, cmd.Brand, cmd.Ingredients, "", cmd.Nutrition, food.SourceCustom)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := s.foods.Create(ctx, f); err != nil {
		return nil, apperrors.NewDatabaseError("create food", err)
	}
	return f, nil
}

// GetFood returns a single food by ID
func (s *Service) GetFood(ctx context.Context, id uuid.UUID) (*food.Food, error) {
	f, err := s.foods.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, food.ErrFoodNotFound) {
			return nil, apperrors.NewFoodNotFoundError(id.String())
		}
		return nil, apperrors.NewDatabaseError("find food", err)
	}
	return f, nil
}

// LogFood records a food intake for a user
func (s *Service) LogFood(ctx context.Context, cmd inbound.LogFoodCommand) (*inbound.LogEntry, error) {
	f, err := s.GetFood(ctx, cmd.FoodID)
	if err != nil {
		return nil, err
	}

	log, err := food.NewLog(cmd.UserID, cmd.FoodID, cmd.Quantity, cmd.MealType, cmd.Notes)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := s.logs.Create(ctx, log); err != nil {
		return nil, apperrors.NewDatabaseError("create food log", err)
	}

	s.metrics.FoodLogged(string(cmd.MealType))
	s.logger.Debug("food logged",
		zap.String("user_id", cmd.UserID.String()),
		zap.String("food", f.Name()),
		zap.Float64("quantity", cmd.Quantity))

	return s.toEntry(log, f), nil
}

// History returns one page of a user's food log, newest first
func (s *Service) History(ctx context.Context, userID uuid.UUID, page, perPage int) (*inbound.LogPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = defaultPageSize
	}
	if perPage > maxPageSize {
		perPage = maxPageSize
	}

	logs, total, err := s.logs.FindByUser(ctx, userID, (page-1)*perPage, perPage)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list food logs", err)
	}

	entries, err := s.resolveEntries(ctx, logs)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	return &inbound.LogPage{
		Entries:    entries,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}, nil
}

// UpdateLog changes the quantity, meal type or notes of a food log.
// Only the owner may modify a log.
func (s *Service) UpdateLog(ctx context.Context, userID, logID uuid.UUID, quantity float64, mealType food.MealType, notes string) (*inbound.LogEntry, error) {
	log, err := s.ownedLog(ctx, userID, logID)
	if err != nil {
		return nil, err
	}

	if err := log.Update(quantity, mealType, notes); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := s.logs.Update(ctx, log); err != nil {
		return nil, apperrors.NewDatabaseError("update food log", err)
	}

	f, err := s.GetFood(ctx, log.FoodID())
	if err != nil {
		return nil, err
	}
	return s.toEntry(log, f), nil
}

// DeleteLog removes a food log. Only the owner may delete a log.
func (s *Service) DeleteLog(ctx context.Context, userID, logID uuid.UUID) error {
	if _, err := s.ownedLog(ctx, userID, logID); err != nil {
		return err
	}
	if err := s.logs.Delete(ctx, logID); err != nil {
		return apperrors.NewDatabaseError("delete food log", err)
	}
	return nil
}

func (s *Service) ownedLog(ctx context.Context, userID, logID uuid.UUID) (*food.Log, error) {
	log, err := s.logs.FindByID(ctx, logID)
	if err != nil {
		if errors.Is(err, food.ErrFoodLogNotFound) {
			return nil, apperrors.NewFoodLogNotFoundError(logID.String())
		}
		return nil, apperrors.NewDatabaseError("find food log", err)
	}
	if !log.OwnedBy(userID) {
		// hide the existence of other users' logs
		return nil, apperrors.NewFoodLogNotFoundError(logID.String())
	}
	return log, nil
}

// persistProduct stores an externally sourced product in the local
// catalog, deduplicating on UPC code.
func (s *Service) persistProduct(ctx context.Context, p *outbound.Product) (*food.Food, error) {
	f, err := food.NewFood(p.Name, p.Brand, p.Ingredients, p.UPCCode, p.Nutrition, p.Source)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if p.Quality != nil {
		f.SetQuality(p.Quality)
	}

	stored, err := s.foods.Upsert(ctx, f)
	if err != nil {
		return nil, apperrors.NewDatabaseError("store food", err)
	}
	return stored, nil
}

func (s *Service) resolveEntries(ctx context.Context, logs []*food.Log) ([]inbound.LogEntry, error) {
	entries := make([]inbound.LogEntry, 0, len(logs))
	for _, log := range logs {
		f, err := s.foods.FindByID(ctx, log.FoodID())
		if err != nil {
			if errors.Is(err, food.ErrFoodNotFound) {
				// food record removed out from under the log, skip it
				continue
			}
			return nil, apperrors.NewDatabaseError("find food", err)
		}
		entries = append(entries, *s.toEntry(log, f))
	}
	return entries, nil
}

func (s *Service) toEntry(log *food.Log, f *food.Food) *inbound.LogEntry {
	return &inbound.LogEntry{
		Log:      log,
		Food:     f,
		Calories: f.CaloriesFor(log.Quantity()),
	}
}

func (s *Service) cachedUPC(ctx context.Context, upcCode string) *food.Food {
	data, err := s.cache.Get(ctx, upcCacheKey(upcCode))
	if err != nil {
		return nil
	}
	id, err := uuid.Parse(string(data))
	if err != nil {
		return nil
	}
	f, err := s.foods.FindByID(ctx, id)
	if err != nil {
		return nil
	}
	s.metrics.CacheOperation("get", "hit")
	return f
}

func (s *Service) rememberUPC(ctx context.Context, upcCode string, id uuid.UUID) {
	if err := s.cache.Set(ctx, upcCacheKey(upcCode), []byte(id.String()), upcCacheTTL); err != nil {
		s.logger.Debug("failed to cache upc lookup", zap.Error(err))
	}
}

func upcCacheKey(code string) string {
	return "food:upc:" + code
}
