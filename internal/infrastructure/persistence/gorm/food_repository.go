package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/platewise/v1/internal/domain/food"
	"github.com/platewise/v1/internal/ports/outbound"
	"gorm.io/gorm"
)

// FoodRepository implements the food catalog repository interface using GORM
type FoodRepository struct {
	db *gorm.DB
}

// NewFoodRepository creates a new food repository
func NewFoodRepository(db *gorm.DB) outbound.FoodRepository {
	return &FoodRepository{db: db}
}

// Create creates a new food
func (r *FoodRepository) Create(ctx context.Context, f *food.Food) error {
	model := FoodToModel(f)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return food.ErrDuplicateUPC
		}
		return result.Error
	}

	return nil
}

// Upsert stores the food, returning the existing record when another food
// with the same UPC code was created concurrently
func (r *FoodRepository) Upsert(ctx context.Context, f *food.Food) (*food.Food, error) {
	model := FoodToModel(f)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error == nil {
		return f, nil
	}

	if !isDuplicateError(result.Error) {
		return nil, result.Error
	}

	if f.UPCCode() == "" {
		return nil, result.Error
	}

	existing, err := r.FindByUPC(ctx, f.UPCCode())
	if err != nil {
		return nil, err
	}

	return existing, nil
}

// FindByID finds a food by ID
func (r *FoodRepository) FindByID(ctx context.Context, id uuid.UUID) (*food.Food, error) {
	var model FoodModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, food.ErrFoodNotFound
		}
		return nil, result.Error
	}

	return ModelToFood(&model), nil
}

// FindByUPC finds a food by its barcode
func (r *FoodRepository) FindByUPC(ctx context.Context, upcCode string) (*food.Food, error) {
	var model FoodModel

	result := r.db.WithContext(ctx).First(&model, "upc_code = ?", upcCode)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, food.ErrFoodNotFound
		}
		return nil, result.Error
	}

	return ModelToFood(&model), nil
}

// SearchByName finds foods whose name or brand matches the query
func (r *FoodRepository) SearchByName(ctx context.Context, query string, limit int) ([]*food.Food, error) {
	if limit <= 0 {
		limit = 20
	}

	var models []FoodModel
	pattern := "%" + query + "%"

	result := r.db.WithContext(ctx).
		Where("name LIKE ? OR brand LIKE ?", pattern, pattern).
		Order("name ASC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	foods := make([]*food.Food, len(models))
	for i := range models {
		foods[i] = ModelToFood(&models[i])
	}

	return foods, nil
}
