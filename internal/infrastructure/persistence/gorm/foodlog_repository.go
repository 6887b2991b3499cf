package gorm

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/platewise/v1/internal/domain/food"
	"github.com/platewise/v1/internal/ports/outbound"
	"gorm.io/gorm"
)

// FoodLogRepository implements the food log repository interface using GORM
type FoodLogRepository struct {
	db *gorm.DB
}

// NewFoodLogRepository creates a new food log repository
func NewFoodLogRepository(db *gorm.DB) outbound.FoodLogRepository {
	return &FoodLogRepository{db: db}
}

// Create creates a new food log entry
func (r *FoodLogRepository) Create(ctx context.Context, l *food.Log) error {
	model := LogToModel(l)

	result := r.db.WithContext(ctx).Create(model)
	return result.Error
}

// Update updates an existing food log entry
func (r *FoodLogRepository) Update(ctx context.Context, l *food.Log) error {
	model := LogToModel(l)

	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return food.ErrFoodLogNotFound
	}

	return nil
}

// Delete deletes a food log entry by ID
func (r *FoodLogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&FoodLogModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return food.ErrFoodLogNotFound
	}

	return nil
}

// FindByID finds a food log entry by ID
func (r *FoodLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*food.Log, error) {
	var model FoodLogModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, food.ErrFoodLogNotFound
		}
		return nil, result.Error
	}

	return ModelToLog(&model), nil
}

// FindByUser returns a page of log entries for a user, newest first,
// along with the total count
func (r *FoodLogRepository) FindByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*food.Log, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&FoodLogModel{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []FoodLogModel
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("logged_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return toLogs(models), total, nil
}

// FindByUserAndRange returns all log entries for a user within a time range
func (r *FoodLogRepository) FindByUserAndRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*food.Log, error) {
	var models []FoodLogModel

	result := r.db.WithContext(ctx).
		Where("user_id = ? AND logged_at >= ? AND logged_at < ?", userID, from, to).
		Order("logged_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	return toLogs(models), nil
}

// FindRecent returns the most recent log entries for a user
func (r *FoodLogRepository) FindRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*food.Log, error) {
	if limit <= 0 {
		limit = 10
	}

	var models []FoodLogModel
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("logged_at DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	return toLogs(models), nil
}

func toLogs(models []FoodLogModel) []*food.Log {
	logs := make([]*food.Log, len(models))
	for i := range models {
		logs[i] = ModelToLog(&models[i])
	}
	return logs
}
