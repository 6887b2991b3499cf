package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/platewise/v1/internal/domain/recommendation"
	"github.com/platewise/v1/internal/ports/outbound"
	"gorm.io/gorm"
)

// RecommendationRepository implements the recommendation repository interface using GORM
type RecommendationRepository struct {
	db *gorm.DB
}

// NewRecommendationRepository creates a new recommendation repository
func NewRecommendationRepository(db *gorm.DB) outbound.RecommendationRepository {
	return &RecommendationRepository{db: db}
}

// Create creates a new recommendation
func (r *RecommendationRepository) Create(ctx context.Context, rec *recommendation.Recommendation) error {
	model, err := RecommendationToModel(rec)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Create(model)
	return result.Error
}

// Update updates an existing recommendation
func (r *RecommendationRepository) Update(ctx context.Context, rec *recommendation.Recommendation) error {
	model, err := RecommendationToModel(rec)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return recommendation.ErrNotFound
	}

	return nil
}

// FindByID finds a recommendation by ID
func (r *RecommendationRepository) FindByID(ctx context.Context, id uuid.UUID) (*recommendation.Recommendation, error) {
	var model RecommendationModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, recommendation.ErrNotFound
		}
		return nil, result.Error
	}

	return ModelToRecommendation(&model)
}

// FindVisible returns the newest recommendations for a user, excluding
// thumbs-down rated entries
func (r *RecommendationRepository) FindVisible(ctx context.Context, userID uuid.UUID, limit int) ([]*recommendation.Recommendation, error) {
	if limit <= 0 {
		limit = 20
	}

	var models []RecommendationModel
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND rating >= 0", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	return toRecommendations(models)
}

// FindUnused returns recommendations the user has not acted on yet
func (r *RecommendationRepository) FindUnused(ctx context.Context, userID uuid.UUID, limit int) ([]*recommendation.Recommendation, error) {
	if limit <= 0 {
		limit = 10
	}

	var models []RecommendationModel
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND is_used = ?", userID, false).
		Order("created_at DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	return toRecommendations(models)
}

func toRecommendations(models []RecommendationModel) ([]*recommendation.Recommendation, error) {
	recs := make([]*recommendation.Recommendation, 0, len(models))
	for i := range models {
		rec, err := ModelToRecommendation(&models[i])
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
