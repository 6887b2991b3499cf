// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/platewise/v1/internal/domain/food"
	"github.com/platewise/v1/internal/domain/plan"
	"github.com/platewise/v1/internal/domain/recommendation"
	"github.com/platewise/v1/internal/domain/user"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Create(ctx context.Context, user *user.User) error
	Update(ctx context.Context, user *user.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

// FoodRepository defines the interface for food catalog persistence
type FoodRepository interface {
	Create(ctx context.Context, food *food.Food) error
	// Upsert stores the food, returning the existing record when another
	// food with the same UPC code was created concurrently.
	Upsert(ctx context.Context, food *food.Food) (*food.Food, error)
	FindByID(ctx context.Context, id uuid.UUID) (*food.Food, error)
	FindByUPC(ctx context.Context, upcCode string) (*food.Food, error)
	SearchByName(ctx context.Context, query string, limit int) ([]*food.Food, error)
}

// FoodLogRepository defines the interface for food log persistence
type FoodLogRepository interface {
	Create(ctx context.Context, log *food.Log) error
	Update(ctx context.Context, log *food.Log) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*food.Log, error)
	FindByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*food.Log, int64, error)
	FindByUserAndRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*food.Log, error)
	FindRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*food.Log, error)
}

// PlanRepository defines the interface for daily plan persistence
type PlanRepository interface {
	Save(ctx context.Context, plan *plan.DailyPlan) error
	FindByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*plan.DailyPlan, error)
	FindByUser(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*plan.DailyPlan, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// RecommendationRepository defines the interface for recommendation persistence
type RecommendationRepository interface {
	Create(ctx context.Context, rec *recommendation.Recommendation) error
	Update(ctx context.Context, rec *recommendation.Recommendation) error
	FindByID(ctx context.Context, id uuid.UUID) (*recommendation.Recommendation, error)
	// FindVisible returns the newest recommendations for a user, excluding
	// thumbs-down rated entries.
	FindVisible(ctx context.Context, userID uuid.UUID, limit int) ([]*recommendation.Recommendation, error)
	FindUnused(ctx context.Context, userID uuid.UUID, limit int) ([]*recommendation.Recommendation, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Increment(ctx context.Context, key string) (int64, error)
}
