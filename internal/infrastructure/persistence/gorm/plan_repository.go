package gorm

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/platewise/v1/internal/domain/plan"
	"github.com/platewise/v1/internal/ports/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlanRepository implements the daily plan repository interface using GORM
type PlanRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new daily plan repository
func NewPlanRepository(db *gorm.DB) outbound.PlanRepository {
	return &PlanRepository{db: db}
}

// Save creates or replaces the plan for its user and date
func (r *PlanRepository) Save(ctx context.Context, p *plan.DailyPlan) error {
	model, err := PlanToModel(p)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"meals", "goals", "updated_at"}),
	}).Create(model)

	return result.Error
}

// FindByUserAndDate finds the plan for a user on a specific date
func (r *PlanRepository) FindByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*plan.DailyPlan, error) {
	var model DailyPlanModel

	result := r.db.WithContext(ctx).
		First(&model, "user_id = ? AND date = ?", userID, plan.Day(date))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, plan.ErrPlanNotFound
		}
		return nil, result.Error
	}

	return ModelToPlan(&model)
}

// FindByUser returns all plans for a user within a date range
func (r *PlanRepository) FindByUser(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*plan.DailyPlan, error) {
	var models []DailyPlanModel

	result := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, plan.Day(from), plan.Day(to)).
		Order("date ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	plans := make([]*plan.DailyPlan, 0, len(models))
	for i := range models {
		p, err := ModelToPlan(&models[i])
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}

	return plans, nil
}

// Delete deletes a plan by ID
func (r *PlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&DailyPlanModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return plan.ErrPlanNotFound
	}

	return nil
}
