// Package dashboard implements dashboard, analytics and planning use cases
package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/platewise/v1/internal/domain/food"
	"github.com/platewise/v1/internal/domain/plan"
	"github.com/platewise/v1/internal/domain/user"
	"github.com/platewise/v1/internal/ports/inbound"
	"github.com/platewise/v1/internal/ports/outbound"
	apperrors "github.com/platewise/v1/pkg/errors"
)

const (
	weekDays      = 7
	analyticsDays = 30

	dashboardRecommendations = 3
)

// Service implements inbound.DashboardService
type Service struct {
	users           outbound.UserRepository
	foods           outbound.FoodRepository
	logs            outbound.FoodLogRepository
	plans           outbound.PlanRepository
	recommendations outbound.RecommendationRepository
	logger          *zap.Logger
}

// NewService creates a new dashboard service
func NewService(
	users outbound.UserRepository,
	foods outbound.FoodRepository,
	logs outbound.FoodLogRepository,
	plans outbound.PlanRepository,
	recommendations outbound.RecommendationRepository,
	logger *zap.Logger,
) inbound.DashboardService {
	return &Service{
		users:           users,
		foods:           foods,
		logs:            logs,
		plans:           plans,
		recommendations: recommendations,
		logger:          logger.Named("dashboard-service"),
	}
}

// Today returns the landing dashboard: the running totals for the
// current day, the day's entries, recent recommendations and a
// seven day summary.
func (s *Service) Today(ctx context.Context, userID uuid.UUID) (*inbound.TodaySummary, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := plan.Day(time.Now())
	tomorrow := today.AddDate(0, 0, 1)

	logs, err := s.logs.FindByUserAndRange(ctx, userID, today, tomorrow)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list food logs", err)
	}

	resolver := newFoodResolver(s.foods)
	entries, err := resolver.entries(ctx, logs)
	if err != nil {
		return nil, err
	}

	week, err := s.daySummaries(ctx, userID, resolver, weekDays)
	if err != nil {
		return nil, err
	}

	recs, err := s.recommendations.FindUnused(ctx, userID, dashboardRecommendations)
	if err != nil {
		s.logger.Warn("failed to load recommendations", zap.Error(err))
		recs = nil
	}

	return &inbound.TodaySummary{
		Summary:         summarize(today, entries),
		CalorieGoal:     u.Preferences().DailyCalorieGoal,
		Entries:         entries,
		Recommendations: recs,
		WeekSummary:     week,
	}, nil
}

// Nutrition returns per-day nutrition summaries for the last n days,
// oldest first. Days with no logs are included with zero totals.
func (s *Service) Nutrition(ctx context.Context, userID uuid.UUID, days int) ([]inbound.DaySummary, error) {
	if days <= 0 {
		days = weekDays
	}
	if days > 90 {
		days = 90
	}
	return s.daySummaries(ctx, userID, newFoodResolver(s.foods), days)
}

// Analytics aggregates the last 30 days of eating patterns
func (s *Service) Analytics(ctx context.Context, userID uuid.UUID) (*inbound.Analytics, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}

	to := plan.Day(time.Now()).AddDate(0, 0, 1)
	from := to.AddDate(0, 0, -analyticsDays)

	logs, err := s.logs.FindByUserAndRange(ctx, userID, from, to)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list food logs", err)
	}

	resolver := newFoodResolver(s.foods)
	entries, err := resolver.entries(ctx, logs)
	if err != nil {
		return nil, err
	}

	byDay := make(map[time.Time]float64)
	patterns := make(map[string]int)
	for _, e := range entries {
		day := plan.Day(e.Log.LoggedAt())
		byDay[day] += e.Calories
		patterns[string(e.Log.MealType())]++
	}

	points := make([]inbound.DailyCaloriePoint, 0, len(byDay))
	var total float64
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		calories, ok := byDay[day]
		if !ok {
			continue
		}
		points = append(points, inbound.DailyCaloriePoint{Date: day, Calories: calories})
		total += calories
	}

	avg := 0.0
	if len(points) > 0 {
		avg = total / float64(len(points))
	}

	return &inbound.Analytics{
		From:             from,
		To:               to,
		DaysTracked:      len(points),
		AvgDailyCalories: avg,
		CalorieGoal:      u.Preferences().DailyCalorieGoal,
		MealPatterns:     patterns,
		DailyCalories:    points,
	}, nil
}

// Planner returns the meal plan for a date together with what was
// actually logged that day, grouped by meal type.
func (s *Service) Planner(ctx context.Context, userID uuid.UUID, date time.Time) (*inbound.PlannerView, error) {
	day := plan.Day(date)

	p, err := s.plans.FindByUserAndDate(ctx, userID, day)
	if err != nil && !errors.Is(err, plan.ErrPlanNotFound) {
		return nil, apperrors.NewDatabaseError("find plan", err)
	}

	logs, err := s.logs.FindByUserAndRange(ctx, userID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, apperrors.NewDatabaseError("list food logs", err)
	}

	entries, err := newFoodResolver(s.foods).entries(ctx, logs)
	if err != nil {
		return nil, err
	}

	logged := make(map[string][]inbound.LogEntry)
	for _, e := range entries {
		meal := string(e.Log.MealType())
		logged[meal] = append(logged[meal], e)
	}

	return &inbound.PlannerView{Date: day, Plan: p, Logged: logged}, nil
}

// SavePlan stores the meal plan for a date, replacing any existing one
func (s *Service) SavePlan(ctx context.Context, cmd inbound.SavePlanCommand) (*plan.DailyPlan, error) {
	p := plan.NewDailyPlan(cmd.UserID, cmd.Date)
	p.SetMeals(cmd.Meals)
	p.SetGoals(cmd.Goals)

	if err := s.plans.Save(ctx, p); err != nil {
		return nil, apperrors.NewDatabaseError("save plan", err)
	}

	saved, err := s.plans.FindByUserAndDate(ctx, cmd.UserID, cmd.Date)
	if err != nil {
		return nil, apperrors.NewDatabaseError("find plan", err)
	}
	return saved, nil
}

func (s *Service) user(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, apperrors.NewUserNotFoundError(userID.String())
		}
		return nil, apperrors.NewDatabaseError("find user", err)
	}
	return u, nil
}

// daySummaries builds one summary per calendar day for the last n days,
// oldest first, including empty days.
func (s *Service) daySummaries(ctx context.Context, userID uuid.UUID, resolver *foodResolver, days int) ([]inbound.DaySummary, error) {
	to := plan.Day(time.Now()).AddDate(0, 0, 1)
	from := to.AddDate(0, 0, -days)

	logs, err := s.logs.FindByUserAndRange(ctx, userID, from, to)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list food logs", err)
	}

	entries, err := resolver.entries(ctx, logs)
	if err != nil {
		return nil, err
	}

	byDay := make(map[time.Time][]inbound.LogEntry)
	for _, e := range entries {
		day := plan.Day(e.Log.LoggedAt())
		byDay[day] = append(byDay[day], e)
	}

	summaries := make([]inbound.DaySummary, 0, days)
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		summaries = append(summaries, summarize(day, byDay[day]))
	}
	return summaries, nil
}

// summarize totals the scaled nutrition of a day's entries
func summarize(day time.Time, entries []inbound.LogEntry) inbound.DaySummary {
	summary := inbound.DaySummary{Date: day, Meals: len(entries)}
	if len(entries) > 0 {
		summary.ByMeal = make(map[string]int)
	}
	for _, e := range entries {
		scaled := e.Food.Nutrition().Scale(e.Log.Quantity())
		summary.Calories += scaled.Calories
		summary.Protein += scaled.Protein
		summary.Carbs += scaled.Carbs
		summary.Fat += scaled.Fat
		summary.Fiber += scaled.Fiber
		summary.Sugar += scaled.Sugar
		summary.Sodium += scaled.Sodium
		summary.ByMeal[string(e.Log.MealType())]++
	}
	return summary
}

// foodResolver memoizes food lookups across the logs of one request
type foodResolver struct {
	foods outbound.FoodRepository
	seen  map[uuid.UUID]*food.Food
}

func newFoodResolver(foods outbound.FoodRepository) *foodResolver {
	return &foodResolver{foods: foods, seen: make(map[uuid.UUID]*food.Food)}
}

func (r *foodResolver) entries(ctx context.Context, logs []*food.Log) ([]inbound.LogEntry, error) {
	entries := make([]inbound.LogEntry, 0, len(logs))
	for _, log := range logs {
		f, err := r.resolve(ctx, log.FoodID())
		if err != nil {
			return nil, err
		}
		if f == nil {
			continue
		}
		entries = append(entries, inbound.LogEntry{
			Log:      log,
			Food:     f,
			Calories: f.CaloriesFor(log.Quantity()),
		})
	}
	return entries, nil
}

func (r *foodResolver) resolve(ctx context.Context, id uuid.UUID) (*food.Food, error) {
	if f, ok := r.seen[id]; ok {
		return f, nil
	}
	f, err := r.foods.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, food.ErrFoodNotFound) {
			r.seen[id] = nil
			return nil, nil
		}
		return nil, apperrors.NewDatabaseError("find food", err)
	}
	r.seen[id] = f
	return f, nil
}
