// Package sqlite provides SQLite database setup and configuration
package sqlite

import (
	"fmt"
	"time"

	gormModels "github.com/platewise/v1/internal/infrastructure/persistence/gorm"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupDatabase creates and configures the SQLite database
func SetupDatabase(dbPath string, logLevel logger.LogLevel) (*gorm.DB, error) {
	// Use in-memory database if no path provided
	if dbPath == "" {
		dbPath = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// An in-memory database exists per connection, so the pool must
	// stay on a single one
	if dbPath == ":memory:" {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}

	// Run auto-migration
	err = db.AutoMigrate(
		&gormModels.UserModel{},
		&gormModels.FoodModel{},
		&gormModels.FoodLogModel{},
		&gormModels.DailyPlanModel{},
		&gormModels.RecommendationModel{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// DemoUserEmail is the login of the seeded demo account
const DemoUserEmail = "demo@platewise.app"

// SeedDatabase populates the database with initial data
func SeedDatabase(db *gorm.DB) error {
	// Check if data already exists
	var userCount int64
	db.Model(&gormModels.UserModel{}).Count(&userCount)
	if userCount > 0 {
		return nil // Already seeded
	}

	// Demo account, password is "password"
	demoUser := gormModels.UserModel{
		Email:        DemoUserEmail,
		Name:         "Demo User",
		PasswordHash: "$2a$10$92IXUNpkjO0rOQ5byMi.Ye4oKoEa3Ro9llC/.og/at2.uheWG/igi",
		IsActive:     true,
		Preferences: &gormModels.UserPreferencesModel{
			DailyCalorieGoal:    2000,
			DietaryRestrictions: []string{},
			PreferredCuisine:    "mediterranean",
		},
	}

	if err := db.Create(&demoUser).Error; err != nil {
		return fmt.Errorf("failed to create demo user: %w", err)
	}

	// Common staple foods, nutrition per 100g
	staples := []gormModels.FoodModel{
		{
			Name:     "Banana",
			Source:   "custom",
			Calories: 89, Protein: 1.1, Carbs: 22.8, Fat: 0.3, Fiber: 2.6, Sugar: 12.2, Sodium: 1,
			IsVegan: true, IsVegetarian: true, IsGlutenFree: true,
			ServingSize: "118g (1 medium)",
		},
		{
			Name:     "Chicken Breast",
			Source:   "custom",
			Calories: 165, Protein: 31, Carbs: 0, Fat: 3.6, Fiber: 0, Sugar: 0, Sodium: 74,
			IsGlutenFree: true,
			ServingSize:  "100g",
		},
		{
			Name:     "Brown Rice",
			Source:   "custom",
			Calories: 112, Protein: 2.6, Carbs: 23.5, Fat: 0.9, Fiber: 1.8, Sugar: 0.4, Sodium: 5,
			IsVegan: true, IsVegetarian: true, IsGlutenFree: true,
			ServingSize: "195g (1 cup cooked)",
		},
		{
			Name:     "Greek Yogurt",
			Brand:    "Generic",
			Source:   "custom",
			Calories: 59, Protein: 10, Carbs: 3.6, Fat: 0.4, Fiber: 0, Sugar: 3.2, Sodium: 36,
			IsVegetarian: true, IsGlutenFree: true,
			ServingSize: "170g (1 container)",
		},
		{
			Name:     "Broccoli",
			Source:   "custom",
			Calories: 34, Protein: 2.8, Carbs: 6.6, Fat: 0.4, Fiber: 2.6, Sugar: 1.7, Sodium: 33,
			IsVegan: true, IsVegetarian: true, IsGlutenFree: true,
			ServingSize: "91g (1 cup)",
		},
		{
			Name:     "Almonds",
			Source:   "custom",
			Calories: 579, Protein: 21.2, Carbs: 21.6, Fat: 49.9, Fiber: 12.5, Sugar: 4.4, Sodium: 1,
			IsVegan: true, IsVegetarian: true, IsGlutenFree: true,
			ServingSize: "28g (1 oz)",
		},
		{
			Name:     "Whole Wheat Bread",
			Source:   "custom",
			Calories: 247, Protein: 13, Carbs: 41, Fat: 3.4, Fiber: 7, Sugar: 5.6, Sodium: 450,
			IsVegan: true, IsVegetarian: true,
			ServingSize: "28g (1 slice)",
		},
		{
			Name:     "Salmon",
			Source:   "custom",
			Calories: 208, Protein: 20.4, Carbs: 0, Fat: 13.4, Fiber: 0, Sugar: 0, Sodium: 59,
			IsGlutenFree: true,
			ServingSize:  "100g",
		},
		{
			Name:     "Egg",
			Source:   "custom",
			Calories: 155, Protein: 12.6, Carbs: 1.1, Fat: 10.6, Fiber: 0, Sugar: 1.1, Sodium: 124,
			IsVegetarian: true, IsGlutenFree: true,
			ServingSize: "50g (1 large)",
		},
		{
			Name:     "Oatmeal",
			Source:   "custom",
			Calories: 389, Protein: 16.9, Carbs: 66.3, Fat: 6.9, Fiber: 10.6, Sugar: 0.99, Sodium: 2,
			IsVegan: true, IsVegetarian: true,
			ServingSize: "40g (1/2 cup dry)",
		},
	}

	for i := range staples {
		if err := db.Create(&staples[i]).Error; err != nil {
			return fmt.Errorf("failed to create staple food: %w", err)
		}
	}

	// A few log entries so the dashboard isn't empty on first login
	now := time.Now()
	logs := []gormModels.FoodLogModel{
		{
			UserID:   demoUser.ID,
			FoodID:   staples[9].ID, // Oatmeal
			Quantity: 40,
			MealType: "breakfast",
			LoggedAt: time.Date(now.Year(), now.Month(), now.Day(), 8, 0, 0, 0, now.Location()),
		},
		{
			UserID:   demoUser.ID,
			FoodID:   staples[0].ID, // Banana
			Quantity: 118,
			MealType: "breakfast",
			LoggedAt: time.Date(now.Year(), now.Month(), now.Day(), 8, 15, 0, 0, now.Location()),
		},
		{
			UserID:   demoUser.ID,
			FoodID:   staples[1].ID, // Chicken Breast
			Quantity: 150,
			MealType: "lunch",
			LoggedAt: time.Date(now.Year(), now.Month(), now.Day(), 12, 30, 0, 0, now.Location()),
		},
		{
			UserID:   demoUser.ID,
			FoodID:   staples[2].ID, // Brown Rice
			Quantity: 195,
			MealType: "lunch",
			LoggedAt: time.Date(now.Year(), now.Month(), now.Day(), 12, 30, 0, 0, now.Location()),
		},
	}

	for i := range logs {
		if err := db.Create(&logs[i]).Error; err != nil {
			return fmt.Errorf("failed to create demo log entry: %w", err)
		}
	}

	return nil
}
