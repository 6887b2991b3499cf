// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/platewise/v1/internal/domain/food"
	"github.com/platewise/v1/internal/domain/user"
)

// UserFactory creates test users
type UserFactory struct {
	faker *gofakeit.Faker
}

// NewUserFactory creates a user factory with a seeded faker
func NewUserFactory(seed int64) *UserFactory {
	return &UserFactory{faker: gofakeit.New(seed)}
}

// Create returns a valid user with random identity
func (f *UserFactory) Create() *user.User {
	u, err := user.NewUser(
		fmt.Sprintf("%s-%s@example.com", f.faker.Username(), uuid.New().String()[:8]),
		f.faker.Name(),
		"testpass123",
	)
	if err != nil {
		panic(fmt.Sprintf("user factory produced invalid user: %v", err))
	}
	return u
}

// CreateWithEmail returns a valid user with a fixed email
func (f *UserFactory) CreateWithEmail(email string) *user.User {
	u, err := user.NewUser(email, f.faker.Name(), "testpass123")
	if err != nil {
		panic(fmt.Sprintf("user factory produced invalid user: %v", err))
	}
	return u
}

// FoodFactory creates test catalog foods
type FoodFactory struct {
	faker *gofakeit.Faker
}

// NewFoodFactory creates a food factory with a seeded faker
func NewFoodFactory(seed int64) *FoodFactory {
	return &FoodFactory{faker: gofakeit.New(seed)}
}

// Create returns a valid custom food with random nutrition
func (f *FoodFactory) Create() *food.Food {
	item, err := food.NewFood(
		f.faker.Breakfast(),
		f.faker.Company(),
		f.faker.LoremIpsumSentence(5),
		"",
		f.Nutrition(),
		food.SourceCustom,
	)
	if err != nil {
		panic(fmt.Sprintf("food factory produced invalid food: %v", err))
	}
	return item
}

// CreateWithUPC returns a valid food carrying a UPC code
func (f *FoodFactory) CreateWithUPC(upc string) *food.Food {
	item, err := food.NewFood(
		f.faker.Dinner(),
		f.faker.Company(),
		"",
		upc,
		f.Nutrition(),
		food.SourceOpenFoodFacts,
	)
	if err != nil {
		panic(fmt.Sprintf("food factory produced invalid food: %v", err))
	}
	return item
}

// CreateNamed returns a valid food with a fixed name and calorie density
func (f *FoodFactory) CreateNamed(name string, calories float64) *food.Food {
	facts := f.Nutrition()
	facts.Calories = calories
	item, err := food.NewFood(name, "", "", "", facts, food.SourceCustom)
	if err != nil {
		panic(fmt.Sprintf("food factory produced invalid food: %v", err))
	}
	return item
}

// Nutrition returns random per-100g nutrition facts
func (f *FoodFactory) Nutrition() food.NutritionFacts {
	return food.NutritionFacts{
		Calories: f.faker.Float64Range(20, 500),
		Protein:  f.faker.Float64Range(0, 40),
		Carbs:    f.faker.Float64Range(0, 80),
		Fat:      f.faker.Float64Range(0, 30),
		Fiber:    f.faker.Float64Range(0, 15),
		Sugar:    f.faker.Float64Range(0, 40),
		Sodium:   f.faker.Float64Range(0, 2),
	}
}

// LogFactory creates test food logs
type LogFactory struct {
	faker *gofakeit.Faker
}

// NewLogFactory creates a log factory with a seeded faker
func NewLogFactory(seed int64) *LogFactory {
	return &LogFactory{faker: gofakeit.New(seed)}
}

// Create returns a valid log for the given user and food
func (f *LogFactory) Create(userID, foodID uuid.UUID, mealType food.MealType) *food.Log {
	log, err := food.NewLog(userID, foodID, f.faker.Float64Range(30, 300), mealType, "")
	if err != nil {
		panic(fmt.Sprintf("log factory produced invalid log: %v", err))
	}
	return log
}

// CreateAt returns a valid log backdated to the given time
func (f *LogFactory) CreateAt(userID, foodID uuid.UUID, mealType food.MealType, loggedAt time.Time) *food.Log {
	log := f.Create(userID, foodID, mealType)
	log.SetLoggedAt(loggedAt)
	return log
}
