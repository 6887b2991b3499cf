// Package gorm provides GORM model definitions for the application
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel represents the GORM model for users
type UserModel struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name         string    `gorm:"type:varchar(255);not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	PictureURL   string    `gorm:"type:text"`
	IsActive     bool      `gorm:"default:true"`
	Preferences  *UserPreferencesModel `gorm:"embedded;embeddedPrefix:pref_"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time

	// Relationships
	FoodLogs []FoodLogModel `gorm:"foreignKey:UserID"`
}

// UserPreferencesModel represents embedded user preferences
type UserPreferencesModel struct {
	DailyCalorieGoal    int         `gorm:"default:2000"`
	DietaryRestrictions StringSlice `gorm:"type:json"`
	PreferredCuisine    string      `gorm:"type:varchar(100)"`
}

// FoodModel represents the GORM model for foods
type FoodModel struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name        string    `gorm:"type:varchar(255);not null;index"`
	Brand       string    `gorm:"type:varchar(255);index"`
	UPCCode     *string   `gorm:"type:varchar(20);uniqueIndex"`
	Ingredients string    `gorm:"type:text"`
	Source      string    `gorm:"type:varchar(50);default:'custom';index"`

	// Nutrition per 100g
	Calories float64 `gorm:"default:0"`
	Protein  float64 `gorm:"default:0"`
	Carbs    float64 `gorm:"default:0"`
	Fat      float64 `gorm:"default:0"`
	Fiber    float64 `gorm:"default:0"`
	Sugar    float64 `gorm:"default:0"`
	Sodium   float64 `gorm:"default:0"`
	Extra    FloatMap `gorm:"type:json"`

	// Product quality data
	NutriScoreGrade string      `gorm:"type:varchar(5)"`
	NovaGroup       int         `gorm:"default:0"`
	Allergens       StringSlice `gorm:"type:json"`
	Labels          StringSlice `gorm:"type:json"`
	IsVegan         bool        `gorm:"default:false"`
	IsVegetarian    bool        `gorm:"default:false"`
	IsGlutenFree    bool        `gorm:"default:false"`
	ServingSize     string      `gorm:"type:varchar(100)"`
	ImageURL        string      `gorm:"type:text"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	// Relationships
	Logs []FoodLogModel `gorm:"foreignKey:FoodID"`
}

// FoodLogModel represents the GORM model for food log entries
type FoodLogModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;index:idx_food_logs_user_logged"`
	FoodID    uuid.UUID `gorm:"type:char(36);not null;index"`
	Quantity  float64   `gorm:"not null;check:quantity > 0"`
	MealType  string    `gorm:"type:varchar(20);not null;index"`
	Notes     string    `gorm:"type:text"`
	LoggedAt  time.Time `gorm:"not null;index:idx_food_logs_user_logged"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships
	User UserModel `gorm:"foreignKey:UserID"`
	Food FoodModel `gorm:"foreignKey:FoodID"`
}

// DailyPlanModel represents the GORM model for daily meal plans
type DailyPlanModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_daily_plans_user_date"`
	Date      time.Time `gorm:"not null;uniqueIndex:idx_daily_plans_user_date"`
	Meals     JSONField `gorm:"type:json"`
	Goals     JSONField `gorm:"type:json"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships
	User UserModel `gorm:"foreignKey:UserID"`
}

// RecommendationModel represents the GORM model for AI recommendations
type RecommendationModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;index"`
	Type      string    `gorm:"type:varchar(50);not null;index"`
	Content   string    `gorm:"type:text;not null"`
	Context   JSONField `gorm:"type:json"`
	Provider  string    `gorm:"type:varchar(50)"`
	Model     string    `gorm:"type:varchar(100)"`
	Rating    int       `gorm:"default:0;index"`
	IsUsed    bool      `gorm:"default:false"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	// Relationships
	User UserModel `gorm:"foreignKey:UserID"`
}

// StringSlice custom type for handling string slices in JSON
type StringSlice []string

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	return json.Marshal(s)
}

// JSONField custom type for handling JSON fields
type JSONField map[string]interface{}

// Scan implements the sql.Scanner interface
func (j *JSONField) Scan(value interface{}) error {
	if value == nil {
		*j = JSONField{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return fmt.Errorf("cannot scan %T into JSONField", value)
	}
}

// Value implements the driver.Valuer interface
func (j JSONField) Value() (driver.Value, error) {
	if len(j) == 0 {
		return "{}", nil
	}
	return json.Marshal(j)
}

// FloatMap custom type for handling numeric JSON maps
type FloatMap map[string]float64

// Scan implements the sql.Scanner interface
func (f *FloatMap) Scan(value interface{}) error {
	if value == nil {
		*f = FloatMap{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	default:
		return fmt.Errorf("cannot scan %T into FloatMap", value)
	}
}

// Value implements the driver.Valuer interface
func (f FloatMap) Value() (driver.Value, error) {
	if len(f) == 0 {
		return "{}", nil
	}
	return json.Marshal(f)
}

// BeforeCreate hook for UserModel
func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for FoodModel
func (f *FoodModel) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for FoodLogModel
func (l *FoodLogModel) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for DailyPlanModel
func (p *DailyPlanModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for RecommendationModel
func (r *RecommendationModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName methods for custom table names
func (UserModel) TableName() string {
	return "users"
}

func (FoodModel) TableName() string {
	return "foods"
}

func (FoodLogModel) TableName() string {
	return "food_logs"
}

func (DailyPlanModel) TableName() string {
	return "daily_plans"
}

func (RecommendationModel) TableName() string {
	return "recommendations"
}
