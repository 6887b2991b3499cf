// Package user defines the user domain entity
package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultCalorieGoal is the daily calorie goal assigned to new accounts.
const DefaultCalorieGoal = 2000

// User represents an account in the system
type User struct {
	id           uuid.UUID
	email        string
	name         string
	passwordHash string
	pictureURL   string
	isActive     bool
	preferences  Preferences
	createdAt    time.Time
	updatedAt    time.Time
	lastLoginAt  *time.Time
}

// Preferences contains nutrition-related user preferences
type Preferences struct {
	DailyCalorieGoal    int
	DietaryRestrictions []DietaryRestriction
	PreferredCuisine    string
}

// DietaryRestriction represents a dietary restriction
type DietaryRestriction string

const (
	DietaryRestrictionVegetarian DietaryRestriction = "vegetarian"
	DietaryRestrictionVegan      DietaryRestriction = "vegan"
	DietaryRestrictionGlutenFree DietaryRestriction = "gluten_free"
	DietaryRestrictionDairyFree  DietaryRestriction = "dairy_free"
	DietaryRestrictionKeto       DietaryRestriction = "keto"
	DietaryRestrictionPaleo      DietaryRestriction = "paleo"
	DietaryRestrictionHalal      DietaryRestriction = "halal"
	DietaryRestrictionKosher     DietaryRestriction = "kosher"
)

// NewUser creates a new user with validation
func NewUser(email, name, password string) (*User, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	if err := validateName(name); err != nil {
		return nil, err
	}

	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &User{
		id:           uuid.New(),
		email:        strings.ToLower(email),
		name:         name,
		passwordHash: string(hashedPassword),
		isActive:     true,
		preferences: Preferences{
			DailyCalorieGoal: DefaultCalorieGoal,
		},
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a user from persisted state
func Reconstruct(
	id uuid.UUID,
	email, name, passwordHash, pictureURL string,
	isActive bool,
	prefs Preferences,
	createdAt, updatedAt time.Time,
	lastLoginAt *time.Time,
) *User {
	return &User{
		id:           id,
		email:        email,
		name:         name,
		passwordHash: passwordHash,
		pictureURL:   pictureURL,
		isActive:     isActive,
		preferences:  prefs,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
		lastLoginAt:  lastLoginAt,
	}
}

// ID returns the user's ID
func (u *User) ID() uuid.UUID {
	return u.id
}

// Email returns the user's email
func (u *User) Email() string {
	return u.email
}

// Name returns the user's name
func (u *User) Name() string {
	return u.name
}

// PasswordHash returns the bcrypt hash of the user's password
func (u *User) PasswordHash() string {
	return u.passwordHash
}

// PictureURL returns the user's avatar URL
func (u *User) PictureURL() string {
	return u.pictureURL
}

// IsActive returns whether the user is active
func (u *User) IsActive() bool {
	return u.isActive
}

// Preferences returns the user's nutrition preferences
func (u *User) Preferences() Preferences {
	return u.preferences
}

// CreatedAt returns when the account was created
func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

// UpdatedAt returns when the account was last modified
func (u *User) UpdatedAt() time.Time {
	return u.updatedAt
}

// LastLoginAt returns the last login timestamp, nil if the user never logged in
func (u *User) LastLoginAt() *time.Time {
	return u.lastLoginAt
}

// DaysActive returns the number of calendar days since registration, inclusive
func (u *User) DaysActive() int {
	return int(time.Since(u.createdAt).Hours()/24) + 1
}

// CheckPassword verifies a plaintext password against the stored hash
func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password))
}

// UpdateProfile changes the user's display name and picture
func (u *User) UpdateProfile(name, pictureURL string) error {
	if err := validateName(name); err != nil {
		return err
	}
	u.name = name
	u.pictureURL = pictureURL
	u.updatedAt = time.Now()
	return nil
}

// UpdatePreferences replaces the user's nutrition preferences
func (u *User) UpdatePreferences(prefs Preferences) error {
	if prefs.DailyCalorieGoal < 500 || prefs.DailyCalorieGoal > 10000 {
		return ErrInvalidCalorieGoal
	}
	u.preferences = prefs
	u.updatedAt = time.Now()
	return nil
}

// RecordLogin updates the last login timestamp
func (u *User) RecordLogin() {
	now := time.Now()
	u.lastLoginAt = &now
}

// Deactivate marks the account inactive
func (u *User) Deactivate() {
	u.isActive = false
	u.updatedAt = time.Now()
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || !strings.Contains(email[at:], ".") {
		return ErrInvalidEmail
	}
	return nil
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return ErrNameTooShort
	}
	if len(name) > 100 {
		return ErrNameTooLong
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}
	return nil
}
