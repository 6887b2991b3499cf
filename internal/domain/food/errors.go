package food

import "errors"

// Domain errors for food and food log operations

var (
	// Entity validation errors
	ErrNameRequired    = errors.New("food name is required")
	ErrNameTooLong     = errors.New("food name must not exceed 200 characters")
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
	ErrInvalidMealType = errors.New("meal type must be breakfast, lunch, dinner or snack")
	ErrInvalidUPC      = errors.New("upc code must be 6 to 14 digits")

	// Lookup errors
	ErrFoodNotFound    = errors.New("food not found")
	ErrFoodLogNotFound = errors.New("food log not found")
	ErrDuplicateUPC    = errors.New("food with this upc code already exists")

	// Permission errors
	ErrNotLogOwner = errors.New("only the owner can modify this food log")
)
