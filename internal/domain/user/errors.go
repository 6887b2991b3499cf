package user

import "errors"

// Domain errors for user operations

var (
	ErrInvalidEmail      = errors.New("email address is invalid")
	ErrNameTooShort      = errors.New("name must be at least 2 characters")
	ErrNameTooLong       = errors.New("name must not exceed 100 characters")
	ErrPasswordTooShort  = errors.New("password must be at least 8 characters")
	ErrInvalidCalorieGoal = errors.New("daily calorie goal must be between 500 and 10000")
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email address is already registered")
	ErrUserDeactivated   = errors.New("account is deactivated")
)
