// Package security provides input validation for API requests
package security

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/platewise/v1/internal/domain/food"
)

// ValidationService provides input validation
type ValidationService struct {
	logger    *zap.Logger
	validator *validator.Validate
}

// NewValidationService creates a new validation service
func NewValidationService(logger *zap.Logger) *ValidationService {
	validate := validator.New()

	validate.RegisterValidation("upc_code", validateUPCCode)
	validate.RegisterValidation("meal_type", validateMealType)
	validate.RegisterValidation("strong_password", validateStrongPassword)

	return &ValidationService{
		logger:    logger,
		validator: validate,
	}
}

// Validate validates a struct against its validation tags
func (v *ValidationService) Validate(s interface{}) error {
	return v.validator.Struct(s)
}

// Validator exposes the underlying validator for handler binding
func (v *ValidationService) Validator() *validator.Validate {
	return v.validator
}

// FieldErrors converts validator errors into a field-to-message map
func FieldErrors(err error) map[string]string {
	fields := make(map[string]string)

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return fields
	}

	for _, fe := range validationErrors {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			fields[field] = "this field is required"
		case "email":
			fields[field] = "must be a valid email address"
		case "min":
			fields[field] = "value is too short or too small"
		case "max":
			fields[field] = "value is too long or too large"
		case "gt":
			fields[field] = "must be greater than " + fe.Param()
		case "upc_code":
			fields[field] = "must be 6 to 14 digits"
		case "meal_type":
			fields[field] = "must be one of breakfast, lunch, dinner, snack"
		case "strong_password":
			fields[field] = "must be at least 8 characters with letters and digits"
		default:
			fields[field] = "invalid value"
		}
	}

	return fields
}

// validateUPCCode checks barcode format
func validateUPCCode(fl validator.FieldLevel) bool {
	return food.ValidateUPC(fl.Field().String()) == nil
}

// validateMealType checks meal classification values
func validateMealType(fl validator.FieldLevel) bool {
	return food.MealType(fl.Field().String()).IsValid()
}

// validateStrongPassword requires a minimum length with letters and digits
func validateStrongPassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < 8 {
		return false
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	return hasLetter && hasDigit
}
