package carpolling

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// FieldError describes one failed validation constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ValidationError aggregates per-field validation failures.
type ValidationError struct {
	Details []FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// Validate checks a DTO against its validation tags. It is opt-in:
// the request executor never calls it, and an invalid value passed to an
// endpoint is encoded and sent verbatim for the server to judge.
func Validate(dst interface{}) error {
	if err := validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			details := make([]FieldError, 0, len(validationErrors))
			for _, err := range validationErrors {
				details = append(details, FieldError{
					Field:   err.Field(),
					Message: getValidationMessage(err),
					Code:    err.Tag(),
				})
			}
			return &ValidationError{Details: details}
		}
		return err
	}

	return nil
}

// IsValidationError checks if error is a ValidationError and returns details
func IsValidationError(err error) ([]FieldError, bool) {
	if err == nil {
		return nil, false
	}
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		return nil, false
	}
	return valErr.Details, true
}

// getValidationMessage returns a human-readable validation error message
func getValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	case "gt":
		return "Value must be greater than " + err.Param()
	case "gte":
		return "Value must be greater than or equal to " + err.Param()
	case "lte":
		return "Value must be less than or equal to " + err.Param()
	default:
		return "Invalid value"
	}
}
