package exceptions

import (
	"smarthealth-service/internal/pkg/constvars"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FormatFirstValidationError renders the first validator error as a short
// client-safe sentence; anything that is not a validator error collapses to the
// generic message.
func FormatFirstValidationError(err error) string {
	if err == nil {
		return constvars.ErrClientCannotProcessRequest
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return constvars.ErrClientCannotProcessRequest
	}

	first := validationErrors[0]
	fieldName := strings.ToLower(first.Field())

	switch first.Tag() {
	case "required":
		return fieldName + " is required"
	case "min":
		return fieldName + " must be at least " + first.Param() + " characters"
	case "max":
		return fieldName + " must be at most " + first.Param() + " characters"
	case "numeric":
		return fieldName + " must contain digits only"
	case "oneof":
		return fieldName + " must be one of: " + strings.Join(strings.Fields(first.Param()), ", ")
	default:
		return fieldName + " is invalid"
	}
}
