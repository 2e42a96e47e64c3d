package handlers

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// formatValidationErrors turns validator failures into a field → message
// map for 400 responses.
func formatValidationErrors(err error) map[string]string {
	errorMessages := make(map[string]string)
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errorMessages["body"] = err.Error()
		return errorMessages
	}
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return errorMessages
}
