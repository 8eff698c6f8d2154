package utils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// messageByTag maps validator tags to human-readable message templates.
// The first placeholder is the field name, the second the tag parameter.
var messageByTag = map[string]string{
	"required": "%s is required",
	"min":      "%s must be at least %s characters",
	"max":      "%s must be at most %s characters",
	"email":    "%s must be a valid email",
	"uuid":     "%s must be a valid UUID",
	"oneof":    "%s must be one of: %s",
	"gt":       "%s must be greater than %s",
	"gte":      "%s must be greater than %s",
	"datetime": "%s must be a timestamp in format %s",
	"dive":     "%s contains invalid values",
}

// ValidateStruct checks a struct against its validation tags and turns
// validator output into messages safe to surface in API responses
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, fieldMessage(e))
	}
	return fmt.Errorf("%s", strings.Join(messages, "; "))
}

func fieldMessage(e validator.FieldError) string {
	field := strings.ToLower(e.Field())

	template, ok := messageByTag[e.Tag()]
	if !ok {
		return fmt.Sprintf("%s is invalid", field)
	}
	if strings.Count(template, "%s") == 2 {
		return fmt.Sprintf(template, field, e.Param())
	}
	return fmt.Sprintf(template, field)
}
