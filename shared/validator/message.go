package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

const messageSeparator = "; "

var templates = map[string]string{
	"required":         "{field} is required",
	"required_if":      "{field} is required when {param}",
	"required_without": "{field} is required unless {param} is set",
	"empty":            "{field} must be empty",
	"oneof":            "{field} must be one of {param}",
	"datetime":         "{field} must be a date time in the format {param}",
	"gte":              "{field} must be greater than or equal to {param}",
	"min":              "{field} must be greater than or equal to {param}",
	"lte":              "{field} must be less than or equal to {param}",
	"max":              "{field} must be less than or equal to {param}",
}

// message renders one line per failed field, in declaration order.
func message(err error) string {
	var fieldErrs val.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	lines := make([]string, 0, len(fieldErrs))

	for _, fieldErr := range fieldErrs {
		lines = append(lines, describe(fieldErr))
	}

	return strings.Join(lines, messageSeparator)
}

func describe(fieldErr val.FieldError) string {
	tmpl, ok := templates[fieldErr.Tag()]
	if !ok {
		return fieldErr.Field() + " failed " + fieldErr.Tag() + " validation"
	}

	return strings.NewReplacer("{field}", fieldErr.Field(), "{param}", fieldErr.Param()).Replace(tmpl)
}
