// Package validation configures go-playground/validator for the pricing
// service and turns its errors into user-facing messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// TagRangeOrder is reported by struct-level validators when a lower bound
// exceeds its upper bound. The param holds the upper bound's field name.
const TagRangeOrder = "range_order"

// New returns a validator that names fields after their json tags.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Messages flattens a validation error into one message per failing field.
// Errors that are not validator.ValidationErrors yield a single message.
func Messages(err error) []string {
	if err == nil {
		return []string{}
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, FieldError(fe))
	}
	return msgs
}

// FieldError converts a single FieldError into a human-readable message.
func FieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "numeric":
		return field + " must be a valid number"
	case "number":
		return field + " must be a valid integer"
	case "datetime":
		return field + " must be a valid date (YYYY-MM-DD)"
	case "email":
		return field + " must be a valid email"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case TagRangeOrder:
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "nonnegative":
		return field + " must not be negative"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
