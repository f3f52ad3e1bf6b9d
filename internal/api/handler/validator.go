package handler

import (
	"github.com/go-playground/validator/v10"

	"github.com/99minutos/freight-pricing/internal/core/domain"
	"github.com/99minutos/freight-pricing/internal/pkg/validation"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{v: validation.New()}
}

// Validate satisfies the echo.Validator interface. Failures come back as a
// *domain.ValidationError so they render like service-side validation.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		return &domain.ValidationError{Errors: validation.Messages(err)}
	}
	return nil
}
