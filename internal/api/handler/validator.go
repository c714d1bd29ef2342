package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/medicapp/clinic-backend/internal/core/domain"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
// Field errors are reported under their JSON names.
func NewValidator() *echoValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface. Failures come back as a
// *domain.ValidationError.
func (ev *echoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	if err == nil {
		return nil
	}

	var fes validator.ValidationErrors
	if !errors.As(err, &fes) {
		return err
	}

	ve := domain.NewValidationError()
	for _, fe := range fes {
		ve.Add(fe.Field(), fieldCode(fe))
	}
	return ve
}

// fieldCode converts a single validator failure into a field error code.
func fieldCode(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return domain.CodeRequired
	case "datetime":
		return domain.CodeInvalidDate
	default:
		return domain.CodeInvalid
	}
}
