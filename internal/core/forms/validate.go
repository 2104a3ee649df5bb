package forms

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/hotelops/hms-console/internal/core/domain"
	"github.com/hotelops/hms-console/internal/metrics"
)

var validate = newValidator()

// newValidator reports fields by their form key so messages name what the
// operator typed.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("form"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// check validates rec and converts the first failure into a ValidationError.
func check(rec any) error {
	err := validate.Struct(rec)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return fmt.Errorf("validate form: %w", err)
	}
	fe := ve[0]
	metrics.ValidationRejectsTotal.WithLabelValues(fe.Tag()).Inc()
	if fe.Tag() == "eqfield" {
		return &domain.ValidationError{Field: fe.Field(), Message: "Passwords do not match", Err: domain.ErrPasswordMismatch}
	}
	return &domain.ValidationError{Field: fe.Field(), Message: fieldError(fe), Err: domain.ErrInvalidField}
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "required_without":
		return field + " is required"
	case "numeric", "number":
		return field + " must be a number"
	case "datetime":
		return field + " must be a date (YYYY-MM-DD)"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

func invalid(field, msg string) error {
	metrics.ValidationRejectsTotal.WithLabelValues("rule").Inc()
	return &domain.ValidationError{Field: field, Message: msg, Err: domain.ErrInvalidField}
}
