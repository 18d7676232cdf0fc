// Package validation performs structural checks on mutation payloads before
// anything touches the store. It knows nothing about persistence.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/Baaaki/restaurant-directory/internal/apperr"
	"github.com/go-playground/validator/v10"
)

// FieldError is one violated constraint.
type FieldError struct {
	Field   string
	Message string
}

// Result lists every violation in declaration order.
type Result struct {
	Valid  bool
	Errors []FieldError
}

type Validator struct {
	validate *validator.Validate
}

var defaultValidator = New()

// New builds a validator that reports fields by their JSON names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// [lng, lat]
	_ = v.RegisterValidation("lnglat", func(fl validator.FieldLevel) bool {
		pair, ok := fl.Field().Interface().([]float64)
		if !ok || len(pair) != 2 {
			return false
		}
		return pair[0] >= -180 && pair[0] <= 180 && pair[1] >= -90 && pair[1] <= 90
	})

	return &Validator{validate: v}
}

// Check runs every constraint and collects the violations.
func (v *Validator) Check(input any) Result {
	err := v.validate.Struct(input)
	if err == nil {
		return Result{Valid: true}
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Result{Errors: []FieldError{{Message: err.Error()}}}
	}

	result := Result{Errors: make([]FieldError, 0, len(errs))}
	for _, fe := range errs {
		field := fieldPath(fe)
		result.Errors = append(result.Errors, FieldError{
			Field:   field,
			Message: describe(field, fe),
		})
	}
	return result
}

// Validate returns the first violation as an InvalidInput error, or nil.
func (v *Validator) Validate(input any) error {
	result := v.Check(input)
	if result.Valid {
		return nil
	}
	first := result.Errors[0]
	return apperr.InvalidInput(first.Field, first.Message)
}

// Check runs the package validator.
func Check(input any) Result {
	return defaultValidator.Check(input)
}

// Validate runs the package validator.
func Validate(input any) error {
	return defaultValidator.Validate(input)
}

// fieldPath drops the struct name from the namespace:
// RestaurantInput.schedule[0].day -> schedule[0].day
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describe(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("%s length must be at least %s characters long", field, fe.Param())
		case reflect.Slice, reflect.Array:
			return fmt.Sprintf("%s must contain at least %s items", field, fe.Param())
		default:
			return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
		}
	case "max":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("%s length must be less than or equal to %s characters long", field, fe.Param())
		case reflect.Slice, reflect.Array:
			return fmt.Sprintf("%s must contain at most %s items", field, fe.Param())
		default:
			return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
		}
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "uuid":
		return fmt.Sprintf("%s must be a valid id", field)
	case "lnglat":
		return fmt.Sprintf("%s must be a [longitude, latitude] pair", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
