// Package validation checks request payloads and reports failures as
// *apperr.ValidationError with one entry per offending field.
package validation

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/MikeMC777/customer-orders/internal/apperr"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Struct validates every `validate` tag of s.
func Struct(s any) error {
	return translate("", validate.Struct(s))
}

// Var validates a single value against tag, reporting it as field.
func Var(field string, value any, tag string) error {
	return translate(field, validate.Var(value, tag))
}

// Decode converts a JSON binding failure into a ValidationError.
func Decode(err error) error {
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return apperr.Invalid(field, "type", fmt.Sprintf("%s must be of type %s", field, jsonType(typeErr.Type)))
	}
	if errors.Is(err, io.EOF) {
		return apperr.Invalid("body", "required", "request body is required")
	}
	var verr *apperr.ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	return apperr.Invalid("body", "json", "request body must be a valid JSON object")
}

// jsonType names t the way a JSON client sees it.
func jsonType(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	}
	return "value"
}

func translate(field string, err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.Wrap(err, "validate")
	}
	out := &apperr.ValidationError{}
	for _, fe := range fieldErrs {
		name := fe.Field()
		if name == "" {
			name = field
		}
		out.Fields = append(out.Fields, apperr.FieldError{
			Field:   name,
			Rule:    fe.Tag(),
			Message: message(name, fe),
		})
	}
	return out
}

func message(field string, fe validator.FieldError) string {
	text := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		if text {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "max":
		if text {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	}
	return fmt.Sprintf("%s failed on the %s rule", field, fe.Tag())
}
