package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their JSON names so messages match the request body.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func Validate[T any](value T) (T, error) {
	if err := validate.Struct(value); err != nil {
		return value, ValidationErrorToString(value, err)
	}

	return value, nil
}

func ValidationErrorToString(input any, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldErrorMessage(input, fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func fieldErrorMessage(input any, fe validator.FieldError) string {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("field '%s' is required", field)
	case "oneof":
		return fmt.Sprintf("field '%s' must be one of [%s], got '%v'", field, fe.Param(), fe.Value())
	case "gt":
		return fmt.Sprintf("field '%s' must be greater than %s, got '%v'", field, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("failed %T validation for field '%s': rule '%s' expected '%s', got '%v'", input, field, fe.Tag(), fe.Param(), fe.Value())
	}
}

// fieldPath drops the root struct name: "GardenCreate.plants[0].height" -> "plants[0].height".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
