package utils

import (
	"fmt"
	"reflect"
)

// AnyToType converts a decoded document value to T. Numbers convert between numeric
// kinds, so an int32 read from storage satisfies a float64 target. Nothing else is coerced.
func AnyToType[T any](input any) (T, error) {
	var zero T
	if input == nil {
		return zero, fmt.Errorf("expected %T, got nil", zero)
	}

	if result, ok := input.(T); ok {
		return result, nil
	}

	targetType := reflect.TypeOf(zero)
	if targetType == nil {
		return zero, fmt.Errorf("type mismatch: expected %T, got %T", zero, input)
	}

	inputValue := reflect.ValueOf(input)
	if isNumericKind(inputValue.Kind()) && isNumericKind(targetType.Kind()) {
		if result, ok := inputValue.Convert(targetType).Interface().(T); ok {
			return result, nil
		}
	}

	return zero, fmt.Errorf("type mismatch: expected %T, got %T", zero, input)
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
