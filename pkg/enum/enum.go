package enum

import (
	"fmt"
	"reflect"
)

var registry = map[string]any{}

type values[T comparable] map[string]T

// New registers a value of a string-backed enum type and returns it, so it
// can be used directly in a var declaration.
func New[T comparable](value T) T {
	v := reflect.ValueOf(value)
	name := v.Type().Name()
	if _, ok := registry[name]; !ok {
		registry[name] = values[T]{}
	}

	registry[name].(values[T])[v.String()] = value
	return value
}

func ToEnum[T comparable](s string) (T, error) {
	var zero T
	reg, ok := registry[reflect.TypeOf(zero).Name()]
	if !ok {
		return zero, fmt.Errorf("not found enum type %T", zero)
	}

	value, ok := reg.(values[T])[s]
	if !ok {
		return zero, fmt.Errorf("not found value %s in enum %T", s, zero)
	}

	return value, nil
}
